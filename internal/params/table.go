package params

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// Table supplies raw, unreduced Poseidon constants for a state width t.
//
// RoundConstants returns the flat stream of t*(FullRounds+PartialRounds)
// values, round-major. MDS returns the t x t mixing matrix. Implementations
// must return the same values for the same t on every call, and callers must
// not mutate what they receive.
type Table interface {
	RoundConstants(t int) ([]*big.Int, error)
	MDS(t int) ([][]*big.Int, error)
}

// MemTable is an in-memory Table keyed by state width.
type MemTable struct {
	C map[int][]*big.Int
	M map[int][][]*big.Int
}

func (m *MemTable) RoundConstants(t int) ([]*big.Int, error) {
	c, ok := m.C[t]
	if !ok {
		return nil, fmt.Errorf("poseidon254: table has no round constants for width %d", t)
	}
	return c, nil
}

func (m *MemTable) MDS(t int) ([][]*big.Int, error) {
	mds, ok := m.M[t]
	if !ok {
		return nil, fmt.Errorf("poseidon254: table has no mds matrix for width %d", t)
	}
	return mds, nil
}

// jsonTable mirrors the circomlibjs reference constants layout, where entry
// i of each list describes width i+2. Optimized-only keys (S, P) are ignored.
type jsonTable struct {
	C [][]string   `json:"C"`
	M [][][]string `json:"M"`
}

// LoadJSON reads a reference constants file from disk.
func LoadJSON(path string) (*MemTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("poseidon254: open constants: %w", err)
	}
	defer f.Close()
	t, err := ParseJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return t, nil
}

// ParseJSON decodes reference constants. Values may be decimal or 0x-prefixed hex.
func ParseJSON(r io.Reader) (*MemTable, error) {
	var raw jsonTable
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("poseidon254: decode constants: %w", err)
	}
	if len(raw.C) == 0 || len(raw.M) == 0 {
		return nil, fmt.Errorf("poseidon254: constants file has no C or M entries")
	}
	if len(raw.C) != len(raw.M) {
		return nil, fmt.Errorf("poseidon254: constants file has %d C entries but %d M entries", len(raw.C), len(raw.M))
	}

	table := &MemTable{
		C: make(map[int][]*big.Int, len(raw.C)),
		M: make(map[int][][]*big.Int, len(raw.M)),
	}
	for i := range raw.C {
		width := i + MinWidth
		c, err := parseInts(raw.C[i])
		if err != nil {
			return nil, fmt.Errorf("poseidon254: C[%d]: %w", i, err)
		}
		table.C[width] = c

		mds := make([][]*big.Int, len(raw.M[i]))
		for row := range raw.M[i] {
			if mds[row], err = parseInts(raw.M[i][row]); err != nil {
				return nil, fmt.Errorf("poseidon254: M[%d][%d]: %w", i, row, err)
			}
		}
		table.M[width] = mds
	}
	return table, nil
}

func parseInts(in []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(in))
	for i, s := range in {
		v, err := parseInt(s)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseInt(s string) (*big.Int, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}
