package poseidon254

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/whirlwind/poseidon254/internal/params"
)

// ConstantsEnv names the environment variable holding the path of the
// reference constants file used by the package-level functions.
const ConstantsEnv = "POSEIDON254_CONSTANTS"

var ErrNoTable = errors.New("poseidon254: no parameter table configured (set " + ConstantsEnv + " or call SetDefaultTable)")

// LoadTable reads a circomlibjs reference constants file ({"C": ..., "M": ...}).
// The optimized constants file has different C values and must not be used.
func LoadTable(path string) (Table, error) {
	t, err := params.LoadJSON(path)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTable is LoadTable over a reader.
func ParseTable(r io.Reader) (Table, error) {
	t, err := params.ParseJSON(r)
	if err != nil {
		return nil, err
	}
	return t, nil
}

var (
	defaultMu     sync.Mutex
	defaultHasher *Hasher
)

// SetDefaultTable installs the table used by the package-level functions.
func SetDefaultTable(table Table, opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultHasher = New(table, opts...)
}

// Default returns the package-level Hasher, loading its table from the file
// named by ConstantsEnv on first use. Load failures are not cached.
func Default() (*Hasher, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHasher != nil {
		return defaultHasher, nil
	}
	path := os.Getenv(ConstantsEnv)
	if path == "" {
		return nil, ErrNoTable
	}
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	defaultHasher = New(table)
	return defaultHasher, nil
}

// Hash hashes decimal-encoded integers with the default Hasher.
func Hash(inputs []string) (string, error) {
	h, err := Default()
	if err != nil {
		return "", err
	}
	return h.Hash(inputs)
}
