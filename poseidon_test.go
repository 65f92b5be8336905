package poseidon254

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whirlwind/poseidon254/internal/params"
	"github.com/whirlwind/poseidon254/internal/params/paramstest"
)

func newTestHasher(opts ...Option) *Hasher {
	return New(paramstest.NewTable(), opts...)
}

func decimals(n int, offset uint64) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.FormatUint(uint64(i)+offset, 10)
	}
	return out
}

func TestHashDeterministic(t *testing.T) {
	h := newTestHasher()
	other := newTestHasher()

	for n := 1; n <= MaxInputs; n++ {
		inputs := decimals(n, 1)
		a, err := h.Hash(inputs)
		require.NoError(t, err, "n=%d", n)
		b, err := h.Hash(inputs)
		require.NoError(t, err, "n=%d", n)
		c, err := other.Hash(inputs)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, a, b, "repeat n=%d", n)
		assert.Equal(t, a, c, "fresh hasher n=%d", n)
	}
}

func TestHashMatchesReference(t *testing.T) {
	table := paramstest.NewTable()
	cases := []struct {
		name string
		opts []Option
		ref  refConfig
	}{
		{"split", nil, refConfig{}},
		{"full-first", []Option{WithSchedule(ScheduleFullFirst)}, refConfig{fullFirst: true}},
		{"partial-last", []Option{WithPartialSBox(PartialSBoxLast)}, refConfig{partialLast: true}},
		{"narrow", []Option{WithRowWidth(params.NarrowRowWidth)}, refConfig{rowWidth: params.NarrowRowWidth}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(table, tc.opts...)
			for _, n := range []int{1, 2, 3, 5, 16} {
				inputs := make([]*big.Int, n)
				for i := range inputs {
					inputs[i] = big.NewInt(int64(1000*n + i))
				}
				got, err := h.HashBigInt(inputs)
				require.NoError(t, err)
				want := bigIntHash(t, table, tc.ref, inputs)
				assert.Equal(t, want.String(), got.String(), "n=%d", n)
			}
		})
	}
}

func TestHashErrors(t *testing.T) {
	h := newTestHasher()

	_, err := h.Hash(nil)
	var werr *UnsupportedWidthError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 1, werr.Width)

	_, err = h.Hash(decimals(17, 0))
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 18, werr.Width)

	for _, bad := range []string{"abc", "-1", "0x1", "", " 1", "1.0", "+5"} {
		_, err := h.Hash([]string{"1", bad})
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %q", bad)
		assert.Equal(t, 1, perr.Index)
		assert.Equal(t, bad, perr.Input)
	}

	// Width is checked before parsing.
	_, err = h.Hash(append(decimals(16, 0), "abc"))
	require.ErrorAs(t, err, &werr)

	_, err = h.HashBigInt([]*big.Int{big.NewInt(1), nil})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Index)
}

func TestHashReducesInputs(t *testing.T) {
	h := newTestHasher()
	p := Modulus()

	above := new(big.Int).Add(p, big.NewInt(5))
	a, err := h.Hash([]string{above.String(), "7"})
	require.NoError(t, err)
	b, err := h.Hash([]string{"5", "7"})
	require.NoError(t, err)
	assert.Equal(t, b, a)

	zero, err := h.Hash([]string{p.String()})
	require.NoError(t, err)
	want, err := h.Hash([]string{"0"})
	require.NoError(t, err)
	assert.Equal(t, want, zero)
}

func TestHashSensitivity(t *testing.T) {
	h := newTestHasher()
	base, err := h.Hash([]string{"1", "2"})
	require.NoError(t, err)

	swapped, err := h.Hash([]string{"2", "1"})
	require.NoError(t, err)
	assert.NotEqual(t, base, swapped)

	bumped, err := h.Hash([]string{"1", "3"})
	require.NoError(t, err)
	assert.NotEqual(t, base, bumped)

	// H(0) and H(0, 0) run different widths.
	one, err := h.Hash([]string{"0"})
	require.NoError(t, err)
	two, err := h.Hash([]string{"0", "0"})
	require.NoError(t, err)
	assert.NotEqual(t, one, two)
}

func TestHashOptionsChangeOutput(t *testing.T) {
	inputs := []string{"1", "2", "3", "4"}
	base, err := newTestHasher().Hash(inputs)
	require.NoError(t, err)

	for name, opt := range map[string]Option{
		"full-first":   WithSchedule(ScheduleFullFirst),
		"partial-last": WithPartialSBox(PartialSBoxLast),
		"narrow":       WithRowWidth(params.NarrowRowWidth),
	} {
		out, err := newTestHasher(opt).Hash(inputs)
		require.NoError(t, err, name)
		assert.NotEqual(t, base, out, name)
	}

	// Narrowing to 3 is a no-op for two inputs.
	a, err := newTestHasher().Hash([]string{"1", "2"})
	require.NoError(t, err)
	b, err := newTestHasher(WithRowWidth(params.NarrowRowWidth)).Hash([]string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashOutputInField(t *testing.T) {
	h := newTestHasher()
	p := Modulus()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("digest is a canonical decimal below p", prop.ForAll(
		func(a, b uint64) bool {
			out, err := h.Hash([]string{strconv.FormatUint(a, 10), strconv.FormatUint(b, 10)})
			if err != nil {
				return false
			}
			v, ok := new(big.Int).SetString(out, 10)
			return ok && v.Sign() >= 0 && v.Cmp(p) < 0 && v.String() == out
		},
		gen.UInt64(),
		gen.UInt64(),
	))
	properties.Property("Hash agrees with HashElements", prop.ForAll(
		func(a, b, c uint64) bool {
			var ea, eb, ec fr.Element
			ea.SetUint64(a)
			eb.SetUint64(b)
			ec.SetUint64(c)
			elem, err := h.HashElements(ea, eb, ec)
			if err != nil {
				return false
			}
			s, err := h.Hash([]string{
				strconv.FormatUint(a, 10), strconv.FormatUint(b, 10), strconv.FormatUint(c, 10),
			})
			return err == nil && s == elem.Text(10)
		},
		gen.UInt64(),
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestHashConcurrent(t *testing.T) {
	h := newTestHasher()
	want := make([]string, MaxInputs+1)
	for n := 1; n <= MaxInputs; n++ {
		out, err := newTestHasher().Hash(decimals(n, 3))
		require.NoError(t, err)
		want[n] = out
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4*MaxInputs)
	for range 4 {
		for n := 1; n <= MaxInputs; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := h.Hash(decimals(n, 3))
				if err != nil {
					errs <- err
					return
				}
				if out != want[n] {
					errs <- fmt.Errorf("n=%d: got %s want %s", n, out, want[n])
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestParametersShape(t *testing.T) {
	h := newTestHasher()
	for n := 1; n <= MaxInputs; n++ {
		p, err := h.Parameters(n)
		require.NoError(t, err)
		rp, err := params.PartialRounds(n + 1)
		require.NoError(t, err)
		assert.Equal(t, n+1, p.StateSize)
		assert.Equal(t, params.FullRounds, p.FullRounds)
		assert.Equal(t, rp, p.PartialRounds)
		assert.Len(t, p.RoundConstants, params.FullRounds+rp)
		assert.Equal(t, n+1, p.RowWidth())

		again, err := h.Parameters(n)
		require.NoError(t, err)
		assert.Same(t, p, again)
	}
}

func TestMultiHash(t *testing.T) {
	h := newTestHasher()

	elems := func(n int) []fr.Element {
		out := make([]fr.Element, n)
		for i := range out {
			out[i].SetUint64(uint64(i + 1))
		}
		return out
	}

	small := elems(5)
	direct, err := h.HashElements(small...)
	require.NoError(t, err)
	multi, err := h.MultiHash(small...)
	require.NoError(t, err)
	assert.True(t, direct.Equal(&multi))

	// 40 inputs hash as H(H(x1..x16), H(x17..x32), H(x33..x40)).
	large := elems(40)
	d1, err := h.HashElements(large[:16]...)
	require.NoError(t, err)
	d2, err := h.HashElements(large[16:32]...)
	require.NoError(t, err)
	d3, err := h.HashElements(large[32:]...)
	require.NoError(t, err)
	want, err := h.HashElements(d1, d2, d3)
	require.NoError(t, err)
	got, err := h.MultiHash(large...)
	require.NoError(t, err)
	assert.True(t, want.Equal(&got))

	_, err = h.MultiHash()
	assert.Error(t, err)
	_, err = h.MultiHash(elems(MaxMultiHashInputs + 1)...)
	assert.Error(t, err)
}

func TestCorruptTable(t *testing.T) {
	good := paramstest.NewTable()
	short := &params.MemTable{C: map[int][]*big.Int{}, M: map[int][][]*big.Int{}}
	for w := range good.C {
		short.C[w] = good.C[w][:10]
		short.M[w] = good.M[w]
	}
	_, err := New(short).Hash([]string{"1"})
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Width)

	_, err = New(&params.MemTable{}).Hash([]string{"1"})
	require.Error(t, err)
	assert.False(t, errors.As(err, &cerr))
}

type refConfig struct {
	fullFirst   bool
	partialLast bool
	rowWidth    int
}

// bigIntHash is a straightforward math/big rendition of the permutation used
// to cross-check the fr implementation.
func bigIntHash(t *testing.T, table params.Table, cfg refConfig, inputs []*big.Int) *big.Int {
	t.Helper()
	mod := fr.Modulus()
	width := len(inputs) + 1
	rp, err := params.PartialRounds(width)
	require.NoError(t, err)
	rawC, err := table.RoundConstants(width)
	require.NoError(t, err)
	rawM, err := table.MDS(width)
	require.NoError(t, err)

	state := make([]*big.Int, width)
	state[0] = big.NewInt(0)
	for i, v := range inputs {
		state[i+1] = new(big.Int).Mod(v, mod)
	}

	rowWidth := width
	if cfg.rowWidth > 0 && cfg.rowWidth < width {
		rowWidth = cfg.rowWidth
	}
	partial := 0
	if cfg.partialLast {
		partial = width - 1
	}
	half := params.FullRounds / 2
	five := big.NewInt(5)

	for r := range params.FullRounds + rp {
		for i := range rowWidth {
			state[i].Add(state[i], rawC[r*width+i]).Mod(state[i], mod)
		}
		full := r < half || r >= half+rp
		if cfg.fullFirst {
			full = r < params.FullRounds
		}
		if full {
			for i := range state {
				state[i].Exp(state[i], five, mod)
			}
		} else {
			state[partial].Exp(state[partial], five, mod)
		}
		next := make([]*big.Int, width)
		for i := range width {
			sum := new(big.Int)
			for j := range width {
				sum.Add(sum, new(big.Int).Mul(rawM[i][j], state[j]))
			}
			next[i] = sum.Mod(sum, mod)
		}
		state = next
	}
	return state[0]
}
