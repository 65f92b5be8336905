// Package poseidon254 implements the circomlib-compatible Poseidon hash over
// the BN254 scalar field.
//
// The hash of n inputs runs the permutation of width t = n+1 over the state
// [0, x_1, ..., x_n] and returns the first state element, which is the value
// computed by the paired circuits. Round constants and the mixing matrix come
// from a supplied Table; see LoadTable.
package poseidon254

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/whirlwind/poseidon254/internal/params"
)

const (
	// MaxInputs is the largest arity hashed by a single permutation.
	MaxInputs          = params.MaxWidth - 1
	MaxMultiHashInputs = 4096
)

type (
	Table                 = params.Table
	Parameters            = params.Parameters
	Schedule              = params.Schedule
	PartialSBox           = params.PartialSBox
	UnsupportedWidthError = params.UnsupportedWidthError
	ConfigurationError    = params.ConfigurationError
)

const (
	ScheduleSplit     = params.ScheduleSplit
	ScheduleFullFirst = params.ScheduleFullFirst
	PartialSBoxFirst  = params.PartialSBoxFirst
	PartialSBoxLast   = params.PartialSBoxLast
)

// Option configures a Hasher.
type Option func(*options)

type options struct {
	log      zerolog.Logger
	selector []params.Option
}

// WithLogger enables diagnostic logging. Per-round state is logged at trace level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
		o.selector = append(o.selector, params.WithLogger(l))
	}
}

// WithRowWidth narrows every round constant row to its first w entries.
// params.NarrowRowWidth reproduces deployments that only ever used t <= 3.
func WithRowWidth(w int) Option {
	return func(o *options) { o.selector = append(o.selector, params.WithRowWidth(w)) }
}

func WithSchedule(s Schedule) Option {
	return func(o *options) { o.selector = append(o.selector, params.WithSchedule(s)) }
}

func WithPartialSBox(p PartialSBox) Option {
	return func(o *options) { o.selector = append(o.selector, params.WithPartialSBox(p)) }
}

// Hasher computes Poseidon hashes. It is safe for concurrent use.
type Hasher struct {
	selector *params.Selector
	log      zerolog.Logger
}

// New returns a Hasher reading its constants from table.
func New(table Table, opts ...Option) *Hasher {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Hasher{
		selector: params.NewSelector(table, o.selector...),
		log:      o.log,
	}
}

// Parameters returns the permutation parameters used to hash n inputs.
func (h *Hasher) Parameters(n int) (*Parameters, error) {
	return h.selector.Select(n)
}

// Hash hashes decimal-encoded integers and returns the decimal digest.
// Inputs at or above the modulus are reduced silently.
func (h *Hasher) Hash(inputs []string) (string, error) {
	p, err := h.selector.Select(len(inputs))
	if err != nil {
		return "", err
	}
	elems := make([]fr.Element, len(inputs))
	for i, s := range inputs {
		e, err := ParseDecimal(s)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			return "", err
		}
		elems[i] = e
	}
	out, err := h.hash(p, elems)
	if err != nil {
		return "", err
	}
	return out.Text(10), nil
}

// HashElements hashes between 1 and MaxInputs field elements.
func (h *Hasher) HashElements(inputs ...fr.Element) (fr.Element, error) {
	p, err := h.selector.Select(len(inputs))
	if err != nil {
		return fr.Element{}, err
	}
	return h.hash(p, inputs)
}

// HashBigInt hashes arbitrary integers, reducing each one mod p first.
func (h *Hasher) HashBigInt(inputs []*big.Int) (*big.Int, error) {
	elems := make([]fr.Element, len(inputs))
	for i, v := range inputs {
		if v == nil {
			return nil, &ParseError{Index: i, Input: "<nil>"}
		}
		elems[i] = Reduce(v)
	}
	out, err := h.HashElements(elems...)
	if err != nil {
		return nil, err
	}
	return out.BigInt(new(big.Int)), nil
}

func (h *Hasher) hash(p *Parameters, inputs []fr.Element) (fr.Element, error) {
	state := make([]fr.Element, p.StateSize)
	copy(state[1:], inputs)

	perm := permutation{params: p, log: h.log}
	if err := perm.permute(state); err != nil {
		return fr.Element{}, err
	}
	h.log.Debug().Int("inputs", len(inputs)).Str("digest", state[0].Text(10)).Msg("poseidon hash")
	return state[0], nil
}

// MultiHash hashes an arbitrary-length list of field elements by hashing
// chunks of MaxInputs and then hashing the chunk digests, level by level.
// Lists of at most MaxInputs elements hash exactly like HashElements.
func (h *Hasher) MultiHash(inputs ...fr.Element) (fr.Element, error) {
	if len(inputs) == 0 {
		return fr.Element{}, &UnsupportedWidthError{Width: 1, Min: params.MinWidth, Max: params.MaxWidth}
	}
	if len(inputs) > MaxMultiHashInputs {
		return fr.Element{}, fmt.Errorf("poseidon254: too many inputs (%d > %d)", len(inputs), MaxMultiHashInputs)
	}

	current := make([]fr.Element, len(inputs))
	copy(current, inputs)

	for len(current) > MaxInputs {
		next := make([]fr.Element, 0, (len(current)+MaxInputs-1)/MaxInputs)
		for i := 0; i < len(current); i += MaxInputs {
			end := min(i+MaxInputs, len(current))
			d, err := h.HashElements(current[i:end]...)
			if err != nil {
				return fr.Element{}, err
			}
			next = append(next, d)
		}
		current = next
	}

	return h.HashElements(current...)
}
