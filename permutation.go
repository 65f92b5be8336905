package poseidon254

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/whirlwind/poseidon254/internal/params"
)

// permutation implements the Poseidon permutation over the BN254 scalar field.
type permutation struct {
	params *params.Parameters
	log    zerolog.Logger
}

// permute mutates the state in place. A shape mismatch aborts before any
// output is produced.
func (p *permutation) permute(state []fr.Element) error {
	t := p.params.StateSize
	if len(state) != t {
		return &ConfigurationError{Width: t, Reason: "state length does not match width"}
	}
	scratch := make([]fr.Element, t)

	for r, row := range p.params.RoundConstants {
		if len(row) > t {
			return &ConfigurationError{Width: t, Reason: "round constant row wider than state"}
		}
		addRoundConstants(state, row)
		if p.params.IsFull(r) {
			fullSBox(state)
		} else {
			sbox(&state[p.params.PartialIndex])
		}
		p.mix(state, scratch)

		if e := p.log.Trace(); e.Enabled() {
			e.Int("round", r).
				Bool("full", p.params.IsFull(r)).
				Strs("state", elementStrings(state)).
				Msg("poseidon round")
		}
	}
	return nil
}

// mix multiplies the state by the MDS matrix.
func (p *permutation) mix(state, scratch []fr.Element) {
	for i, row := range p.params.MDS {
		var sum fr.Element
		for j := range row {
			var prod fr.Element
			prod.Mul(&row[j], &state[j])
			sum.Add(&sum, &prod)
		}
		scratch[i] = sum
	}
	copy(state, scratch)
}

// addRoundConstants adds row to the leading len(row) positions of state.
func addRoundConstants(state, row []fr.Element) {
	for i := range row {
		state[i].Add(&state[i], &row[i])
	}
}

func fullSBox(state []fr.Element) {
	for i := range state {
		sbox(&state[i])
	}
}

// sbox computes x^5.
func sbox(x *fr.Element) {
	var x2, x4 fr.Element
	x2.Square(x)
	x4.Square(&x2)
	x.Mul(&x4, x)
}

func elementStrings(es []fr.Element) []string {
	out := make([]string, len(es))
	for i := range es {
		out[i] = es[i].Text(10)
	}
	return out
}
