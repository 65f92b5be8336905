// Package poseidon254 computes the Poseidon hash of native BN254 variables
// inside a gnark circuit. It emits exactly the round sequence of the native
// implementation, so a digest computed off-circuit can be asserted in-circuit.
package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/whirlwind/poseidon254/internal/params"
)

// Source supplies the parameters for hashing n inputs. *poseidon254.Hasher
// implements it.
type Source interface {
	Parameters(n int) (*params.Parameters, error)
}

// Hash computes H(inputs...) inside a gnark circuit.
func Hash(api frontend.API, src Source, inputs ...frontend.Variable) (frontend.Variable, error) {
	if src == nil {
		var zero frontend.Variable
		return zero, fmt.Errorf("poseidon254: nil parameter source")
	}
	p, err := src.Parameters(len(inputs))
	if err != nil {
		var zero frontend.Variable
		return zero, err
	}
	if err := params.Validate(p); err != nil {
		var zero frontend.Variable
		return zero, err
	}

	state := make([]frontend.Variable, p.StateSize)
	state[0] = 0
	copy(state[1:], inputs)
	state = permute(api, p, state)
	return state[0], nil
}

func permute(api frontend.API, p *params.Parameters, state []frontend.Variable) []frontend.Variable {
	for r, row := range p.RoundConstants {
		addRoundConstants(api, state, row)
		if p.IsFull(r) {
			for i := range state {
				state[i] = sbox(api, state[i])
			}
		} else {
			state[p.PartialIndex] = sbox(api, state[p.PartialIndex])
		}
		state = mix(api, state, p.MDS)
	}
	return state
}

func addRoundConstants(api frontend.API, state []frontend.Variable, row []fr.Element) {
	for i := range row {
		state[i] = api.Add(state[i], row[i])
	}
}

func mix(api frontend.API, state []frontend.Variable, matrix [][]fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(state))
	for i, row := range matrix {
		sum := api.Mul(state[0], row[0])
		for j := 1; j < len(row); j++ {
			sum = api.Add(sum, api.Mul(state[j], row[j]))
		}
		out[i] = sum
	}
	return out
}

func sbox(api frontend.API, v frontend.Variable) frontend.Variable {
	v2 := api.Mul(v, v)
	v4 := api.Mul(v2, v2)
	return api.Mul(v4, v)
}
