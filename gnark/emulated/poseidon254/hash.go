// Package poseidon254 computes the BN254 Poseidon hash over emulated field
// elements, for circuits whose native field is not the BN254 scalar field.
package poseidon254

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"github.com/whirlwind/poseidon254/internal/params"
)

// Hash computes the Poseidon hash over emulated BN254 scalar field elements.
func Hash(api frontend.API, src Source, inputs ...emulated.Element[FrParams]) (emulated.Element[FrParams], error) {
	var zero emulated.Element[FrParams]
	if src == nil {
		return zero, fmt.Errorf("poseidon254: nil parameter source")
	}
	p, err := src.Parameters(len(inputs))
	if err != nil {
		return zero, err
	}
	if err := params.Validate(p); err != nil {
		return zero, err
	}

	field, err := emulated.NewField[FrParams](api)
	if err != nil {
		return zero, err
	}

	state := make([]*emulated.Element[FrParams], p.StateSize)
	state[0] = field.Zero()
	for i := range inputs {
		state[i+1] = field.NewElement(inputs[i])
	}

	state = permute(field, p, state)
	// Ensure canonical output.
	out := field.Reduce(state[0])
	return *out, nil
}

func permute(field *emulated.Field[FrParams], p *params.Parameters, state []*emulated.Element[FrParams]) []*emulated.Element[FrParams] {
	for r, row := range p.RoundConstants {
		for i := range row {
			state[i] = field.Add(state[i], constElement(field, row[i]))
		}
		if p.IsFull(r) {
			for i := range state {
				state[i] = sbox(field, state[i])
			}
		} else {
			state[p.PartialIndex] = sbox(field, state[p.PartialIndex])
		}
		state = mix(field, p, state)
	}
	return state
}

func mix(field *emulated.Field[FrParams], p *params.Parameters, state []*emulated.Element[FrParams]) []*emulated.Element[FrParams] {
	newState := make([]*emulated.Element[FrParams], len(state))
	for i, row := range p.MDS {
		sum := field.Zero()
		for j := range row {
			prod := field.Mul(constElement(field, row[j]), state[j])
			sum = field.Add(sum, prod)
		}
		newState[i] = sum
	}
	return newState
}

func sbox(field *emulated.Field[FrParams], x *emulated.Element[FrParams]) *emulated.Element[FrParams] {
	x2 := field.Mul(x, x)
	x4 := field.Mul(x2, x2)
	return field.Mul(x4, x)
}
