package prover

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"
)

// Result is written to <output>/<key>.json.
type Result struct {
	Proof         Proof    `json:"proof"`
	PublicSignals []string `json:"publicSignals"`
}

// Proof is a Groth16 BN254 proof in the snarkjs JSON layout, with projective
// coordinates normalised to Z = 1.
type Proof struct {
	PiA      []string   `json:"pi_a"`
	PiB      [][]string `json:"pi_b"`
	PiC      []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
}

func newResult(proof groth16.Proof, public witness.Witness) (*Result, error) {
	p, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("prover: unexpected proof type %T", proof)
	}
	vec, ok := public.Vector().(fr.Vector)
	if !ok {
		return nil, fmt.Errorf("prover: unexpected witness vector type %T", public.Vector())
	}

	signals := make([]string, len(vec))
	for i := range vec {
		signals[i] = vec[i].Text(10)
	}

	return &Result{
		Proof: Proof{
			PiA: []string{p.Ar.X.String(), p.Ar.Y.String(), "1"},
			PiB: [][]string{
				{p.Bs.X.A0.String(), p.Bs.X.A1.String()},
				{p.Bs.Y.A0.String(), p.Bs.Y.A1.String()},
				{"1", "0"},
			},
			PiC:      []string{p.Krs.X.String(), p.Krs.Y.String(), "1"},
			Protocol: "groth16",
			Curve:    "bn128",
		},
		PublicSignals: signals,
	}, nil
}
