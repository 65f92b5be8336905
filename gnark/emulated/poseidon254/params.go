package poseidon254

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"

	"github.com/whirlwind/poseidon254/internal/params"
)

// FrParams defines the emulated parameters for the BN254 scalar field.
type FrParams = emparams.BN254Fr

// Source supplies the parameters for hashing n inputs.
type Source interface {
	Parameters(n int) (*params.Parameters, error)
}

func constElement(f *emulated.Field[FrParams], fe fr.Element) *emulated.Element[FrParams] {
	return f.NewElement(fe.BigInt(new(big.Int)))
}
