// Package paramstest provides a deterministic parameter table for tests.
//
// The constants are NOT the circomlib ones: round constants are squeezed from
// SHAKE128 and the mixing matrix is a Cauchy matrix. They give a well-formed
// permutation with the correct shape for every supported width, which is all
// structural tests need.
package paramstest

import (
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"

	"github.com/whirlwind/poseidon254/internal/params"
)

var domainSep = []byte("poseidon254/paramstest/v1")

var table = sync.OnceValue(build)

// NewTable returns the shared synthetic table. Callers must not mutate it.
func NewTable() *params.MemTable {
	return table()
}

func build() *params.MemTable {
	t := &params.MemTable{
		C: make(map[int][]*big.Int),
		M: make(map[int][][]*big.Int),
	}
	for width := params.MinWidth; width <= params.MaxWidth; width++ {
		rp, _ := params.PartialRounds(width)
		t.C[width] = roundConstants(width, width*(params.FullRounds+rp))
		t.M[width] = cauchy(width)
	}
	return t
}

// roundConstants squeezes 32 bytes per constant. Values are left unreduced so
// that tests exercise the selector's reduction.
func roundConstants(width, n int) []*big.Int {
	shake := sha3.NewShake128()
	shake.Write(domainSep)
	var w [8]byte
	binary.BigEndian.PutUint64(w[:], uint64(width))
	shake.Write(w[:])

	out := make([]*big.Int, n)
	buf := make([]byte, 32)
	for i := range out {
		shake.Read(buf)
		out[i] = new(big.Int).SetBytes(buf)
	}
	return out
}

// cauchy returns M[i][j] = 1/(x_i + y_j) with x_i = i and y_j = width + j.
func cauchy(width int) [][]*big.Int {
	m := make([][]*big.Int, width)
	for i := range width {
		m[i] = make([]*big.Int, width)
		for j := range width {
			var e fr.Element
			e.SetUint64(uint64(i + width + j))
			e.Inverse(&e)
			m[i][j] = e.BigInt(new(big.Int))
		}
	}
	return m
}
