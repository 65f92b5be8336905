package poseidon254

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ParseError reports an input that is not a non-negative base-10 integer.
// Index is the position in the hashed input list, or -1 outside a list.
type ParseError struct {
	Index int
	Input string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("poseidon254: %q is not a non-negative decimal integer", e.Input)
	}
	return fmt.Sprintf("poseidon254: input %d: %q is not a non-negative decimal integer", e.Index, e.Input)
}

// Modulus returns a copy of the BN254 scalar field modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

func Zero() fr.Element {
	return fr.Element{}
}

// Reduce maps any integer, negative ones included, into [0, p).
func Reduce(x *big.Int) fr.Element {
	var e fr.Element
	e.SetBigInt(x)
	return e
}

func Add(a, b fr.Element) fr.Element {
	var z fr.Element
	z.Add(&a, &b)
	return z
}

func Mul(a, b fr.Element) fr.Element {
	var z fr.Element
	z.Mul(&a, &b)
	return z
}

func Pow(a fr.Element, e uint64) fr.Element {
	var z fr.Element
	z.Exp(a, new(big.Int).SetUint64(e))
	return z
}

// ParseDecimal parses a non-negative base-10 integer and reduces it mod p.
// Signs, prefixes, separators and whitespace are rejected.
func ParseDecimal(s string) (fr.Element, error) {
	if !isDecimal(s) {
		return fr.Element{}, &ParseError{Index: -1, Input: s}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fr.Element{}, &ParseError{Index: -1, Input: s}
	}
	return Reduce(v), nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FromLEBytes interprets data as a little-endian integer and reduces it mod p.
func FromLEBytes(data []byte) fr.Element {
	reversed := make([]byte, len(data))
	for i := range data {
		reversed[len(data)-1-i] = data[i]
	}
	return Reduce(new(big.Int).SetBytes(reversed))
}

// FromText maps text to a field element by reading its UTF-8 bytes as one
// big-endian integer. Texts longer than 31 bytes wrap mod p.
func FromText(s string) fr.Element {
	return Reduce(new(big.Int).SetBytes([]byte(s)))
}
