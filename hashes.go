package poseidon254

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

func hashDefault(inputs ...fr.Element) (fr.Element, error) {
	h, err := Default()
	if err != nil {
		return fr.Element{}, err
	}
	return h.HashElements(inputs...)
}

func Hash1(a fr.Element) (fr.Element, error) {
	return hashDefault(a)
}

func Hash2(a, b fr.Element) (fr.Element, error) {
	return hashDefault(a, b)
}

func Hash3(a, b, c fr.Element) (fr.Element, error) {
	return hashDefault(a, b, c)
}

func Hash4(a, b, c, d fr.Element) (fr.Element, error) {
	return hashDefault(a, b, c, d)
}
