// Package credential derives the Whirlwind commitments that the circuits
// recompute: deposit credentials, nullifiers and NFT credentials.
package credential

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// Hasher is satisfied by *poseidon254.Hasher.
type Hasher interface {
	HashElements(inputs ...fr.Element) (fr.Element, error)
}

// NullifierTag is appended to (wallet, secret) when deriving a nullifier.
const NullifierTag = 1

// Deposit returns H(wallet, secret).
func Deposit(h Hasher, wallet, secret fr.Element) (fr.Element, error) {
	return h.HashElements(wallet, secret)
}

// Nullifier returns H(wallet, secret, 1).
func Nullifier(h Hasher, wallet, secret fr.Element) (fr.Element, error) {
	var tag fr.Element
	tag.SetUint64(NullifierTag)
	return h.HashElements(wallet, secret, tag)
}

// NFT returns H(credential, n), the credential of the n-th position held by a depositor.
func NFT(h Hasher, credential fr.Element, n uint64) (fr.Element, error) {
	var idx fr.Element
	idx.SetUint64(n)
	return h.HashElements(credential, idx)
}
