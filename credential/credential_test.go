package credential

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/internal/params/paramstest"
)

func TestCredentials(t *testing.T) {
	h := poseidon254.New(paramstest.NewTable())

	var wallet, secret fr.Element
	wallet.SetUint64(1337)
	secret.SetUint64(8000)

	dep, err := Deposit(h, wallet, secret)
	require.NoError(t, err)
	want, err := h.Hash([]string{"1337", "8000"})
	require.NoError(t, err)
	assert.Equal(t, want, dep.Text(10))

	null, err := Nullifier(h, wallet, secret)
	require.NoError(t, err)
	want, err = h.Hash([]string{"1337", "8000", "1"})
	require.NoError(t, err)
	assert.Equal(t, want, null.Text(10))
	assert.False(t, null.Equal(&dep))

	nft, err := NFT(h, dep, 2)
	require.NoError(t, err)
	want, err = h.Hash([]string{dep.Text(10), "2"})
	require.NoError(t, err)
	assert.Equal(t, want, nft.Text(10))

	next, err := NFT(h, dep, 3)
	require.NoError(t, err)
	assert.False(t, next.Equal(&nft))
}
