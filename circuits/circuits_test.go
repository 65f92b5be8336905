package circuits_test

import (
	"encoding/json"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/circuits"
	"github.com/whirlwind/poseidon254/internal/params/paramstest"
	"github.com/whirlwind/poseidon254/internal/prover"
)

var testHasher = poseidon254.New(paramstest.NewTable())

func TestParseKind(t *testing.T) {
	for in, want := range map[string]circuits.Kind{
		"Deposit":  circuits.KindDeposit,
		"withdraw": circuits.KindWithdraw,
		" SWAP ":   circuits.KindSwap,
		"MiGrAtE":  circuits.KindMigrate,
	} {
		got, err := circuits.ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := circuits.ParseKind("transfer")
	assert.Error(t, err)

	assert.Equal(t, []circuits.Kind{
		circuits.KindDeposit, circuits.KindMigrate, circuits.KindSwap, circuits.KindWithdraw,
	}, circuits.Kinds())

	_, err = circuits.New("transfer", testHasher)
	assert.Error(t, err)
}

func TestGeneratedInputsSolve(t *testing.T) {
	records, err := prover.Generate(testHasher)
	require.NoError(t, err)
	require.Len(t, records, 4)

	for key, rec := range records {
		t.Run(key, func(t *testing.T) {
			kind, err := circuits.ParseKind(rec.Type)
			require.NoError(t, err)
			in, err := circuits.DecodeInput(kind, rec.Data)
			require.NoError(t, err)
			assignment, err := in.Assignment(testHasher)
			require.NoError(t, err)
			circuit, err := circuits.New(kind, testHasher)
			require.NoError(t, err)

			require.NoError(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
		})
	}
}

func TestTamperedInputsFail(t *testing.T) {
	records, err := prover.Generate(testHasher)
	require.NoError(t, err)

	tamper := map[string]string{
		"deposit1":  "credential",
		"withdraw1": "previousNullifier",
		"swap1":     "newNftCredential",
		"migrate1":  "depositTreeRoot",
	}
	for key, field := range tamper {
		t.Run(key, func(t *testing.T) {
			rec := records[key]
			var data map[string]any
			require.NoError(t, json.Unmarshal(rec.Data, &data))
			data[field] = "12345"
			raw, err := json.Marshal(data)
			require.NoError(t, err)

			kind, err := circuits.ParseKind(rec.Type)
			require.NoError(t, err)
			in, err := circuits.DecodeInput(kind, raw)
			require.NoError(t, err)
			assignment, err := in.Assignment(testHasher)
			require.NoError(t, err)
			circuit, err := circuits.New(kind, testHasher)
			require.NoError(t, err)

			assert.Error(t, test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
		})
	}
}

func TestDecodeInputErrors(t *testing.T) {
	_, err := circuits.DecodeInput(circuits.KindDeposit, json.RawMessage(`{"secret": 5}`))
	assert.Error(t, err)

	_, err = circuits.DecodeInput("transfer", json.RawMessage(`{}`))
	assert.Error(t, err)

	in, err := circuits.DecodeInput(circuits.KindDeposit, json.RawMessage(`{"walletAddress": "1", "secret": "x", "credential": "3"}`))
	require.NoError(t, err)
	c, err := in.Assignment(testHasher)
	assert.Error(t, err)
	assert.Nil(t, c)
	var perr *poseidon254.ParseError
	assert.ErrorAs(t, err, &perr)

	short := &circuits.MigrateInput{PathElements: []string{"1"}, PathIndices: []string{"0"}}
	_, err = short.Assignment(testHasher)
	assert.Error(t, err)
}
