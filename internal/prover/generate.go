package prover

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/circuits"
	"github.com/whirlwind/poseidon254/credential"
	"github.com/whirlwind/poseidon254/merkle"
)

// Fixture values used by Generate.
const (
	FixtureWallet         = 1337
	FixtureSecret         = 8000
	FixturePreviousSecret = 8001
	FixtureSwapIndex      = 2
)

// Generate builds one consistent record per circuit type from the fixture
// wallet and secrets. The migrate record proves membership of the deposit
// credential as the first leaf of a fresh TreeLevels-deep tree.
func Generate(h *poseidon254.Hasher) (map[string]Record, error) {
	var wallet, secret, prevSecret fr.Element
	wallet.SetUint64(FixtureWallet)
	secret.SetUint64(FixtureSecret)
	prevSecret.SetUint64(FixturePreviousSecret)

	cred, err := credential.Deposit(h, wallet, secret)
	if err != nil {
		return nil, err
	}
	nullifier, err := credential.Nullifier(h, wallet, secret)
	if err != nil {
		return nil, err
	}
	prevNullifier, err := credential.Nullifier(h, wallet, prevSecret)
	if err != nil {
		return nil, err
	}
	nft, err := credential.NFT(h, cred, FixtureSwapIndex)
	if err != nil {
		return nil, err
	}
	nextNFT, err := credential.NFT(h, cred, FixtureSwapIndex+1)
	if err != nil {
		return nil, err
	}

	tree, err := merkle.New(h, circuits.TreeLevels)
	if err != nil {
		return nil, err
	}
	path, err := tree.InsertWithPath(cred)
	if err != nil {
		return nil, err
	}
	root := tree.LastRoot()

	migrate := circuits.MigrateInput{
		WalletAddress:     dec(wallet),
		Secret:            dec(secret),
		PreviousSecret:    dec(prevSecret),
		PathElements:      make([]string, circuits.TreeLevels),
		PathIndices:       make([]string, circuits.TreeLevels),
		DepositTreeRoot:   dec(root),
		Nullifier:         dec(nullifier),
		PreviousNullifier: dec(prevNullifier),
	}
	for i := range circuits.TreeLevels {
		migrate.PathElements[i] = dec(path.Elements[i])
		migrate.PathIndices[i] = fmt.Sprint(path.Indices[i])
	}

	inputs := map[string]circuits.Input{
		"deposit1": &circuits.DepositInput{
			WalletAddress: dec(wallet),
			Secret:        dec(secret),
			Credential:    dec(cred),
		},
		"migrate1": &migrate,
		"swap1": &circuits.SwapInput{
			Secret:           dec(secret),
			WalletAddress:    dec(wallet),
			N:                fmt.Sprint(FixtureSwapIndex),
			NftCredential:    dec(nft),
			NewNftCredential: dec(nextNFT),
		},
		"withdraw1": &circuits.WithdrawInput{
			WalletAddress:     dec(wallet),
			PreviousSecret:    dec(prevSecret),
			PreviousNullifier: dec(prevNullifier),
		},
	}

	records := make(map[string]Record, len(inputs))
	for key, in := range inputs {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("prover: encode %s: %w", key, err)
		}
		records[key] = Record{Type: typeName(in.Kind()), Data: data}
	}
	return records, nil
}

func dec(e fr.Element) string {
	return e.Text(10)
}

// typeName turns "deposit" into "Deposit", the spelling used in input files.
func typeName(k circuits.Kind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
