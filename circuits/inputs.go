package circuits

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/whirlwind/poseidon254"
	gposeidon "github.com/whirlwind/poseidon254/gnark/poseidon254"
)

// Input is the decimal-string witness data of one circuit, as stored in the
// "data" field of a proof input record.
type Input interface {
	Kind() Kind
	// Assignment parses the data into a full circuit assignment.
	Assignment(src gposeidon.Source) (frontend.Circuit, error)
}

type DepositInput struct {
	WalletAddress string `json:"walletAddress"`
	Secret        string `json:"secret"`
	Credential    string `json:"credential"`
}

type WithdrawInput struct {
	WalletAddress     string `json:"walletAddress"`
	PreviousSecret    string `json:"previousSecret"`
	PreviousNullifier string `json:"previousNullifier"`
}

type SwapInput struct {
	Secret           string `json:"secret"`
	WalletAddress    string `json:"walletAddress"`
	N                string `json:"n"`
	NftCredential    string `json:"nftCredential"`
	NewNftCredential string `json:"newNftCredential"`
}

type MigrateInput struct {
	WalletAddress     string   `json:"walletAddress"`
	Secret            string   `json:"secret"`
	PreviousSecret    string   `json:"previousSecret"`
	PathElements      []string `json:"pathElements"`
	PathIndices       []string `json:"pathIndices"`
	DepositTreeRoot   string   `json:"depositTreeRoot"`
	Nullifier         string   `json:"nullifier"`
	PreviousNullifier string   `json:"previousNullifier"`
}

func (DepositInput) Kind() Kind  { return KindDeposit }
func (WithdrawInput) Kind() Kind { return KindWithdraw }
func (SwapInput) Kind() Kind     { return KindSwap }
func (MigrateInput) Kind() Kind  { return KindMigrate }

// DecodeInput decodes the data of a record of kind k.
func DecodeInput(k Kind, data json.RawMessage) (Input, error) {
	var in Input
	switch k {
	case KindDeposit:
		in = &DepositInput{}
	case KindWithdraw:
		in = &WithdrawInput{}
	case KindSwap:
		in = &SwapInput{}
	case KindMigrate:
		in = &MigrateInput{}
	default:
		return nil, fmt.Errorf("circuits: unknown circuit type %q", k)
	}
	if err := json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("circuits: decode %s input: %w", k, err)
	}
	return in, nil
}

// fields parses named decimal strings, reporting the first bad one by name.
type fields struct {
	err error
}

func (f *fields) parse(name, s string) fr.Element {
	if f.err != nil {
		return fr.Element{}
	}
	e, err := poseidon254.ParseDecimal(s)
	if err != nil {
		f.err = fmt.Errorf("circuits: field %s: %w", name, err)
	}
	return e
}

func (in *DepositInput) Assignment(src gposeidon.Source) (frontend.Circuit, error) {
	var f fields
	c := &Deposit{
		WalletAddress: f.parse("walletAddress", in.WalletAddress),
		Secret:        f.parse("secret", in.Secret),
		Credential:    f.parse("credential", in.Credential),
		Poseidon:      src,
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}

func (in *WithdrawInput) Assignment(src gposeidon.Source) (frontend.Circuit, error) {
	var f fields
	c := &Withdraw{
		WalletAddress:     f.parse("walletAddress", in.WalletAddress),
		PreviousSecret:    f.parse("previousSecret", in.PreviousSecret),
		PreviousNullifier: f.parse("previousNullifier", in.PreviousNullifier),
		Poseidon:          src,
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}

func (in *SwapInput) Assignment(src gposeidon.Source) (frontend.Circuit, error) {
	var f fields
	c := &Swap{
		Secret:           f.parse("secret", in.Secret),
		WalletAddress:    f.parse("walletAddress", in.WalletAddress),
		N:                f.parse("n", in.N),
		NftCredential:    f.parse("nftCredential", in.NftCredential),
		NewNftCredential: f.parse("newNftCredential", in.NewNftCredential),
		Poseidon:         src,
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}

func (in *MigrateInput) Assignment(src gposeidon.Source) (frontend.Circuit, error) {
	if len(in.PathElements) != TreeLevels || len(in.PathIndices) != TreeLevels {
		return nil, fmt.Errorf("circuits: migrate path must have %d levels, got %d elements and %d indices",
			TreeLevels, len(in.PathElements), len(in.PathIndices))
	}
	var f fields
	c := &Migrate{
		WalletAddress:     f.parse("walletAddress", in.WalletAddress),
		Secret:            f.parse("secret", in.Secret),
		PreviousSecret:    f.parse("previousSecret", in.PreviousSecret),
		DepositTreeRoot:   f.parse("depositTreeRoot", in.DepositTreeRoot),
		Nullifier:         f.parse("nullifier", in.Nullifier),
		PreviousNullifier: f.parse("previousNullifier", in.PreviousNullifier),
		Poseidon:          src,
	}
	for i := range TreeLevels {
		c.PathElements[i] = f.parse(fmt.Sprintf("pathElements[%d]", i), in.PathElements[i])
		c.PathIndices[i] = f.parse(fmt.Sprintf("pathIndices[%d]", i), in.PathIndices[i])
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}
