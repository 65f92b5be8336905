// Package circuits defines the Whirlwind zk-circuits. Every commitment they
// check is a Poseidon digest computed with the gnark poseidon254 gadget, so
// witnesses built with the native hasher satisfy them.
package circuits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/consensys/gnark/frontend"

	gposeidon "github.com/whirlwind/poseidon254/gnark/poseidon254"
)

// TreeLevels is the depth of the deposit tree checked by Migrate.
const TreeLevels = 20

// Kind names a circuit. Lookups are case-insensitive.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindMigrate  Kind = "migrate"
	KindSwap     Kind = "swap"
	KindWithdraw Kind = "withdraw"
)

// ParseKind normalises a record type such as "Deposit".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := constructors[k]; !ok {
		return "", fmt.Errorf("circuits: unknown circuit type %q", s)
	}
	return k, nil
}

// Kinds lists the registered circuits in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(constructors))
	for k := range constructors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var constructors = map[Kind]func(gposeidon.Source) frontend.Circuit{
	KindDeposit:  func(s gposeidon.Source) frontend.Circuit { return &Deposit{Poseidon: s} },
	KindMigrate:  func(s gposeidon.Source) frontend.Circuit { return &Migrate{Poseidon: s} },
	KindSwap:     func(s gposeidon.Source) frontend.Circuit { return &Swap{Poseidon: s} },
	KindWithdraw: func(s gposeidon.Source) frontend.Circuit { return &Withdraw{Poseidon: s} },
}

// New returns an empty circuit of kind k, ready for compilation.
func New(k Kind, src gposeidon.Source) (frontend.Circuit, error) {
	ctor, ok := constructors[k]
	if !ok {
		return nil, fmt.Errorf("circuits: unknown circuit type %q", k)
	}
	return ctor(src), nil
}

// Deposit proves knowledge of the secret behind a public deposit credential.
type Deposit struct {
	WalletAddress frontend.Variable `gnark:"walletAddress,public"`
	Secret        frontend.Variable `gnark:"secret"`
	Credential    frontend.Variable `gnark:"credential,public"`

	Poseidon gposeidon.Source `gnark:"-"`
}

func (c *Deposit) Define(api frontend.API) error {
	credential, err := gposeidon.Hash(api, c.Poseidon, c.WalletAddress, c.Secret)
	if err != nil {
		return err
	}
	api.AssertIsEqual(credential, c.Credential)
	return nil
}

// Withdraw reveals the nullifier of a previous secret.
type Withdraw struct {
	WalletAddress     frontend.Variable `gnark:"walletAddress"`
	PreviousSecret    frontend.Variable `gnark:"previousSecret"`
	PreviousNullifier frontend.Variable `gnark:"previousNullifier,public"`

	Poseidon gposeidon.Source `gnark:"-"`
}

func (c *Withdraw) Define(api frontend.API) error {
	nullifier, err := nullifier(api, c.Poseidon, c.WalletAddress, c.PreviousSecret)
	if err != nil {
		return err
	}
	api.AssertIsEqual(nullifier, c.PreviousNullifier)
	return nil
}

// Swap moves a position from index n to n+1 under the same deposit credential.
type Swap struct {
	Secret           frontend.Variable `gnark:"secret"`
	WalletAddress    frontend.Variable `gnark:"walletAddress"`
	N                frontend.Variable `gnark:"n"`
	NftCredential    frontend.Variable `gnark:"nftCredential,public"`
	NewNftCredential frontend.Variable `gnark:"newNftCredential,public"`

	Poseidon gposeidon.Source `gnark:"-"`
}

func (c *Swap) Define(api frontend.API) error {
	credential, err := gposeidon.Hash(api, c.Poseidon, c.WalletAddress, c.Secret)
	if err != nil {
		return err
	}
	current, err := gposeidon.Hash(api, c.Poseidon, credential, c.N)
	if err != nil {
		return err
	}
	next, err := gposeidon.Hash(api, c.Poseidon, credential, api.Add(c.N, 1))
	if err != nil {
		return err
	}
	api.AssertIsEqual(current, c.NftCredential)
	api.AssertIsEqual(next, c.NewNftCredential)
	return nil
}

// Migrate proves membership of a deposit credential in the deposit tree and
// reveals the nullifiers of the current and previous secrets.
type Migrate struct {
	WalletAddress  frontend.Variable             `gnark:"walletAddress"`
	Secret         frontend.Variable             `gnark:"secret"`
	PreviousSecret frontend.Variable             `gnark:"previousSecret"`
	PathElements   [TreeLevels]frontend.Variable `gnark:"pathElements"`
	PathIndices    [TreeLevels]frontend.Variable `gnark:"pathIndices"`

	DepositTreeRoot   frontend.Variable `gnark:"depositTreeRoot,public"`
	Nullifier         frontend.Variable `gnark:"nullifier,public"`
	PreviousNullifier frontend.Variable `gnark:"previousNullifier,public"`

	Poseidon gposeidon.Source `gnark:"-"`
}

func (c *Migrate) Define(api frontend.API) error {
	current, err := gposeidon.Hash(api, c.Poseidon, c.WalletAddress, c.Secret)
	if err != nil {
		return err
	}
	for i := range TreeLevels {
		api.AssertIsBoolean(c.PathIndices[i])
		left := api.Select(c.PathIndices[i], c.PathElements[i], current)
		right := api.Select(c.PathIndices[i], current, c.PathElements[i])
		if current, err = gposeidon.Hash(api, c.Poseidon, left, right); err != nil {
			return err
		}
	}
	api.AssertIsEqual(current, c.DepositTreeRoot)

	n, err := nullifier(api, c.Poseidon, c.WalletAddress, c.Secret)
	if err != nil {
		return err
	}
	api.AssertIsEqual(n, c.Nullifier)

	prev, err := nullifier(api, c.Poseidon, c.WalletAddress, c.PreviousSecret)
	if err != nil {
		return err
	}
	api.AssertIsEqual(prev, c.PreviousNullifier)
	return nil
}

func nullifier(api frontend.API, src gposeidon.Source, wallet, secret frontend.Variable) (frontend.Variable, error) {
	return gposeidon.Hash(api, src, wallet, secret, 1)
}
