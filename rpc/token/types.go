package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// MetadataSpec is the metadata format version supported by the contract.
const MetadataSpec = "ft-1.0.0"

const (
	referenceHashLen = 32
	maxDecimals      = 255
)

// Account is a registration entry of the token ledger as it is kept in the
// contract storage.
type Account struct {
	Balance *big.Int
	Deposit *big.Int
}

// Validate checks metadata the same way the contract does on initialization.
func (m *Metadata) Validate() error {
	switch {
	case m.Spec != MetadataSpec:
		return fmt.Errorf("unsupported metadata spec %q, expected %q", m.Spec, MetadataSpec)
	case m.Name == "":
		return errors.New("empty token name")
	case m.Symbol == "":
		return errors.New("empty token symbol")
	case m.Decimals == nil || m.Decimals.Sign() < 0 || m.Decimals.Cmp(big.NewInt(maxDecimals)) > 0:
		return fmt.Errorf("decimals must be in [0, %d] range", maxDecimals)
	case (m.Reference == "") != (len(m.ReferenceHash) == 0):
		return errors.New("reference and reference hash must be set together")
	case len(m.ReferenceHash) != 0 && len(m.ReferenceHash) != referenceHashLen:
		return fmt.Errorf("reference hash must be %d bytes, got %d", referenceHashLen, len(m.ReferenceHash))
	}
	return nil
}

// Params returns metadata as a contract call parameter in the field order
// expected by the contract.
func (m *Metadata) Params() []any {
	return []any{
		m.Spec,
		m.Name,
		m.Symbol,
		m.Icon,
		m.Reference,
		m.ReferenceHash,
		m.Decimals,
	}
}

// DeployParams returns initialization data for the contract deployment.
func DeployParams(owner util.Uint160, totalSupply *big.Int, m *Metadata) []any {
	return []any{owner, totalSupply, m.Params()}
}

// AccountFromStorage decodes a contract storage item of the account
// registration entry. It returns account script hash and its entry.
func AccountFromStorage(key, value []byte) (util.Uint160, *Account, error) {
	if len(key) == 0 || string(key[:1]) != tokenconst.AccountPrefix {
		return util.Uint160{}, nil, errors.New("not an account key")
	}

	h, err := util.Uint160DecodeBytesBE(key[1:])
	if err != nil {
		return util.Uint160{}, nil, fmt.Errorf("invalid account key: %w", err)
	}

	item, err := stackitem.Deserialize(value)
	if err != nil {
		return util.Uint160{}, nil, fmt.Errorf("can't deserialize account: %w", err)
	}

	acc := new(Account)
	if err := acc.FromStackItem(item); err != nil {
		return util.Uint160{}, nil, fmt.Errorf("invalid account %s: %w", h.StringLE(), err)
	}

	return h, acc, nil
}

// FromStackItem retrieves fields of Account from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (a *Account) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 2)
	if err != nil {
		return err
	}

	a.Balance, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	a.Deposit, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deposit: %w", err)
	}

	return nil
}
