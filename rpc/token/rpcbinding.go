// Package token contains RPC wrappers for the FT token contract.
package token

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Metadata is a contract-specific ft.Metadata type used by its methods.
type Metadata struct {
	Spec          string
	Name          string
	Symbol        string
	Icon          string
	Reference     string
	ReferenceHash []byte
	Decimals      *big.Int
}

// StorageBalance is a contract-specific ft.StorageBalance type used by its methods.
type StorageBalance struct {
	Total     *big.Int
	Available *big.Int
}

// StorageBalanceBounds is a contract-specific ft.StorageBalanceBounds type used by its methods.
type StorageBalanceBounds struct {
	Min *big.Int
	Max *big.Int
}

// MintEvent represents "Mint" event emitted by the contract.
type MintEvent struct {
	From   util.Uint160
	To     util.Uint160
	Amount *big.Int
}

// WithdrawEvent represents "Withdraw" event emitted by the contract.
type WithdrawEvent struct {
	User   util.Uint160
	Amount *big.Int
}

// RegisterEvent represents "Register" event emitted by the contract.
type RegisterEvent struct {
	Account util.Uint160
	Deposit *big.Int
}

// UnregisterEvent represents "Unregister" event emitted by the contract.
type UnregisterEvent struct {
	Account util.Uint160
	Deposit *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep17.Invoker
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep17.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep17.TokenReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	nep17.TokenWriter
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep17.NewReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	var nep17t = nep17.New(actor, hash)
	return &Contract{ContractReader{nep17t.TokenReader, actor, hash}, nep17t.TokenWriter, actor, hash}
}

// Metadata invokes `metadata` method of contract.
func (c *ContractReader) Metadata() (*Metadata, error) {
	return itemToMetadata(unwrap.Item(c.invoker.Call(c.hash, "metadata")))
}

// StorageBalanceBounds invokes `storageBalanceBounds` method of contract.
func (c *ContractReader) StorageBalanceBounds() (*StorageBalanceBounds, error) {
	return itemToStorageBalanceBounds(unwrap.Item(c.invoker.Call(c.hash, "storageBalanceBounds")))
}

// StorageBalanceOf invokes `storageBalanceOf` method of contract. It returns
// nil without an error if the account is not registered.
func (c *ContractReader) StorageBalanceOf(account util.Uint160) (*StorageBalance, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "storageBalanceOf", account))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return itemToStorageBalance(item, nil)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Mint creates a transaction transferring GAS from the given account to the
// contract, which mints the same amount of tokens to the receiver.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(from util.Uint160, to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(gas.Hash, "transfer", from, c.hash, amount, to)
}

// MintTransaction creates a transaction transferring GAS from the given
// account to the contract, which mints the same amount of tokens to the
// receiver. This transaction is signed, but not sent to the network, instead
// it's returned to the caller.
func (c *Contract) MintTransaction(from util.Uint160, to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(gas.Hash, "transfer", from, c.hash, amount, to)
}

// StorageDeposit creates a transaction invoking `storageDeposit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) StorageDeposit(from util.Uint160, account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "storageDeposit", from, account)
}

// StorageDepositTransaction creates a transaction invoking `storageDeposit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) StorageDepositTransaction(from util.Uint160, account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "storageDeposit", from, account)
}

// StorageDepositUnsigned creates a transaction invoking `storageDeposit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) StorageDepositUnsigned(from util.Uint160, account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "storageDeposit", nil, from, account)
}

// StorageUnregister creates a transaction invoking `storageUnregister` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) StorageUnregister(account util.Uint160, force bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "storageUnregister", account, force)
}

// StorageUnregisterTransaction creates a transaction invoking `storageUnregister` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) StorageUnregisterTransaction(account util.Uint160, force bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "storageUnregister", account, force)
}

// StorageUnregisterUnsigned creates a transaction invoking `storageUnregister` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) StorageUnregisterUnsigned(account util.Uint160, force bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "storageUnregister", nil, account, force)
}

// StorageWithdraw creates a transaction invoking `storageWithdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) StorageWithdraw(account util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "storageWithdraw", account, amount)
}

// StorageWithdrawTransaction creates a transaction invoking `storageWithdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) StorageWithdrawTransaction(account util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "storageWithdraw", account, amount)
}

// StorageWithdrawUnsigned creates a transaction invoking `storageWithdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) StorageWithdrawUnsigned(account util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "storageWithdraw", nil, account, amount)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(user util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", user, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(user util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", user, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(user util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, user, amount)
}

// itemToMetadata converts stack item into *Metadata.
func itemToMetadata(item stackitem.Item, err error) (*Metadata, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Metadata)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Metadata from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Metadata) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 7)
	if err != nil {
		return err
	}

	var index = -1

	index++
	res.Spec, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Spec: %w", err)
	}

	index++
	res.Name, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Symbol, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Symbol: %w", err)
	}

	index++
	res.Icon, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Icon: %w", err)
	}

	index++
	res.Reference, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Reference: %w", err)
	}

	index++
	res.ReferenceHash, err = itemToOptionalBytes(arr[index])
	if err != nil {
		return fmt.Errorf("field ReferenceHash: %w", err)
	}

	index++
	res.Decimals, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Decimals: %w", err)
	}

	return nil
}

// itemToStorageBalance converts stack item into *StorageBalance.
func itemToStorageBalance(item stackitem.Item, err error) (*StorageBalance, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StorageBalance)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StorageBalance from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *StorageBalance) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 2)
	if err != nil {
		return err
	}

	res.Total, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Total: %w", err)
	}

	res.Available, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Available: %w", err)
	}

	return nil
}

// itemToStorageBalanceBounds converts stack item into *StorageBalanceBounds.
func itemToStorageBalanceBounds(item stackitem.Item, err error) (*StorageBalanceBounds, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StorageBalanceBounds)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StorageBalanceBounds from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *StorageBalanceBounds) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 2)
	if err != nil {
		return err
	}

	res.Min, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Min: %w", err)
	}

	res.Max, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Max: %w", err)
	}

	return nil
}

// MintEventsFromApplicationLog retrieves a set of all emitted events
// with "Mint" name from the provided [result.ApplicationLog].
func MintEventsFromApplicationLog(log *result.ApplicationLog) ([]*MintEvent, error) {
	var res []*MintEvent
	err := iterateEvents(log, tokenconst.MintEvent, func(item *stackitem.Array) error {
		event := new(MintEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to MintEvent or
// returns an error if it's not possible to do to so.
func (e *MintEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}

	e.From, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.To, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// WithdrawEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdraw" name from the provided [result.ApplicationLog].
func WithdrawEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawEvent, error) {
	var res []*WithdrawEvent
	err := iterateEvents(log, tokenconst.WithdrawEvent, func(item *stackitem.Array) error {
		event := new(WithdrawEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to WithdrawEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}

	e.User, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// RegisterEventsFromApplicationLog retrieves a set of all emitted events
// with "Register" name from the provided [result.ApplicationLog].
func RegisterEventsFromApplicationLog(log *result.ApplicationLog) ([]*RegisterEvent, error) {
	var res []*RegisterEvent
	err := iterateEvents(log, tokenconst.RegisterEvent, func(item *stackitem.Array) error {
		event := new(RegisterEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to RegisterEvent or
// returns an error if it's not possible to do to so.
func (e *RegisterEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Account, e.Deposit, err = accountDepositFromItem(item)
	return err
}

// UnregisterEventsFromApplicationLog retrieves a set of all emitted events
// with "Unregister" name from the provided [result.ApplicationLog].
func UnregisterEventsFromApplicationLog(log *result.ApplicationLog) ([]*UnregisterEvent, error) {
	var res []*UnregisterEvent
	err := iterateEvents(log, tokenconst.UnregisterEvent, func(item *stackitem.Array) error {
		event := new(UnregisterEvent)
		if err := event.FromStackItem(item); err != nil {
			return err
		}
		res = append(res, event)
		return nil
	})
	return res, err
}

// FromStackItem converts provided [stackitem.Array] to UnregisterEvent or
// returns an error if it's not possible to do to so.
func (e *UnregisterEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Account, e.Deposit, err = accountDepositFromItem(item)
	return err
}

func accountDepositFromItem(item *stackitem.Array) (util.Uint160, *big.Int, error) {
	arr, err := eventItems(item, 2)
	if err != nil {
		return util.Uint160{}, nil, err
	}

	acc, err := itemToUint160(arr[0])
	if err != nil {
		return util.Uint160{}, nil, fmt.Errorf("field Account: %w", err)
	}

	deposit, err := arr[1].TryInteger()
	if err != nil {
		return util.Uint160{}, nil, fmt.Errorf("field Deposit: %w", err)
	}

	return acc, deposit, nil
}

func iterateEvents(log *result.ApplicationLog, name string, f func(*stackitem.Array) error) error {
	if log == nil {
		return errors.New("nil application log")
	}

	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			err := f(e.Item)
			if err != nil {
				return fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
		}
	}

	return nil
}

func eventItems(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structItems(item, n)
}

func structItems(item stackitem.Item, n int) ([]stackitem.Item, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToOptionalBytes(item stackitem.Item) ([]byte, error) {
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return item.TryBytes()
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
