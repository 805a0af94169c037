package ft

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Account is a registration entry of the ledger.
	Account struct {
		// Current token balance.
		Balance int
		// Amount of GAS paid for the registration, returned on unregister.
		Deposit int
	}

	// Ledger describes storage layout of the token ledger. Both fields must
	// not collide with any other key used by the contract.
	Ledger struct {
		// Prefix of account entries, entry key is Prefix+address.
		Prefix string
		// Key of the total supply value.
		SupplyKey string
	}
)

const (
	// ErrNotRegistered is thrown when the account has no registration entry.
	ErrNotRegistered = "account is not registered"
	// ErrAlreadyRegistered is thrown on the repeated registration.
	ErrAlreadyRegistered = "account is already registered"
	// ErrInsufficientBalance is thrown when the account balance is lower than
	// the requested amount.
	ErrInsufficientBalance = "insufficient balance"
	// ErrNegativeAmount is thrown for negative amounts.
	ErrNegativeAmount = "negative amount"
	// ErrInvalidAddress is thrown for addresses that are not Hash160.
	ErrInvalidAddress = "invalid address"
	// ErrNegativeSupply is thrown if the supply would become negative,
	// it means the ledger is inconsistent.
	ErrNegativeSupply = "negative total supply"
)

// NewLedger returns Ledger with the given storage layout.
func NewLedger(prefix, supplyKey string) Ledger {
	return Ledger{
		Prefix:    prefix,
		SupplyKey: supplyKey,
	}
}

// TotalSupply returns current token supply.
func (l Ledger) TotalSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, l.SupplyKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

// BalanceOf returns balance of the account, unregistered accounts have zero
// balance.
func (l Ledger) BalanceOf(ctx storage.Context, acc interop.Hash160) int {
	a, _ := l.Get(ctx, acc)
	return a.Balance
}

// IsRegistered checks whether the account has registration entry.
func (l Ledger) IsRegistered(ctx storage.Context, acc interop.Hash160) bool {
	return storage.Get(ctx, l.key(acc)) != nil
}

// Get returns registration entry of the account and true if the entry exists.
func (l Ledger) Get(ctx storage.Context, acc interop.Hash160) (Account, bool) {
	data := storage.Get(ctx, l.key(acc))
	if data == nil {
		return Account{}, false
	}

	return std.Deserialize(data.([]byte)).(Account), true
}

// Register creates an empty entry for the account. The deposit is saved to
// be returned on Unregister.
func (l Ledger) Register(ctx storage.Context, acc interop.Hash160, deposit int) {
	checkAddress(acc)

	if l.IsRegistered(ctx, acc) {
		panic(ErrAlreadyRegistered)
	}

	l.put(ctx, acc, Account{Balance: 0, Deposit: deposit})
}

// Unregister removes entry of the account and burns its balance. It returns
// the removed entry.
func (l Ledger) Unregister(ctx storage.Context, acc interop.Hash160) Account {
	a := l.mustGet(ctx, acc)

	if a.Balance > 0 {
		l.changeSupply(ctx, -a.Balance)
	}

	storage.Delete(ctx, l.key(acc))

	return a
}

// Deposit increases balance of the registered account and total supply by
// the amount.
func (l Ledger) Deposit(ctx storage.Context, acc interop.Hash160, amount int) {
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	a := l.mustGet(ctx, acc)
	a.Balance += amount

	l.put(ctx, acc, a)
	l.changeSupply(ctx, amount)
}

// Withdraw decreases balance of the registered account and total supply by
// the amount.
func (l Ledger) Withdraw(ctx storage.Context, acc interop.Hash160, amount int) {
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	a := l.mustGet(ctx, acc)
	if a.Balance < amount {
		panic(ErrInsufficientBalance)
	}

	a.Balance -= amount

	l.put(ctx, acc, a)
	l.changeSupply(ctx, -amount)
}

// Transfer moves the amount between registered accounts. It returns false if
// the sender does not have enough tokens. Supply is not changed.
func (l Ledger) Transfer(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	checkAddress(from)
	checkAddress(to)

	fromAcc := l.mustGet(ctx, from)
	toAcc := l.mustGet(ctx, to)

	if fromAcc.Balance < amount {
		return false
	}

	if from.Equals(to) || amount == 0 {
		return true
	}

	fromAcc.Balance -= amount
	toAcc.Balance += amount

	l.put(ctx, from, fromAcc)
	l.put(ctx, to, toAcc)

	return true
}

func (l Ledger) mustGet(ctx storage.Context, acc interop.Hash160) Account {
	a, ok := l.Get(ctx, acc)
	if !ok {
		panic(ErrNotRegistered)
	}

	return a
}

func (l Ledger) put(ctx storage.Context, acc interop.Hash160, a Account) {
	storage.Put(ctx, l.key(acc), std.Serialize(a))
}

func (l Ledger) changeSupply(ctx storage.Context, delta int) {
	supply := l.TotalSupply(ctx) + delta
	if supply < 0 {
		panic(ErrNegativeSupply)
	}

	storage.Put(ctx, l.SupplyKey, supply)
}

func (l Ledger) key(acc interop.Hash160) []byte {
	return append([]byte(l.Prefix), acc...)
}

func checkAddress(acc interop.Hash160) {
	if len(acc) != interop.Hash160Len {
		panic(ErrInvalidAddress)
	}
}
