package token

import (
	"github.com/nspcc-dev/ft-contract/common"
	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/ft-contract/ft"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// StorageDeposit registers the account in the token ledger. Registration
// deposit (see StorageBalanceBounds) is transferred in GAS from the `from`
// account, so the method must be witnessed by it. If account is empty, `from`
// is registered. Already registered accounts are not charged.
//
// Produces Register notification.
func StorageDeposit(from, account interop.Hash160) ft.StorageBalance {
	if len(account) == 0 {
		account = from
	}

	if len(from) != interop.Hash160Len || len(account) != interop.Hash160Len {
		panic(ft.ErrInvalidAddress)
	}

	ctx := storage.GetContext()

	if acc, ok := ledger.Get(ctx, account); ok {
		runtime.Log("account is already registered, deposit is not charged")
		return ft.BalanceFromAccount(acc)
	}

	common.CheckOwnerWitness(from)

	cost := ft.RegistrationCost()
	if cost > 0 {
		common.TransferGAS(from, runtime.GetExecutingScriptHash(), cost,
			[]byte(tokenconst.IgnorePaymentData))
	}

	ledger.Register(ctx, account, cost)
	runtime.Notify("Register", account, cost)

	return ft.StorageBalance{Total: cost, Available: 0}
}

// StorageBalanceBounds returns the amount of GAS required to register an
// account.
func StorageBalanceBounds() ft.StorageBalanceBounds {
	return ft.Bounds()
}

// StorageBalanceOf returns storage balance of the registered account or null
// if the account is not registered.
func StorageBalanceOf(account interop.Hash160) any {
	acc, ok := ledger.Get(storage.GetReadOnlyContext(), account)
	if !ok {
		return nil
	}

	return ft.BalanceFromAccount(acc)
}

// StorageWithdraw withdraws available part of the storage deposit. Token
// registration consumes the whole deposit, so only zero amount can be
// withdrawn and the current storage balance is returned.
func StorageWithdraw(account interop.Hash160, amount int) ft.StorageBalance {
	common.CheckOwnerWitness(account)

	acc, ok := ledger.Get(storage.GetReadOnlyContext(), account)
	if !ok {
		panic(ft.ErrNotRegistered)
	}

	if amount > 0 {
		panic(tokenconst.ErrStorageWithdraw)
	}

	return ft.BalanceFromAccount(acc)
}

// StorageUnregister removes the account from the token ledger and returns
// the registration deposit to it. Accounts with positive balance are removed
// only if force flag is set, their tokens are burnt. It returns false if the
// account was not registered.
//
// Produces Unregister notification, and Transfer notification if tokens are
// burnt.
func StorageUnregister(account interop.Hash160, force bool) bool {
	common.CheckOwnerWitness(account)

	ctx := storage.GetContext()

	acc, ok := ledger.Get(ctx, account)
	if !ok {
		runtime.Log(ft.ErrNotRegistered)
		return false
	}

	if acc.Balance > 0 && !force {
		panic(tokenconst.ErrPositiveBalance)
	}

	ledger.Unregister(ctx, account)

	if acc.Balance > 0 {
		notifyTransfer(account, nil, acc.Balance)
	}

	if acc.Deposit > 0 {
		common.TransferGASFromSelf(account, acc.Deposit)
	}

	runtime.Notify("Unregister", account, acc.Deposit)

	return true
}
