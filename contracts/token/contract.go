package token

import (
	"github.com/nspcc-dev/ft-contract/common"
	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/ft-contract/ft"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

var ledger ft.Ledger

func init() {
	ledger = ft.NewLedger(tokenconst.AccountPrefix, tokenconst.SupplyKey)
}

// _deploy initializes the token: stores metadata and credits the whole
// initial supply to the owner.
// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	// Unreachable via management.deploy which runs _deploy once per address,
	// kept as a guard for the metadata slot.
	if storage.Get(ctx, tokenconst.MetadataKey) != nil {
		panic(tokenconst.ErrAlreadyInitialized)
	}

	args := data.(struct {
		owner       interop.Hash160
		totalSupply int
		metadata    any
	})

	if len(args.owner) != interop.Hash160Len {
		panic(tokenconst.ErrInvalidOwner)
	}

	if args.totalSupply < 0 {
		panic(tokenconst.ErrNegativeTotalSupply)
	}

	meta := ft.MetadataFromItems(args.metadata)
	common.SetSerialized(ctx, tokenconst.MetadataKey, meta)

	ledger.Register(ctx, args.owner, 0)
	ledger.Deposit(ctx, args.owner, args.totalSupply)
	notifyTransfer(nil, args.owner, args.totalSupply)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	common.CheckCommitteeWitness()

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Symbol is a NEP-17 standard method that returns token symbol from the
// metadata.
func Symbol() string {
	return getMetadata(storage.GetReadOnlyContext()).Symbol
}

// Decimals is a NEP-17 standard method that returns token precision from the
// metadata.
func Decimals() int {
	return getMetadata(storage.GetReadOnlyContext()).Decimals
}

// TotalSupply is a NEP-17 standard method that returns total amount of tokens.
func TotalSupply() int {
	return ledger.TotalSupply(storage.GetReadOnlyContext())
}

// BalanceOf is a NEP-17 standard method that returns token balance of the
// account. Unregistered accounts have zero balance.
func BalanceOf(account interop.Hash160) int {
	return ledger.BalanceOf(storage.GetReadOnlyContext(), account)
}

// Metadata returns token metadata set on initialization.
func Metadata() ft.Metadata {
	return getMetadata(storage.GetReadOnlyContext())
}

// Transfer is a NEP-17 standard method that transfers tokens from one
// registered account to another. It can be invoked only by the owner of the
// tokens. If the receiver is a contract, its onNEP17Payment method is called
// and the whole transfer fails if the receiver refuses the payment.
//
// Produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if amount < 0 {
		panic(ft.ErrNegativeAmount)
	}

	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic(ft.ErrInvalidAddress)
	}

	if !common.IsOwnerOrCaller(from) {
		runtime.Log(common.ErrOwnerWitnessFailed)
		return false
	}

	ctx := storage.GetContext()

	if !ledger.Transfer(ctx, from, to, amount) {
		runtime.Log(ft.ErrInsufficientBalance)
		return false
	}

	notifyTransfer(from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}

	return true
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract. It
// mints tokens in exchange of received GAS one to one. Receiver of the tokens
// is passed as data, if data is empty, tokens are minted to the sender of
// GAS. Receiver must be registered. Zero payment is accepted and changes
// nothing but notifications.
//
// Produces Transfer and Mint notifications.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(tokenconst.ErrOnlyGAS)
	}

	rcv := data.(interop.Hash160)
	if rcv.Equals(tokenconst.IgnorePaymentData) {
		return
	}

	if amount < 0 {
		panic(ft.ErrNegativeAmount)
	}

	switch len(rcv) {
	case interop.Hash160Len:
	case 0:
		rcv = from
	default:
		panic(tokenconst.ErrInvalidMintData)
	}

	ctx := storage.GetContext()

	ledger.Deposit(ctx, rcv, amount)
	notifyTransfer(nil, rcv, amount)

	runtime.Notify("Mint", from, rcv, amount)
}

// Withdraw burns user tokens and returns the same amount of GAS to the user.
// It can be invoked only by the user itself (witness or direct contract call).
// GAS is transferred within the same invocation, so if the transfer fails,
// the tokens are not burnt.
//
// Produces Transfer and Withdraw notifications.
func Withdraw(user interop.Hash160, amount int) {
	if amount <= 0 {
		panic(tokenconst.ErrNonPositiveAmount)
	}

	common.CheckOwnerWitness(user)

	ctx := storage.GetContext()

	ledger.Withdraw(ctx, user, amount)
	notifyTransfer(user, nil, amount)

	common.TransferGASFromSelf(user, amount)

	runtime.Notify("Withdraw", user, amount)
	runtime.Log("tokens withdrawn")
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func getMetadata(ctx storage.Context) ft.Metadata {
	return common.GetSerialized(ctx, tokenconst.MetadataKey).(ft.Metadata)
}

func notifyTransfer(from, to interop.Hash160, amount int) {
	runtime.Notify("Transfer", from, to, amount)
}
