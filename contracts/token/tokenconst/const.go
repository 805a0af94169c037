// Package tokenconst contains constants shared by the token contract and its
// off-chain clients.
package tokenconst

const (
	// ErrAlreadyInitialized is thrown when initialization data is passed to
	// the contract that already holds metadata.
	ErrAlreadyInitialized = "contract is already initialized"
	// ErrInvalidOwner is thrown if the owner passed on initialization is not
	// a Hash160.
	ErrInvalidOwner = "invalid owner address"
	// ErrNegativeTotalSupply is thrown for negative initial supply.
	ErrNegativeTotalSupply = "total supply must not be negative"
	// ErrOnlyGAS is thrown when tokens other than GAS are sent to the contract.
	ErrOnlyGAS = "only GAS can be accepted for minting"
	// ErrInvalidMintData is thrown when the payment data is neither empty nor
	// a Hash160 of the receiver.
	ErrInvalidMintData = "invalid data argument, expected Hash160"
	// ErrNonPositiveAmount is thrown for zero or negative withdraw amounts.
	ErrNonPositiveAmount = "amount must be positive"
	// ErrPositiveBalance is thrown when the account with tokens is
	// unregistered without force flag.
	ErrPositiveBalance = "can't unregister the account with the positive balance without force"
	// ErrStorageWithdraw is thrown for any storage withdrawal of positive
	// amount, registration deposit is never available.
	ErrStorageWithdraw = "amount exceeds available storage balance"
)

// Notification names of the contract.
const (
	TransferEvent   = "Transfer"
	MintEvent       = "Mint"
	WithdrawEvent   = "Withdraw"
	RegisterEvent   = "Register"
	UnregisterEvent = "Unregister"
)

// Storage layout of the contract.
const (
	// MetadataKey is a storage key of the serialized token metadata.
	MetadataKey = "m"
	// SupplyKey is a storage key of the total supply.
	SupplyKey = "s"
	// AccountPrefix is a prefix of account registration entries, the rest of
	// the key is account script hash.
	AccountPrefix = "a"
)

// IgnorePaymentData is a payment data attached to GAS transfers made by the
// contract itself (registration deposits). Such payments are not minted.
const IgnorePaymentData = "\x57\x0b"
