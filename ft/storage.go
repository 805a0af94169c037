package ft

import "github.com/nspcc-dev/neo-go/pkg/interop/native/policy"

// AccountStorageSize is the number of storage bytes reserved for one
// registration entry: prefixed key plus serialized Account.
const AccountStorageSize = 64

type (
	// StorageBalance is a storage deposit state of the registered account.
	// Available part is always zero since the deposit is used completely
	// by the registration entry.
	StorageBalance struct {
		Total     int
		Available int
	}

	// StorageBalanceBounds holds deposit limits for the registration.
	StorageBalanceBounds struct {
		Min int
		Max int
	}
)

// RegistrationCost returns amount of GAS required to register an account at
// the current storage price.
func RegistrationCost() int {
	return AccountStorageSize * policy.GetStoragePrice()
}

// Bounds returns registration deposit bounds. Fungible token registration
// never needs more than the minimum, so both bounds are equal.
func Bounds() StorageBalanceBounds {
	cost := RegistrationCost()
	return StorageBalanceBounds{
		Min: cost,
		Max: cost,
	}
}

// BalanceFromAccount returns storage balance of the registration entry.
func BalanceFromAccount(a Account) StorageBalance {
	return StorageBalance{
		Total:     a.Deposit,
		Available: 0,
	}
}
