package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

var (
	// ErrCommitteeWitnessFailed appears when the method must be
	// called by the Neo committee but was not.
	ErrCommitteeWitnessFailed = "committee witness check failed"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
)

// CheckOwnerWitness checks that the call is made on behalf of the owner,
// see IsOwnerOrCaller. It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	if !IsOwnerOrCaller(owner) {
		panic(ErrOwnerWitnessFailed)
	}
}

// IsOwnerOrCaller checks if the owner either witnessed the transaction or is
// the contract calling the current one directly.
func IsOwnerOrCaller(owner interop.Hash160) bool {
	if len(owner) != interop.Hash160Len {
		return false
	}

	// CheckWitness is also true for the calling script hash.
	return runtime.CheckWitness(owner)
}
