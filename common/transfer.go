package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrGASTransferFailed is thrown when native GAS contract refuses a transfer.
const ErrGASTransferFailed = "failed to transfer GAS, aborting"

// TransferGAS transfers GAS and panics with ErrGASTransferFailed if the
// native contract returns false. Since the transfer is done within the
// current invocation, the panic reverts every change made by the caller.
func TransferGAS(from, to interop.Hash160, amount int, data any) {
	if !gas.Transfer(from, to, amount, data) {
		panic(ErrGASTransferFailed)
	}
}

// TransferGASFromSelf transfers GAS owned by the executing contract.
func TransferGASFromSelf(to interop.Hash160, amount int) {
	TransferGAS(runtime.GetExecutingScriptHash(), to, amount, nil)
}
