package nep17recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// RejectData makes OnNEP17Payment fail.
const RejectData = "reject"

type Call struct {
	Token  interop.Hash160
	From   interop.Hash160
	Amount int
	Data   any
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if data != nil && data.(string) == RejectData {
		panic("payment rejected")
	}
	storage.Put(storage.GetContext(), "key", std.Serialize(Call{
		Token:  runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
		Data:   data,
	}))
}

func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), "key")
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

// Withdraw withdraws tokens owned by the contract from the token contract.
func Withdraw(token interop.Hash160, amount int) {
	contract.Call(token, "withdraw", contract.All, runtime.GetExecutingScriptHash(), amount)
}
