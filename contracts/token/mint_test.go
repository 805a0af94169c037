package token_test

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/ft-contract/common"
	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/ft-contract/ft"
	rpctoken "github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func appLog(t *testing.T, e *neotest.Executor, h util.Uint256) *result.ApplicationLog {
	aer := e.GetTxExecResult(t, h)
	return &result.ApplicationLog{
		Container:  h,
		Executions: []state.Execution{aer.Execution},
	}
}

func TestMintWithdrawScenario(t *testing.T) {
	x := newEnv(t, testTotalSupply)

	a := x.owner
	b := x.e.NewAccount(t)
	c := x.e.NewAccount(t)

	x.register(t, b)

	part := int64(testTotalSupply / 3)
	x.ownerInv.Invoke(t, true, "transfer", a.ScriptHash(), b.ScriptHash(), part, nil)

	const amount = 100_000

	contractGAS := x.gasBalance(t, x.hash)

	// C pays, B receives
	h := x.e.NewInvoker(x.gasHash, c).Invoke(t, true, "transfer", c.ScriptHash(), x.hash, amount, b.ScriptHash())

	x.ownerInv.Invoke(t, part+amount, "balanceOf", b.ScriptHash())
	x.ownerInv.Invoke(t, testTotalSupply-part, "balanceOf", a.ScriptHash())
	x.ownerInv.Invoke(t, 0, "balanceOf", c.ScriptHash())
	x.ownerInv.Invoke(t, testTotalSupply+amount, "totalSupply")

	require.Zero(t, new(big.Int).Add(contractGAS, big.NewInt(amount)).Cmp(x.gasBalance(t, x.hash)))

	mints, err := rpctoken.MintEventsFromApplicationLog(appLog(t, x.e, h))
	require.NoError(t, err)
	require.Len(t, mints, 1)
	require.Equal(t, c.ScriptHash(), mints[0].From)
	require.Equal(t, b.ScriptHash(), mints[0].To)
	require.EqualValues(t, amount, mints[0].Amount.Int64())
	checkTransferEvent(t, x, h, util.Uint160{}, b.ScriptHash(), amount)

	// B withdraws GAS back
	h = x.invoker(b).Invoke(t, stackitem.Null{}, "withdraw", b.ScriptHash(), amount)

	x.ownerInv.Invoke(t, part, "balanceOf", b.ScriptHash())
	x.ownerInv.Invoke(t, testTotalSupply, "totalSupply")
	require.Zero(t, contractGAS.Cmp(x.gasBalance(t, x.hash)))

	withdrawals, err := rpctoken.WithdrawEventsFromApplicationLog(appLog(t, x.e, h))
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	require.Equal(t, b.ScriptHash(), withdrawals[0].User)
	require.EqualValues(t, amount, withdrawals[0].Amount.Int64())
	checkTransferEvent(t, x, h, b.ScriptHash(), util.Uint160{}, amount)

	// native GAS transfer to B is a part of the same transaction
	var gasSent bool
	for _, ev := range x.e.GetTxExecResult(t, h).Events {
		if ev.ScriptHash != x.gasHash || ev.Name != "Transfer" {
			continue
		}
		items := ev.Item.Value().([]stackitem.Item)
		if equalHashItem(items[0], x.hash) && equalHashItem(items[1], b.ScriptHash()) {
			v, err := items[2].TryInteger()
			require.NoError(t, err)
			require.EqualValues(t, amount, v.Int64())
			gasSent = true
		}
	}
	require.True(t, gasSent)
}

func TestMint(t *testing.T) {
	x := newEnv(t, testTotalSupply)

	b := x.e.NewAccount(t)
	x.register(t, b)

	t.Run("to sender", func(t *testing.T) {
		x.mint(t, b, nil, 500)
		x.ownerInv.Invoke(t, 500, "balanceOf", b.ScriptHash())
	})

	t.Run("zero", func(t *testing.T) {
		x.mint(t, b, b.ScriptHash(), 0)
		x.ownerInv.Invoke(t, 500, "balanceOf", b.ScriptHash())
		x.ownerInv.Invoke(t, testTotalSupply+500, "totalSupply")
	})

	t.Run("unregistered", func(t *testing.T) {
		c := x.e.NewAccount(t)
		contractGAS := x.gasBalance(t, x.hash)

		x.mintFail(t, b, c.ScriptHash(), 1000, ft.ErrNotRegistered)
		x.mintFail(t, c, nil, 1000, ft.ErrNotRegistered)

		x.ownerInv.Invoke(t, 0, "balanceOf", c.ScriptHash())
		x.ownerInv.Invoke(t, 500, "balanceOf", b.ScriptHash())
		x.ownerInv.Invoke(t, testTotalSupply+500, "totalSupply")
		require.Zero(t, contractGAS.Cmp(x.gasBalance(t, x.hash)))
	})

	t.Run("invalid data", func(t *testing.T) {
		x.mintFail(t, b, []byte{1, 2, 3}, 1000, tokenconst.ErrInvalidMintData)
		x.mintFail(t, b, 42, 1000, tokenconst.ErrInvalidMintData)
	})

	t.Run("not GAS", func(t *testing.T) {
		x.invoker(b).InvokeFail(t, tokenconst.ErrOnlyGAS, "onNEP17Payment", b.ScriptHash(), 1000, nil)
	})
}

func TestWithdraw(t *testing.T) {
	x := newEnv(t, testTotalSupply)

	b := x.e.NewAccount(t)
	c := x.e.NewAccount(t)
	x.register(t, b)
	x.mint(t, c, b.ScriptHash(), 10_000)

	t.Run("non-positive amount", func(t *testing.T) {
		x.invoker(b).InvokeFail(t, tokenconst.ErrNonPositiveAmount, "withdraw", b.ScriptHash(), 0)
		x.invoker(b).InvokeFail(t, tokenconst.ErrNonPositiveAmount, "withdraw", b.ScriptHash(), -1)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		x.invoker(b).InvokeFail(t, ft.ErrInsufficientBalance, "withdraw", b.ScriptHash(), 10_001)
		x.ownerInv.Invoke(t, 10_000, "balanceOf", b.ScriptHash())
	})

	t.Run("foreign account", func(t *testing.T) {
		x.invoker(c).InvokeFail(t, common.ErrOwnerWitnessFailed, "withdraw", b.ScriptHash(), 1)
		x.ownerInv.Invoke(t, 10_000, "balanceOf", b.ScriptHash())
	})

	t.Run("unregistered", func(t *testing.T) {
		x.invoker(c).InvokeFail(t, ft.ErrNotRegistered, "withdraw", c.ScriptHash(), 1)
	})

	t.Run("not enough GAS in the contract", func(t *testing.T) {
		// initial supply is not backed by GAS
		contractGAS := x.gasBalance(t, x.hash)
		amount := new(big.Int).Add(contractGAS, big.NewInt(1))

		x.ownerInv.InvokeFail(t, common.ErrGASTransferFailed, "withdraw", x.owner.ScriptHash(), amount)
		x.ownerInv.Invoke(t, testTotalSupply, "balanceOf", x.owner.ScriptHash())
		x.ownerInv.Invoke(t, testTotalSupply+10_000, "totalSupply")
	})

	t.Run("partial", func(t *testing.T) {
		x.invoker(b).Invoke(t, stackitem.Null{}, "withdraw", b.ScriptHash(), 4_000)
		x.ownerInv.Invoke(t, 6_000, "balanceOf", b.ScriptHash())
		x.invoker(b).Invoke(t, stackitem.Null{}, "withdraw", b.ScriptHash(), 6_000)
		x.ownerInv.Invoke(t, 0, "balanceOf", b.ScriptHash())
	})
}

func TestWithdrawByContract(t *testing.T) {
	x := newEnv(t, testTotalSupply)
	rcv := deployReceiver(t, x.e)

	x.registerBy(t, x.owner, rcv)
	x.mint(t, x.owner, rcv, 3_000)

	rcvInv := x.e.NewInvoker(rcv, x.e.NewAccount(t))
	rcvInv.Invoke(t, stackitem.Null{}, "withdraw", x.hash, 1_000)

	x.ownerInv.Invoke(t, 2_000, "balanceOf", rcv)

	// receiver got GAS back
	rcvInv.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		call := stack[0].Value().([]stackitem.Item)
		require.Equal(t, x.gasHash.BytesBE(), call[0].Value())
		require.Equal(t, x.hash.BytesBE(), call[1].Value())
		require.EqualValues(t, 1_000, call[2].Value().(*big.Int).Int64())
	}, "get")
	require.EqualValues(t, 1_000, x.gasBalance(t, rcv).Int64())
}
