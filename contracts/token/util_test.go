package token_test

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/ft-contract/ft"
	rpctoken "github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	tokenPath    = "../token"
	receiverPath = "../../internal/testcontracts/nep17recv"

	testTotalSupply = 1_000_000_000_000_000
)

// env is a deployed token with its owner.
type env struct {
	e *neotest.Executor

	hash    util.Uint160
	gasHash util.Uint160

	owner neotest.Signer

	// token invoker signed by the owner
	ownerInv *neotest.ContractInvoker
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func compileToken(t *testing.T, e *neotest.Executor) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
}

func testMetadata() []any {
	return []any{ft.MetadataSpec, "ManhnvCoin", "MNC", "", "", []byte{}, 1}
}

func deployArgs(owner any, supply any, meta any) []any {
	return []any{owner, supply, meta}
}

func newEnv(t *testing.T, supply any) *env {
	e := newExecutor(t)
	owner := e.NewAccount(t)

	ctr := compileToken(t, e)
	e.DeployContract(t, ctr, deployArgs(owner.ScriptHash(), supply, testMetadata()))

	return &env{
		e:        e,
		hash:     ctr.Hash,
		gasHash:  e.NativeHash(t, nativenames.Gas),
		owner:    owner,
		ownerInv: e.NewInvoker(ctr.Hash, owner),
	}
}

// invoker returns token invoker signed by the given accounts.
func (x *env) invoker(signers ...neotest.Signer) *neotest.ContractInvoker {
	return x.e.NewInvoker(x.hash, signers...)
}

// register makes storage deposit for the account paid by itself.
func (x *env) register(t *testing.T, acc neotest.Signer) {
	x.registerBy(t, acc, acc.ScriptHash())
}

// registerBy makes storage deposit for the account paid by the payer.
func (x *env) registerBy(t *testing.T, payer neotest.Signer, acc util.Uint160) {
	cost := x.registrationCost(t)

	x.invoker(payer).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)

		var b rpctoken.StorageBalance
		require.NoError(t, b.FromStackItem(stack[0]))
		require.EqualValues(t, cost, b.Total.Int64())
		require.Zero(t, b.Available.Sign())
	}, "storageDeposit", payer.ScriptHash(), acc)
}

// mint sends GAS from the payer to the token with the receiver as data.
func (x *env) mint(t *testing.T, payer neotest.Signer, rcv any, amount int64) {
	x.e.NewInvoker(x.gasHash, payer).Invoke(t, true, "transfer",
		payer.ScriptHash(), x.hash, amount, rcv)
}

func (x *env) mintFail(t *testing.T, payer neotest.Signer, rcv any, amount int64, msg string) {
	x.e.NewInvoker(x.gasHash, payer).InvokeFail(t, msg, "transfer",
		payer.ScriptHash(), x.hash, amount, rcv)
}

func (x *env) registrationCost(t *testing.T) int64 {
	return x.integer(t, "storageBalanceBounds").Int64()
}

func (x *env) balanceOf(t *testing.T, acc util.Uint160) *big.Int {
	return x.integer(t, "balanceOf", acc)
}

func (x *env) totalSupply(t *testing.T) *big.Int {
	return x.integer(t, "totalSupply")
}

// integer invokes a read-only method and returns resulting integer. Structs
// are reduced to their first field.
func (x *env) integer(t *testing.T, method string, args ...any) *big.Int {
	s, err := x.invoker(x.owner).TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	item := s.Pop().Item()
	if arr, ok := item.Value().([]stackitem.Item); ok {
		item = arr[0]
	}

	v, err := item.TryInteger()
	require.NoError(t, err)

	return v
}

func (x *env) gasBalance(t *testing.T, acc util.Uint160) *big.Int {
	s, err := x.e.NewInvoker(x.gasHash, x.owner).TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)

	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)

	return v
}

func deployReceiver(t *testing.T, e *neotest.Executor) util.Uint160 {
	ctr := neotest.CompileFile(t, e.CommitteeHash, receiverPath, path.Join(receiverPath, "config.yml"))
	e.DeployContract(t, ctr, nil)
	return ctr.Hash
}
