package main

import (
	"math/big"

	rpctoken "github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// gasMove is a GAS transfer made to or from the token contract.
type gasMove struct {
	tx           util.Uint256
	counterparty string
	amount       *big.Int
	incoming     bool
}

// tokenEvents groups token notifications of a single transaction that
// explain GAS moves.
type tokenEvents struct {
	mints       []*rpctoken.MintEvent
	withdrawals []*rpctoken.WithdrawEvent
	regs        []*rpctoken.RegisterEvent
	unregs      []*rpctoken.UnregisterEvent

	// amounts of GAS not matched with moves yet
	in, out []*big.Int
}

// tokenEventsFromLog decodes events emitted by the token contract only, other
// contracts can use the same event names.
func tokenEventsFromLog(l *result.ApplicationLog, tokenHash util.Uint160) (tokenEvents, error) {
	var (
		res      tokenEvents
		err      error
		filtered = &result.ApplicationLog{Container: l.Container}
	)

	for _, ex := range l.Executions {
		fEx := ex
		fEx.Events = nil
		for _, e := range ex.Events {
			if e.ScriptHash.Equals(tokenHash) {
				fEx.Events = append(fEx.Events, e)
			}
		}
		filtered.Executions = append(filtered.Executions, fEx)
	}

	res.mints, err = rpctoken.MintEventsFromApplicationLog(filtered)
	if err != nil {
		return res, err
	}

	res.withdrawals, err = rpctoken.WithdrawEventsFromApplicationLog(filtered)
	if err != nil {
		return res, err
	}

	res.regs, err = rpctoken.RegisterEventsFromApplicationLog(filtered)
	if err != nil {
		return res, err
	}

	res.unregs, err = rpctoken.UnregisterEventsFromApplicationLog(filtered)
	if err != nil {
		return res, err
	}

	for _, e := range res.mints {
		res.in = append(res.in, e.Amount)
	}
	for _, e := range res.regs {
		res.in = append(res.in, e.Deposit)
	}
	for _, e := range res.withdrawals {
		res.out = append(res.out, e.Amount)
	}
	for _, e := range res.unregs {
		res.out = append(res.out, e.Deposit)
	}

	return res, nil
}

// explain checks whether the GAS move is a result of the token operation:
// mint or storage deposit for incoming GAS, withdrawal or storage refund for
// outgoing GAS. Each event explains a single move only, matched event is
// consumed.
func (x *tokenEvents) explain(m gasMove) bool {
	amounts := &x.out
	if m.incoming {
		amounts = &x.in
	}

	for i, a := range *amounts {
		if a.Cmp(m.amount) == 0 {
			*amounts = append((*amounts)[:i], (*amounts)[i+1:]...)
			return true
		}
	}

	return false
}
