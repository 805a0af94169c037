package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	rpctoken "github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const gasPrecision = 8

func initClient(addr string) (*rpcclient.Client, error) {
	c, err := rpcclient.New(context.Background(), addr, rpcclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("RPC: %w", err)
	}
	err = c.Init()
	if err != nil {
		return nil, fmt.Errorf("RPC init: %w", err)
	}
	return c, nil
}

func cliMain() error {
	since := flag.Duration("since", 0, "Check GAS transfers made within this period only (all by default)")

	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		return errors.New("usage: program [-since DURATION] <RPC> <TOKEN_CONTRACT>")
	}

	tokenHash, err := address.StringToUint160(args[1])
	if err != nil {
		return fmt.Errorf("bad contract address: %w", err)
	}

	c, err := initClient(args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	now := uint64(time.Now().UnixMilli())
	var from uint64
	if *since > 0 {
		from = now - uint64(since.Milliseconds())
	}

	moves, err := gasMoves(c, tokenHash, from, now)
	if err != nil {
		return err
	}

	var (
		unexplained []gasMove
		txEvents    = make(map[util.Uint256]*tokenEvents)
	)
	for _, m := range moves {
		ev, ok := txEvents[m.tx]
		if !ok {
			l, err := c.GetApplicationLog(m.tx, nil)
			if err != nil {
				return fmt.Errorf("get application log of %s: %w", m.tx.StringLE(), err)
			}

			evs, err := tokenEventsFromLog(l, tokenHash)
			if err != nil {
				return fmt.Errorf("parse token events of %s: %w", m.tx.StringLE(), err)
			}

			ev = &evs
			txEvents[m.tx] = ev
		}

		if !ev.explain(m) {
			unexplained = append(unexplained, m)
		}
	}

	inv := invoker.New(c, nil)

	escrow, err := gas.NewReader(inv).BalanceOf(tokenHash)
	if err != nil {
		return fmt.Errorf("get GAS balance of the token: %w", err)
	}

	supply, err := rpctoken.NewReader(inv, tokenHash).TotalSupply()
	if err != nil {
		return fmt.Errorf("get token supply: %w", err)
	}

	fmt.Println(len(moves), "GAS transfers, escrow:", fixedn.ToString(escrow, gasPrecision),
		"token supply:", supply)

	for _, m := range unexplained {
		dir := "in"
		if !m.incoming {
			dir = "out"
		}
		fmt.Println("0x"+m.tx.StringLE(), dir, m.counterparty, fixedn.ToString(m.amount, gasPrecision))
	}

	if len(unexplained) != 0 {
		return fmt.Errorf("%d GAS transfers are not matched by token events", len(unexplained))
	}

	return nil
}

// gasMoves returns all GAS transfers of the token contract within the given
// time range (in milliseconds).
func gasMoves(c *rpcclient.Client, tokenHash util.Uint160, from, till uint64) ([]gasMove, error) {
	var res []gasMove

	for page := 0; ; page++ {
		var limit = 100
		trans, err := c.GetNEP17Transfers(tokenHash, &from, &till, &limit, &page)
		if err != nil {
			return nil, fmt.Errorf("can't get transfers: %w", err)
		}

		for _, set := range []struct {
			transfers []result.NEP17Transfer
			incoming  bool
		}{
			{trans.Received, true},
			{trans.Sent, false},
		} {
			for _, t := range set.transfers {
				if !t.Asset.Equals(gas.Hash) {
					continue
				}

				amount, ok := new(big.Int).SetString(t.Amount, 10)
				if !ok {
					return nil, fmt.Errorf("invalid amount %q in transfer %s", t.Amount, t.TxHash.StringLE())
				}

				res = append(res, gasMove{
					tx:           t.TxHash,
					counterparty: t.Address,
					amount:       amount,
					incoming:     set.incoming,
				})
			}
		}

		if len(trans.Received)+len(trans.Sent) < limit {
			return res, nil
		}
	}
}

func main() {
	if err := cliMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
