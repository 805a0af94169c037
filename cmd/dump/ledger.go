package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"

	"github.com/nspcc-dev/ft-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
)

// ledgerDump writes token accounts as CSV records and checks that the sum of
// balances matches the total supply.
type ledgerDump struct {
	w        *csv.Writer
	decimals int

	header   bool
	accounts int
	balances *big.Int
	supply   *big.Int
}

func newLedgerDump(w io.Writer, decimals int) *ledgerDump {
	return &ledgerDump{
		w:        csv.NewWriter(w),
		decimals: decimals,
		balances: new(big.Int),
	}
}

// write processes single storage item of the token contract.
func (d *ledgerDump) write(key, value []byte) error {
	if len(key) == 0 {
		return nil
	}

	switch string(key[:1]) {
	case tokenconst.SupplyKey:
		if len(key) == 1 {
			d.supply = bigint.FromBytes(value)
		}
		return nil
	case tokenconst.AccountPrefix:
	default:
		return nil
	}

	h, acc, err := token.AccountFromStorage(key, value)
	if err != nil {
		return err
	}

	if !d.header {
		d.header = true
		err = d.w.Write([]string{"address", "hash", "balance", "amount", "deposit"})
		if err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
	}

	err = d.w.Write([]string{
		address.Uint160ToString(h),
		h.StringLE(),
		acc.Balance.String(),
		fixedn.ToString(acc.Balance, d.decimals),
		acc.Deposit.String(),
	})
	if err != nil {
		return fmt.Errorf("write CSV record: %w", err)
	}

	d.accounts++
	d.balances.Add(d.balances, acc.Balance)

	return nil
}

// flush finishes the dump. It returns an error if the ledger is inconsistent.
func (d *ledgerDump) flush() error {
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}

	supply := d.supply
	if supply == nil {
		supply = new(big.Int)
	}

	if supply.Cmp(d.balances) != 0 {
		return fmt.Errorf("ledger is inconsistent: total supply %s, sum of %d balances %s",
			supply, d.accounts, d.balances)
	}

	return nil
}
