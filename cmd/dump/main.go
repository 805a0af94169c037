package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddr := flag.String("contract", "", "Token contract address (Neo address or LE script hash)")
	outPath := flag.String("out", "", "Output CSV file (stdout if not set)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddr == "":
		log.Fatal("missing token contract address")
	}

	h, err := parseContractAddress(*contractAddr)
	if err != nil {
		log.Fatal(err)
	}

	err = dumpTo(*neoRPCEndpoint, h, *outPath)
	if err != nil {
		log.Fatal(err)
	}
}

// dumpTo writes the ledger into the file at outPath or to stdout if the path
// is empty.
func dumpTo(neoBlockchainRPCEndpoint string, contract util.Uint160, outPath string) error {
	if outPath == "" {
		return _dump(neoBlockchainRPCEndpoint, contract, os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	err = _dump(neoBlockchainRPCEndpoint, contract, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close output file: %w", closeErr)
	}

	return err
}

func parseContractAddress(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("invalid contract address %q", s)
	}

	return h, nil
}

func _dump(neoBlockchainRPCEndpoint string, contract util.Uint160, out io.Writer) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	ctr, err := b.getContract(contract)
	if err != nil {
		return err
	}

	log.Printf("Dumping ledger of contract '%s' at block #%d...\n", ctr.Manifest.Name, b.currentBlock-1)

	meta, err := token.NewReader(b.inv, contract).Metadata()
	if err != nil {
		return fmt.Errorf("read token metadata: %w", err)
	}

	d := newLedgerDump(out, int(meta.Decimals.Int64()))

	err = b.iterateContractStorage(contract, d.write)
	if err != nil {
		return fmt.Errorf("iterate token contract storage: %w", err)
	}

	return d.flush()
}
