package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/ft-contract/contracts"
	"github.com/nspcc-dev/ft-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML deployment configuration")

	flag.Parse()

	if *configPath == "" {
		log.Fatal("missing config path")
	}

	cfg, err := readConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(deployToken(cfg))
}

// deployToken runs the deployment and returns process exit code, so deferred
// calls are done before exit.
func deployToken(cfg *config) int {
	logger, err := newLogger(cfg.Logger)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, cfg, logger)
	if err != nil {
		logger.Error("token deployment failed", zap.Error(err))
		return 1
	}

	return 0
}

func run(ctx context.Context, cfg *config, logger *zap.Logger) error {
	acc, err := openAccount(cfg.Wallet)
	if err != nil {
		return err
	}

	c, err := contracts.ReadDir(cfg.Contract.Dir)
	if err != nil {
		return fmt.Errorf("read contract artifacts: %w", err)
	}

	owner, err := cfg.Token.owner(acc.ScriptHash())
	if err != nil {
		return err
	}

	supply, err := cfg.Token.totalSupply()
	if err != nil {
		return err
	}

	meta, err := cfg.Token.Metadata.metadata()
	if err != nil {
		return fmt.Errorf("token metadata: %w", err)
	}

	rpc, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}
	defer rpc.Close()

	err = rpc.Init()
	if err != nil {
		return fmt.Errorf("RPC client init: %w", err)
	}

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:       logger,
		Blockchain:   rpc,
		LocalAccount: acc,
		Common: deploy.CommonDeployPrm{
			NEF:      c.NEF,
			Manifest: c.Manifest,
		},
		Token: deploy.TokenPrm{
			Owner:       owner,
			TotalSupply: supply,
			Metadata:    meta,
		},
	})
	if err != nil {
		return err
	}

	logger.Info("token contract is ready", zap.String("address", address.Uint160ToString(addr)),
		zap.String("hash", addr.StringLE()))

	return nil
}

func openAccount(cfg walletConfig) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Address == "" {
		acc = w.GetAccount(w.GetChangeAddress())
	} else {
		h, err := address.StringToUint160(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet account address: %w", err)
		}
		acc = w.GetAccount(h)
	}

	if acc == nil {
		return nil, fmt.Errorf("account %q is missing in the wallet", cfg.Address)
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlock wallet account: %w", err)
	}

	return acc, nil
}
