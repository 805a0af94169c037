package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the token deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the persisted
	// transaction. It makes actor.PollingWaiter available for the clients
	// without event subscriptions.
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// TokenPrm groups initialization parameters of the token contract.
type TokenPrm struct {
	// Account credited with the whole initial supply.
	Owner util.Uint160

	// Initial supply, must not be negative.
	TotalSupply *big.Int

	// Token metadata, stored by the contract as is.
	Metadata token.Metadata
}

// Prm groups all parameters of the token deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the token to.
	Blockchain Blockchain

	// Local process account used for transaction signing and paying fees
	// (must be unlocked). Contract address depends on it.
	LocalAccount *wallet.Account

	// Compiled token contract.
	Common CommonDeployPrm

	Token TokenPrm
}

// Deploy deploys the token contract to the Neo network represented by given
// Prm.Blockchain and initializes it with Prm.Token parameters. It returns the
// address of the contract.
//
// Contract address is determined by the sender account, NEF checksum and
// contract name, so Deploy is idempotent: if the same contract is already
// deployed to the expected address, it is left as is. Deploy fails if some
// other contract resides at the address.
//
// Deploy waits for the deployment transaction to be persisted, it aborts by
// context or when the transaction expires.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	err := validatePrm(prm)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid deployment parameters: %w", err)
	}

	l := prm.Logger
	sender := prm.LocalAccount.ScriptHash()
	addr := state.CreateContractHash(sender, prm.Common.NEF.Checksum, prm.Common.Manifest.Name)

	l = l.With(zap.Stringer("address", addr), zap.String("name", prm.Common.Manifest.Name))
	l.Info("synchronizing token contract with the chain...")

	deployed, err := checkDeployed(prm.Blockchain, addr, prm.Common.NEF.Checksum)
	if err != nil {
		return util.Uint160{}, err
	}

	if deployed {
		l.Info("token contract is already deployed, skip")
		return addr, nil
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	l.Info("token contract is missing on the chain, trying to deploy...",
		zap.Stringer("owner", prm.Token.Owner), zap.Stringer("total supply", prm.Token.TotalSupply))

	txHash, vub, err := management.New(act).Deploy(&prm.Common.NEF, &prm.Common.Manifest,
		token.DeployParams(prm.Token.Owner, prm.Token.TotalSupply, &prm.Token.Metadata))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Info("deployment transaction sent, waiting for it to be accepted...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := act.WaitAny(ctx, vub, txHash)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	err = checkExecResult(res)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("deployment transaction %s: %w", txHash.StringLE(), err)
	}

	l.Info("token contract successfully deployed")

	return addr, nil
}

func validatePrm(prm Prm) error {
	switch {
	case prm.Logger == nil:
		return errors.New("missing logger")
	case prm.Blockchain == nil:
		return errors.New("missing blockchain")
	case prm.LocalAccount == nil:
		return errors.New("missing local account")
	case prm.Common.Manifest.Name == "":
		return errors.New("missing contract name in the manifest")
	case prm.Token.Owner.Equals(util.Uint160{}):
		return errors.New("missing token owner")
	case prm.Token.TotalSupply == nil:
		return errors.New("missing total supply")
	case prm.Token.TotalSupply.Sign() < 0:
		return errors.New("negative total supply")
	}

	err := prm.Token.Metadata.Validate()
	if err != nil {
		return fmt.Errorf("metadata: %w", err)
	}

	return nil
}

type contractStateReader interface {
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// checkDeployed returns true if the contract with the given NEF checksum is
// deployed at addr, false if there is no contract there, and an error
// otherwise.
func checkDeployed(b contractStateReader, addr util.Uint160, checksum uint32) (bool, error) {
	st, err := b.GetContractStateByHash(addr)
	if err != nil {
		if isErrContractNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get contract state %s: %w", addr.StringLE(), err)
	}

	if st.NEF.Checksum != checksum {
		return false, fmt.Errorf("another contract is deployed at %s (NEF checksum %d, expected %d)",
			addr.StringLE(), st.NEF.Checksum, checksum)
	}

	return true, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

func checkExecResult(res *state.AppExecResult) error {
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("unexpected VM state %s: %s", res.VMState, res.FaultException)
	}

	return nil
}
