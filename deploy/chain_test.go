package deploy

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const tokenSrcPath = "../contracts/token"

// runNode starts single-validator network with RPC service and returns the
// client of this service together with the validator account holding all
// the GAS.
func runNode(t *testing.T) (*rpcclient.Internal, *wallet.Account) {
	validatorAcc, err := wallet.NewAccount()
	require.NoError(t, err)

	var validatorMulti = new(wallet.Account)
	*validatorMulti = *validatorAcc
	err = validatorMulti.ConvertMultisig(1, []*keys.PublicKey{validatorAcc.PublicKey()})
	require.NoError(t, err)

	var (
		tmpDir     = t.TempDir()
		walletPath = filepath.Join(tmpDir, "wallet.json")
		wlt        = wallet.NewInMemoryWallet()
	)

	err = validatorAcc.Encrypt("", keys.NEP2ScryptParams())
	require.NoError(t, err)
	wlt.Accounts = append(wlt.Accounts, validatorAcc)
	wlt.SetPath(walletPath)
	require.NoError(t, wlt.Save())

	var (
		cfg = config.Config{
			ApplicationConfiguration: config.ApplicationConfiguration{
				RPC: config.RPC{
					BasicService: config.BasicService{
						Enabled: true,
					},
					MaxGasInvoke: fixedn.Fixed8FromInt64(50),
				},
				Consensus: config.Consensus{
					Enabled: true,
					UnlockWallet: config.Wallet{
						Path:     walletPath,
						Password: "",
					},
				},
			},
			ProtocolConfiguration: config.ProtocolConfiguration{
				Magic:           netmode.UnitTestNet,
				MaxTimePerBlock: 20 * time.Second,
				Genesis: config.Genesis{
					MaxTraceableBlocks:          1000,
					MaxValidUntilBlockIncrement: 1000 / 2,
					TimePerBlock:                50 * time.Millisecond,
				},
				StandbyCommittee:   []string{hex.EncodeToString(validatorAcc.PublicKey().Bytes())},
				ValidatorsCount:    1,
				VerifyTransactions: true,
			},
		}
		logger = zaptest.NewLogger(t)
		store  = storage.NewMemoryStore()
	)

	bc, err := core.NewBlockchain(store, config.Blockchain{ProtocolConfiguration: cfg.ProtocolConfiguration}, logger)
	require.NoError(t, err)
	go bc.Run()
	t.Cleanup(bc.Close)

	serverConfig, err := network.NewServerConfig(config.Config{ProtocolConfiguration: cfg.ProtocolConfiguration})
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "something")
	netSrv, err := network.NewServer(serverConfig, bc, bc.GetStateSyncModule(), logger)
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                logger,
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 bc,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	netSrv.Start()

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(bc, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()
	t.Cleanup(rpcServer.Shutdown)

	rpcClient, err := rpcclient.NewInternal(context.TODO(), rpcServer.RegisterLocal)
	require.NoError(t, err)
	require.NoError(t, rpcClient.Init())

	return rpcClient, validatorMulti
}

func TestDeploy(t *testing.T) {
	rpcClient, acc := runNode(t)

	owner, err := wallet.NewAccount()
	require.NoError(t, err)

	ctr := neotest.CompileFile(t, acc.ScriptHash(), tokenSrcPath, filepath.Join(tokenSrcPath, "config.yml"))

	prm := Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   rpcClient,
		LocalAccount: acc,
		Common: CommonDeployPrm{
			NEF:      *ctr.NEF,
			Manifest: *ctr.Manifest,
		},
		Token: TokenPrm{
			Owner:       owner.ScriptHash(),
			TotalSupply: big.NewInt(1_000_000_000_000_000),
			Metadata: token.Metadata{
				Spec:     token.MetadataSpec,
				Name:     "Example Coin",
				Symbol:   "EXC",
				Decimals: big.NewInt(8),
			},
		},
	}

	ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
	defer cancel()

	addr, err := Deploy(ctx, prm)
	require.NoError(t, err)

	st, err := rpcClient.GetContractStateByHash(addr)
	require.NoError(t, err)
	require.Equal(t, ctr.NEF.Checksum, st.NEF.Checksum)

	reader := token.NewReader(invoker.New(rpcClient, nil), addr)

	supply, err := reader.TotalSupply()
	require.NoError(t, err)
	require.Zero(t, supply.Cmp(prm.Token.TotalSupply))

	bal, err := reader.BalanceOf(prm.Token.Owner)
	require.NoError(t, err)
	require.Zero(t, bal.Cmp(prm.Token.TotalSupply))

	sym, err := reader.Symbol()
	require.NoError(t, err)
	require.Equal(t, "EXC", sym)

	// same contract at the same address, nothing to do
	addr2, err := Deploy(ctx, prm)
	require.NoError(t, err)
	require.Equal(t, addr, addr2)

	st2, err := rpcClient.GetContractStateByHash(addr)
	require.NoError(t, err)
	require.Equal(t, st.UpdateCounter, st2.UpdateCounter)
	require.Equal(t, st.ID, st2.ID)
}
