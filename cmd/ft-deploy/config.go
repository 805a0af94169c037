package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/nspcc-dev/ft-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const defaultDialTimeout = 15 * time.Second

type config struct {
	RPC      rpcConfig      `yaml:"rpc"`
	Wallet   walletConfig   `yaml:"wallet"`
	Contract contractConfig `yaml:"contract"`
	Token    tokenConfig    `yaml:"token"`
	Logger   loggerConfig   `yaml:"logger"`
}

type rpcConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type walletConfig struct {
	Path     string `yaml:"path"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

type contractConfig struct {
	// Directory with contract.nef and manifest.json.
	Dir string `yaml:"dir"`
}

type tokenConfig struct {
	Owner       string         `yaml:"owner"`
	TotalSupply string         `yaml:"total_supply"`
	Metadata    metadataConfig `yaml:"metadata"`
}

type metadataConfig struct {
	Spec          string `yaml:"spec"`
	Name          string `yaml:"name"`
	Symbol        string `yaml:"symbol"`
	Icon          string `yaml:"icon"`
	Reference     string `yaml:"reference"`
	ReferenceHash string `yaml:"reference_hash"`
	Decimals      uint8  `yaml:"decimals"`
}

type loggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func readConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	cfg := &config{
		RPC: rpcConfig{
			DialTimeout:    defaultDialTimeout,
			RequestTimeout: defaultDialTimeout,
		},
		Logger: loggerConfig{
			Level:  "info",
			Format: "console",
		},
	}

	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode YAML config: %w", err)
	}

	switch {
	case cfg.RPC.Endpoint == "":
		return nil, errors.New("missing RPC endpoint")
	case cfg.Wallet.Path == "":
		return nil, errors.New("missing wallet path")
	case cfg.Contract.Dir == "":
		return nil, errors.New("missing contract directory")
	}

	if cfg.Token.Metadata.Spec == "" {
		cfg.Token.Metadata.Spec = token.MetadataSpec
	}

	return cfg, nil
}

// owner returns token owner script hash. Empty owner means the signing account.
func (c tokenConfig) owner(def util.Uint160) (util.Uint160, error) {
	if c.Owner == "" {
		return def, nil
	}

	h, err := address.StringToUint160(c.Owner)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid owner address: %w", err)
	}

	return h, nil
}

func (c tokenConfig) totalSupply() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.TotalSupply, 10)
	if !ok {
		return nil, fmt.Errorf("invalid total supply %q", c.TotalSupply)
	}

	return v, nil
}

func (c metadataConfig) metadata() (token.Metadata, error) {
	m := token.Metadata{
		Spec:      c.Spec,
		Name:      c.Name,
		Symbol:    c.Symbol,
		Icon:      c.Icon,
		Reference: c.Reference,
		Decimals:  big.NewInt(int64(c.Decimals)),
	}

	if c.ReferenceHash != "" {
		h, err := hex.DecodeString(c.ReferenceHash)
		if err != nil {
			return m, fmt.Errorf("invalid reference hash: %w", err)
		}
		m.ReferenceHash = h
	}

	return m, m.Validate()
}

func newLogger(cfg loggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}
