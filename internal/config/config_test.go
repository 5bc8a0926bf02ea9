package config

import (
	"math"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
rpc_url = "https://rpc.example.org"

[simulation]
min_profit_threshold = 0.05
check_interval_secs = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.org", cfg.RPCURL)
	assert.Equal(t, 0.05, cfg.Simulation.MinProfitThreshold)
	assert.Equal(t, int64(30), cfg.Simulation.CheckIntervalSecs)

	// Untouched fields keep their defaults.
	assert.Equal(t, int64(1_000_000_000_000_000_000), cfg.Simulation.FixedTradeSize)
	assert.Equal(t, "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff", cfg.DexAddresses.QuickswapRouter)
	assert.Equal(t, "info", cfg.Detector.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	path := writeTempConfig(t, `
rpc_url = "https://from-toml.example.org"

[detector]
log_level = "warn"
`)

	t.Setenv("DETECTOR_RPC_URL", "https://from-env.example.org")
	t.Setenv("DETECTOR_LOG_LEVEL", "debug")
	t.Setenv("DETECTOR_FIXED_TRADE_SIZE", "500000000000000000")
	t.Setenv("DETECTOR_SIMULATED_GAS_COST", "0.05")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.org", cfg.RPCURL)
	assert.Equal(t, "debug", cfg.Detector.LogLevel)
	assert.Equal(t, int64(500_000_000_000_000_000), cfg.Simulation.FixedTradeSize)
	assert.Equal(t, 0.05, cfg.Simulation.SimulatedGasCost)
}

func TestLoad_BadEnvValueIgnored(t *testing.T) {
	path := writeTempConfig(t, `rpc_url = "https://rpc.example.org"`)

	t.Setenv("DETECTOR_CHECK_INTERVAL_SECS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.Simulation.CheckIntervalSecs)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty rpc url",
			mutate:  func(c *Config) { c.RPCURL = "" },
			wantMsg: "rpc_url",
		},
		{
			name:    "bad router address",
			mutate:  func(c *Config) { c.DexAddresses.QuickswapRouter = "not-an-address" },
			wantMsg: "quickswap_router",
		},
		{
			name: "identical router addresses",
			mutate: func(c *Config) {
				c.DexAddresses.SushiswapRouter = c.DexAddresses.QuickswapRouter
			},
			wantMsg: "must differ",
		},
		{
			name:    "bad token address",
			mutate:  func(c *Config) { c.TokenAddresses.USDC = "0x123" },
			wantMsg: "usdc",
		},
		{
			name:    "zero trade size",
			mutate:  func(c *Config) { c.Simulation.FixedTradeSize = 0 },
			wantMsg: "fixed_trade_size",
		},
		{
			name:    "negative gas cost",
			mutate:  func(c *Config) { c.Simulation.SimulatedGasCost = -0.01 },
			wantMsg: "simulated_gas_cost",
		},
		{
			name:    "nan gas cost",
			mutate:  func(c *Config) { c.Simulation.SimulatedGasCost = math.NaN() },
			wantMsg: "simulated_gas_cost must be a finite number",
		},
		{
			name:    "infinite profit threshold",
			mutate:  func(c *Config) { c.Simulation.MinProfitThreshold = math.Inf(1) },
			wantMsg: "min_profit_threshold must be a finite number",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Simulation.CheckIntervalSecs = 0 },
			wantMsg: "check_interval_secs",
		},
		{
			name:    "zero sanity floor",
			mutate:  func(c *Config) { c.Detector.SanityFloor = 0 },
			wantMsg: "sanity_floor must be > 0",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Detector.LogLevel = "verbose" },
			wantMsg: "log_level",
		},
		{
			name:    "empty abi path",
			mutate:  func(c *Config) { c.Detector.ABIPath = "" },
			wantMsg: "abi_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfig_Accessors(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 10*time.Second, cfg.CheckInterval())
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout())

	want := new(big.Int)
	want.SetString("1000000000000000000", 10)
	assert.Zero(t, want.Cmp(cfg.TradeSize()))

	path := cfg.TradePath()
	require.Len(t, path, 2)
	assert.Equal(t, common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"), path[0])
	assert.Equal(t, common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), path[1])

	assert.Equal(t, common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"), cfg.QuickswapRouterAddress())
	assert.Equal(t, common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"), cfg.SushiswapRouterAddress())
}
