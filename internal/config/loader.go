package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies DETECTOR_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known DETECTOR_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.RPCURL, "DETECTOR_RPC_URL")

	setStr(&cfg.DexAddresses.QuickswapRouter, "DETECTOR_QUICKSWAP_ROUTER")
	setStr(&cfg.DexAddresses.SushiswapRouter, "DETECTOR_SUSHISWAP_ROUTER")

	setStr(&cfg.TokenAddresses.WETH, "DETECTOR_WETH_ADDRESS")
	setStr(&cfg.TokenAddresses.USDC, "DETECTOR_USDC_ADDRESS")

	setFloat64(&cfg.Simulation.MinProfitThreshold, "DETECTOR_MIN_PROFIT_THRESHOLD")
	setInt64(&cfg.Simulation.FixedTradeSize, "DETECTOR_FIXED_TRADE_SIZE")
	setFloat64(&cfg.Simulation.SimulatedGasCost, "DETECTOR_SIMULATED_GAS_COST")
	setInt64(&cfg.Simulation.CheckIntervalSecs, "DETECTOR_CHECK_INTERVAL_SECS")

	setInt64(&cfg.Detector.SanityFloor, "DETECTOR_SANITY_FLOOR")
	setInt64(&cfg.Detector.QuoteTimeoutSecs, "DETECTOR_QUOTE_TIMEOUT_SECS")
	setStr(&cfg.Detector.ABIPath, "DETECTOR_ABI_PATH")
	setStr(&cfg.Detector.DatabaseURL, "DETECTOR_DATABASE_URL")
	setStr(&cfg.Detector.LogLevel, "DETECTOR_LOG_LEVEL")
	setStr(&cfg.Detector.MetricsAddr, "DETECTOR_METRICS_ADDR")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
