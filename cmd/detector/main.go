package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/config"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/detector"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/dex"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/observability"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/poller"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage/memory"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage/migrations"
	pgstore "github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	once := flag.Bool("once", false, "Run a single price check and exit")
	dryRun := flag.Bool("dry-run", false, "Detect and log opportunities without persisting them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Detector.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal main goroutine completion
	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Warn("received second signal, forcing immediate shutdown", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Error("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, cfg, *useMemory, *once, *dryRun)

	// Signal completion to shutdown handler
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("detector failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// newLogger builds a production JSON logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// run wires storage, the RPC client, and the routers together and drives
// the detection loop until ctx is cancelled.
func run(ctx context.Context, logger *zap.Logger, cfg *config.Config, useMemory, once, dryRun bool) error {
	// Create store
	var store storage.OpportunityStore = memory.NewOpportunityStore()

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, cfg.Detector.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		store = pgstore.NewOpportunityStore(pool)
		logger.Info("connected to postgres")
	} else {
		logger.Info("using in-memory storage, opportunities will not survive restart")
	}

	// Connect to the chain
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dial rpc %s: %w", cfg.RPCURL, err)
	}
	defer client.Close()
	logger.Info("connected to rpc", zap.String("url", cfg.RPCURL))

	routerABI, err := dex.LoadRouterABI(cfg.Detector.ABIPath)
	if err != nil {
		return fmt.Errorf("load router abi: %w", err)
	}

	quickswap := dex.NewRouter(domain.VenueQuickSwap, cfg.QuickswapRouterAddress(), routerABI, client)
	sushiswap := dex.NewRouter(domain.VenueSushiSwap, cfg.SushiswapRouterAddress(), routerABI, client)
	fetcher := dex.NewQuoteFetcher(quickswap, sushiswap)

	evaluator := detector.NewEvaluator(detector.EvaluatorOptions{
		GasCostUSDC:        cfg.Simulation.SimulatedGasCost,
		MinProfitThreshold: cfg.Simulation.MinProfitThreshold,
		SanityFloor:        big.NewInt(cfg.Detector.SanityFloor),
	})

	runner := poller.NewRunner(poller.RunnerOptions{
		Source:       fetcher,
		Evaluator:    evaluator,
		Store:        store,
		Interval:     cfg.CheckInterval(),
		QuoteTimeout: cfg.QuoteTimeout(),
		TradeSize:    cfg.TradeSize(),
		Path:         cfg.TradePath(),
		DryRun:       dryRun,
		Logger:       logger,
	})

	if once {
		return runner.RunOnce(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)

	// Start metrics server if enabled
	if cfg.Detector.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		srv := &http.Server{Addr: cfg.Detector.MetricsAddr, Handler: mux}

		g.Go(func() error {
			logger.Info("starting metrics server", zap.String("addr", cfg.Detector.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return runner.Run(gctx)
	})

	return g.Wait()
}
