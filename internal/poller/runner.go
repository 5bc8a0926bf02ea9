// Package poller drives the fixed-interval detection loop: fetch quotes
// from every venue, evaluate them for an arbitrage opportunity, and
// persist anything that clears the profit threshold.
package poller

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/detector"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/dex"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/observability"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
)

// QuoteSource produces one tagged quote result per venue for a single tick.
type QuoteSource interface {
	Fetch(ctx context.Context, amountIn *big.Int, path []common.Address) []dex.QuoteResult
}

// Runner polls both venues on a fixed interval and records opportunities.
// Ticks are strictly serialized: a tick runs to completion before the
// next one starts.
type Runner struct {
	source       QuoteSource
	evaluator    *detector.Evaluator
	store        storage.OpportunityStore
	interval     time.Duration
	quoteTimeout time.Duration
	tradeSize    *big.Int
	path         []common.Address
	dryRun       bool
	logger       *zap.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	// Source produces venue quotes. Required.
	Source QuoteSource

	// Evaluator turns a pair of quotes into a detection result. Required.
	Evaluator *detector.Evaluator

	// Store receives detected opportunities. Required.
	Store storage.OpportunityStore

	// Interval between poll ticks. Default: 10s.
	Interval time.Duration

	// QuoteTimeout bounds the quote fetch within a tick.
	// Default: the poll interval.
	QuoteTimeout time.Duration

	// TradeSize is the fixed input amount in raw base-token units. Required.
	TradeSize *big.Int

	// Path is the swap path quoted on every venue, base token first. Required.
	Path []common.Address

	// DryRun evaluates and logs opportunities without persisting them.
	DryRun bool

	// Logger for structured output. Default: no-op logger.
	Logger *zap.Logger
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts RunnerOptions) *Runner {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	quoteTimeout := opts.QuoteTimeout
	if quoteTimeout <= 0 {
		quoteTimeout = interval
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		source:       opts.Source,
		evaluator:    opts.Evaluator,
		store:        opts.Store,
		interval:     interval,
		quoteTimeout: quoteTimeout,
		tradeSize:    opts.TradeSize,
		path:         opts.Path,
		dryRun:       opts.DryRun,
		logger:       logger,
	}
}

// Run executes the poll loop until the context is cancelled. The first
// tick fires immediately, the rest follow the configured interval. A
// failed tick is logged and the loop keeps going.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting detection loop",
		zap.Duration("interval", r.interval),
		zap.Duration("quote_timeout", r.quoteTimeout),
		zap.String("trade_size", r.tradeSize.String()),
		zap.Bool("dry_run", r.dryRun),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("detection loop stopping")
			return ctx.Err()
		case <-ticker.C:
			r.runTick(ctx)
		}
	}
}

// RunOnce executes a single fetch-evaluate-persist cycle.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.tick(ctx)
}

func (r *Runner) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := r.tick(ctx); err != nil {
		r.logger.Error("tick failed", zap.Error(err))
	}
}

// tick runs one full detection cycle. Quote fetch errors degrade to a
// zero quote and never abort the tick; a store write failure does fail
// the tick so the caller can report it.
func (r *Runner) tick(ctx context.Context) error {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, r.quoteTimeout)
	defer cancel()

	fetchStart := time.Now()
	results := r.source.Fetch(fetchCtx, r.tradeSize, r.path)
	observability.RecordQuoteFetchDuration(time.Since(fetchStart).Seconds())

	if len(results) != 2 {
		return fmt.Errorf("quote source returned %d results, want 2", len(results))
	}

	quotes := make([]domain.Quote, len(results))
	for i, res := range results {
		if res.Err != nil {
			r.logger.Warn("quote fetch failed, substituting zero",
				zap.String("venue", res.Venue.String()),
				zap.Error(res.Err),
			)
			observability.RecordQuoteFetchFailure(res.Venue.String())
			quotes[i] = domain.ZeroQuote(res.Venue)
			continue
		}
		quotes[i] = res.Quote
	}

	r.logger.Debug("quotes fetched",
		zap.String("venue_a", quotes[0].Venue.String()),
		zap.String("amount_a", quotes[0].Amount.String()),
		zap.String("venue_b", quotes[1].Venue.String()),
		zap.String("amount_b", quotes[1].Amount.String()),
	)

	res := r.evaluator.Evaluate(quotes[0], quotes[1])
	err := r.handleResult(ctx, res, quotes)
	observability.RecordTick(res.Outcome.String(), time.Since(start).Seconds())
	return err
}

func (r *Runner) handleResult(ctx context.Context, res detector.Result, quotes []domain.Quote) error {
	switch res.Outcome {
	case detector.OutcomeInvalidQuote:
		r.logger.Warn("unusable quote data, tick discarded",
			zap.String("amount_a", quotes[0].Amount.String()),
			zap.String("amount_b", quotes[1].Amount.String()),
		)
		return nil

	case detector.OutcomeNoSpread:
		r.logger.Debug("venues quote identically, no spread")
		return nil

	case detector.OutcomeBelowThreshold:
		r.logger.Debug("spread below profit threshold",
			zap.String("buy_dex", res.BuyDEX.String()),
			zap.String("sell_dex", res.SellDEX.String()),
			zap.String("spread_raw", res.SpreadRaw.String()),
			zap.Float64("profit_usdc", res.ProfitUSDC),
		)
		return nil

	case detector.OutcomeOpportunity:
		return r.recordOpportunity(ctx, res)

	default:
		return fmt.Errorf("unknown detection outcome %q", res.Outcome)
	}
}

func (r *Runner) recordOpportunity(ctx context.Context, res detector.Result) error {
	opp := res.Opportunity
	r.logger.Info("arbitrage opportunity detected",
		zap.String("buy_dex", opp.BuyDEX.String()),
		zap.String("sell_dex", opp.SellDEX.String()),
		zap.Float64("profit_usdc", opp.ProfitUSDC),
		zap.String("spread_raw", res.SpreadRaw.String()),
		zap.String("profit_raw", res.ProfitRaw.String()),
		zap.Time("timestamp", opp.Timestamp),
	)
	observability.RecordOpportunityDetected(opp.ProfitUSDC)

	if r.dryRun {
		r.logger.Info("dry run, opportunity not persisted")
		return nil
	}

	id, err := r.store.Insert(ctx, opp)
	if err != nil {
		observability.RecordPersistFailure()
		return fmt.Errorf("persist opportunity (buy=%s sell=%s profit=%.6f): %w",
			opp.BuyDEX, opp.SellDEX, opp.ProfitUSDC, err)
	}
	observability.RecordOpportunityPersisted()

	r.logger.Info("opportunity persisted", zap.Int64("id", id))
	return nil
}
