package detector

import (
	"math"
	"math/big"
	"time"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
)

// Evaluator turns two venue quotes into a directional arbitrage verdict.
// Pure computation, no I/O. All comparisons run on raw integers; the
// single float conversion happens when the final profit is expressed in
// human units.
type Evaluator struct {
	gasRaw      *big.Int
	threshold   float64
	sanityFloor *big.Int
	scale       *big.Int
	now         func() time.Time
}

// EvaluatorOptions configure an Evaluator. Zero values fall back to the
// 6-decimal USDC defaults.
type EvaluatorOptions struct {
	// GasCostUSDC is the simulated gas cost charged against the spread,
	// in human units.
	GasCostUSDC float64

	// MinProfitThreshold is the strict lower bound, in human units, a
	// profit must exceed to be recorded.
	MinProfitThreshold float64

	// SanityFloor is the minimum usable raw quote. Must be positive; a
	// floor of zero would let the zero substitute for a failed venue
	// call through the validity gate.
	SanityFloor *big.Int

	// Scale is the number of raw units per human unit of the quote token.
	Scale int64

	// Now supplies opportunity timestamps.
	Now func() time.Time
}

// NewEvaluator creates an evaluator with the given fixed parameters.
func NewEvaluator(opts EvaluatorOptions) *Evaluator {
	if opts.SanityFloor == nil || opts.SanityFloor.Sign() <= 0 {
		opts.SanityFloor = big.NewInt(domain.DefaultSanityFloor)
	}
	if opts.Scale <= 0 {
		opts.Scale = domain.USDCScale
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Evaluator{
		gasRaw:      gasCostRaw(opts.GasCostUSDC, opts.Scale),
		threshold:   opts.MinProfitThreshold,
		sanityFloor: new(big.Int).Set(opts.SanityFloor),
		scale:       big.NewInt(opts.Scale),
		now:         opts.Now,
	}
}

// Evaluate applies the validity gate, picks the trade direction from the
// raw quotes, and nets the simulated gas cost out of the spread.
func (e *Evaluator) Evaluate(a, b domain.Quote) Result {
	if !e.usable(a) || !e.usable(b) {
		return Result{Outcome: OutcomeInvalidQuote}
	}

	cmp := a.Amount.Cmp(b.Amount)
	if cmp == 0 {
		return Result{Outcome: OutcomeNoSpread}
	}

	// Buy where the output is quoted lower, sell where it is quoted
	// higher. Decided on raw integers so near-equal quotes cannot flip
	// direction through float rounding.
	buy, sell := a, b
	if cmp > 0 {
		buy, sell = b, a
	}

	spread := new(big.Int).Sub(sell.Amount, buy.Amount)

	profitRaw := new(big.Int)
	if spread.Cmp(e.gasRaw) > 0 {
		profitRaw.Sub(spread, e.gasRaw)
	}

	profitUSDC := rawToHuman(profitRaw, e.scale)

	res := Result{
		Outcome:    OutcomeBelowThreshold,
		BuyDEX:     buy.Venue,
		SellDEX:    sell.Venue,
		SpreadRaw:  spread,
		ProfitRaw:  profitRaw,
		ProfitUSDC: profitUSDC,
	}

	if profitUSDC > e.threshold {
		res.Outcome = OutcomeOpportunity
		res.Opportunity = &domain.ArbitrageOpportunity{
			BuyDEX:     buy.Venue,
			SellDEX:    sell.Venue,
			ProfitUSDC: profitUSDC,
			Timestamp:  e.now().UTC(),
		}
	}

	return res
}

// usable reports whether a quote clears the sanity floor.
func (e *Evaluator) usable(q domain.Quote) bool {
	return q.Amount != nil && q.Amount.Cmp(e.sanityFloor) >= 0
}

// gasCostRaw converts the configured gas cost to raw units, truncating
// toward zero. NaN and negative inputs count as zero gas; products
// beyond the int64 range saturate.
func gasCostRaw(gasUSDC float64, scale int64) *big.Int {
	product := gasUSDC * float64(scale)
	switch {
	case math.IsNaN(product) || product <= 0:
		return new(big.Int)
	case product >= math.MaxInt64:
		return big.NewInt(math.MaxInt64)
	default:
		return big.NewInt(int64(product))
	}
}

// rawToHuman divides a raw amount by the scale, correctly rounded to
// the nearest float64.
func rawToHuman(raw, scale *big.Int) float64 {
	v, _ := new(big.Rat).SetFrac(raw, scale).Float64()
	return v
}
