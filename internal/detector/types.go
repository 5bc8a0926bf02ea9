package detector

import (
	"math/big"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
)

// Outcome classifies one tick's evaluation.
type Outcome string

const (
	// OutcomeOpportunity: gas-adjusted profit strictly exceeded the
	// threshold; a record should be persisted.
	OutcomeOpportunity Outcome = "OPPORTUNITY"

	// OutcomeBelowThreshold: a direction existed but the profit did not
	// strictly exceed the threshold.
	OutcomeBelowThreshold Outcome = "BELOW_THRESHOLD"

	// OutcomeNoSpread: both venues quoted the same amount.
	OutcomeNoSpread Outcome = "NO_SPREAD"

	// OutcomeInvalidQuote: at least one quote was missing or below the
	// sanity floor. The tick is discarded without comparison.
	OutcomeInvalidQuote Outcome = "INVALID_QUOTE"
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result is the evaluator's verdict for one tick. Direction and amounts
// are set for NO_SPREAD-free, valid ticks; Opportunity is populated only
// when Outcome is OutcomeOpportunity.
type Result struct {
	Outcome     Outcome
	BuyDEX      domain.Venue
	SellDEX     domain.Venue
	SpreadRaw   *big.Int // |quoteA - quoteB|, raw units
	ProfitRaw   *big.Int // spread minus gas, floored at zero
	ProfitUSDC  float64  // ProfitRaw in human units
	Opportunity *domain.ArbitrageOpportunity
}
