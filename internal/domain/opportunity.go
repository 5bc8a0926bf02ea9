package domain

import (
	"math/big"
	"time"
)

const (
	// USDCScale converts raw USDC amounts (6 decimals) to human units.
	USDCScale = 1_000_000

	// DefaultSanityFloor is the minimum raw quote treated as usable.
	// A venue reporting less than one whole USDC for the configured
	// trade size is returning a degenerate read, not a price.
	DefaultSanityFloor = 1_000_000
)

// Quote is the output amount one venue reports for the fixed-size swap
// path. Amount is in the quote token's smallest unit. Quotes are
// produced fresh each tick and never persisted.
type Quote struct {
	Venue  Venue
	Amount *big.Int
}

// ZeroQuote is the substitute recorded when a venue's call fails.
// A zero amount never passes the evaluator's validity gate.
func ZeroQuote(v Venue) Quote {
	return Quote{Venue: v, Amount: new(big.Int)}
}

// ArbitrageOpportunity is a detected cross-venue price discrepancy whose
// gas-adjusted profit exceeded the configured threshold.
// Corresponds to the arbitrage_opportunities table.
type ArbitrageOpportunity struct {
	ID         int64     // assigned by the store
	BuyDEX     Venue     // venue quoting the lower output
	SellDEX    Venue     // venue quoting the higher output
	ProfitUSDC float64   // net of simulated gas cost, human units
	Timestamp  time.Time // detection time, UTC
}
