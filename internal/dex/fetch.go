package dex

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
)

// QuoteResult is the tagged outcome of one venue's quote call: either a
// quote or the reason it could not be produced. The caller decides the
// substitution policy; a failed call is not an abort.
type QuoteResult struct {
	Venue domain.Venue
	Quote domain.Quote
	Err   error
}

// QuoteFetcher issues the per-venue router calls for one tick.
type QuoteFetcher struct {
	routers []*Router
}

// NewQuoteFetcher creates a fetcher over the given routers.
func NewQuoteFetcher(routers ...*Router) *QuoteFetcher {
	return &QuoteFetcher{routers: routers}
}

// Fetch asks every venue concurrently and waits until all calls have
// resolved. Results are returned in router order.
func (f *QuoteFetcher) Fetch(ctx context.Context, amountIn *big.Int, path []common.Address) []QuoteResult {
	results := make([]QuoteResult, len(f.routers))

	var wg sync.WaitGroup
	for i, r := range f.routers {
		wg.Add(1)
		go func(i int, r *Router) {
			defer wg.Done()
			q, err := r.Quote(ctx, amountIn, path)
			results[i] = QuoteResult{Venue: r.Venue(), Quote: q, Err: err}
		}(i, r)
	}
	wg.Wait()

	return results
}
