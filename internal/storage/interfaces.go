package storage

import (
	"context"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
)

// OpportunityStore provides access to arbitrage_opportunities storage.
// The table is append-only: records are never updated or deleted.
type OpportunityStore interface {
	// Insert appends a new opportunity and returns the id the store
	// assigned. The record is durable once Insert returns. Returns
	// ErrInvalidInput if required fields are missing or inconsistent.
	Insert(ctx context.Context, o *domain.ArbitrageOpportunity) (int64, error)

	// GetByID retrieves an opportunity by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.ArbitrageOpportunity, error)

	// List retrieves opportunities newest first. limit <= 0 means no limit,
	// offset skips that many records from the top. A negative offset is
	// treated as zero.
	List(ctx context.Context, limit, offset int) ([]*domain.ArbitrageOpportunity, error)

	// Count returns the total number of persisted opportunities.
	Count(ctx context.Context) (int64, error)
}
