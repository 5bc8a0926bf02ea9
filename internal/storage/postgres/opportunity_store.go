package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
)

// OpportunityStore implements storage.OpportunityStore using PostgreSQL.
type OpportunityStore struct {
	pool *Pool
}

// NewOpportunityStore creates a new OpportunityStore.
func NewOpportunityStore(pool *Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OpportunityStore = (*OpportunityStore)(nil)

// Insert appends a new opportunity and returns the assigned id.
func (s *OpportunityStore) Insert(ctx context.Context, o *domain.ArbitrageOpportunity) (int64, error) {
	if o == nil || !o.BuyDEX.IsValid() || !o.SellDEX.IsValid() || o.BuyDEX == o.SellDEX {
		return 0, storage.ErrInvalidInput
	}
	if o.ProfitUSDC < 0 || o.Timestamp.IsZero() {
		return 0, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO arbitrage_opportunities (buy_dex, sell_dex, profit_usdc, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		o.BuyDEX.String(), o.SellDEX.String(), o.ProfitUSDC, o.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert opportunity: %w", err)
	}
	return id, nil
}

// GetByID retrieves an opportunity by id. Returns ErrNotFound if not exists.
func (s *OpportunityStore) GetByID(ctx context.Context, id int64) (*domain.ArbitrageOpportunity, error) {
	query := `
		SELECT id, buy_dex, sell_dex, profit_usdc, created_at
		FROM arbitrage_opportunities
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity by id: %w", err)
	}
	return o, nil
}

// List retrieves opportunities newest first. limit <= 0 means no
// limit; a negative offset reads from the top.
func (s *OpportunityStore) List(ctx context.Context, limit, offset int) ([]*domain.ArbitrageOpportunity, error) {
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, buy_dex, sell_dex, profit_usdc, created_at
		FROM arbitrage_opportunities
		ORDER BY id DESC
		OFFSET $1
	`
	args := []any{offset}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	return scanOpportunities(rows)
}

// Count returns the total number of persisted opportunities.
func (s *OpportunityStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM arbitrage_opportunities`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count opportunities: %w", err)
	}
	return n, nil
}

// scanOpportunity scans a single row into an ArbitrageOpportunity.
func scanOpportunity(row pgx.Row) (*domain.ArbitrageOpportunity, error) {
	var (
		o       domain.ArbitrageOpportunity
		buyDEX  string
		sellDEX string
	)

	if err := row.Scan(&o.ID, &buyDEX, &sellDEX, &o.ProfitUSDC, &o.Timestamp); err != nil {
		return nil, err
	}

	o.BuyDEX = domain.Venue(buyDEX)
	o.SellDEX = domain.Venue(sellDEX)
	return &o, nil
}

// scanOpportunities scans multiple rows into a slice of ArbitrageOpportunity.
func scanOpportunities(rows pgx.Rows) ([]*domain.ArbitrageOpportunity, error) {
	var result []*domain.ArbitrageOpportunity

	for rows.Next() {
		var (
			o       domain.ArbitrageOpportunity
			buyDEX  string
			sellDEX string
		)

		if err := rows.Scan(&o.ID, &buyDEX, &sellDEX, &o.ProfitUSDC, &o.Timestamp); err != nil {
			return nil, fmt.Errorf("scan opportunity row: %w", err)
		}

		o.BuyDEX = domain.Venue(buyDEX)
		o.SellDEX = domain.Venue(sellDEX)
		result = append(result, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunity rows: %w", err)
	}

	return result, nil
}
