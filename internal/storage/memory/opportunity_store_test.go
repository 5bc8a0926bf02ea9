package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
)

func testOpportunity(profit float64) *domain.ArbitrageOpportunity {
	return &domain.ArbitrageOpportunity{
		BuyDEX:     domain.VenueSushiSwap,
		SellDEX:    domain.VenueQuickSwap,
		ProfitUSDC: profit,
		Timestamp:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOpportunityStore_InsertAndGet(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, testOpportunity(0.03))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected first id 1, got %d", id)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.ID != id {
		t.Errorf("ID mismatch: got %d, want %d", got.ID, id)
	}
	if got.BuyDEX != domain.VenueSushiSwap || got.SellDEX != domain.VenueQuickSwap {
		t.Errorf("Venue mismatch: got buy=%s sell=%s", got.BuyDEX, got.SellDEX)
	}
	if got.ProfitUSDC != 0.03 {
		t.Errorf("ProfitUSDC mismatch: got %f, want %f", got.ProfitUSDC, 0.03)
	}
}

func TestOpportunityStore_IDsIncrease(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	var last int64
	for i := 0; i < 3; i++ {
		id, err := store.Insert(ctx, testOpportunity(0.05))
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
		if id <= last {
			t.Errorf("Expected increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}

func TestOpportunityStore_NotFound(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, 42)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOpportunityStore_InsertDoesNotAliasCaller(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	o := testOpportunity(0.10)
	id, err := store.Insert(ctx, o)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the caller's record must not affect the stored copy.
	o.ProfitUSDC = 99.0

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ProfitUSDC != 0.10 {
		t.Errorf("Stored record aliased caller memory: got %f", got.ProfitUSDC)
	}
}

func TestOpportunityStore_ListNewestFirst(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Insert(ctx, testOpportunity(float64(i+1))); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	all, err := store.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID <= all[i].ID {
			t.Errorf("Results not ordered newest first at index %d", i)
		}
	}

	page, err := store.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("List with limit/offset failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page))
	}
	if page[0].ID != 4 || page[1].ID != 3 {
		t.Errorf("Expected ids [4 3], got [%d %d]", page[0].ID, page[1].ID)
	}

	// A negative offset reads from the top instead of erroring.
	neg, err := store.List(ctx, 2, -3)
	if err != nil {
		t.Fatalf("List with negative offset failed: %v", err)
	}
	if len(neg) != 2 || neg[0].ID != 5 {
		t.Errorf("Expected negative offset to read from the top, got %v", neg)
	}

	empty, err := store.List(ctx, 10, 100)
	if err != nil {
		t.Fatalf("List past end failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no records past end, got %d", len(empty))
	}
}

func TestOpportunityStore_Count(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0, got %d", n)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Insert(ctx, testOpportunity(0.02)); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	n, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3, got %d", n)
	}
}

func TestOpportunityStore_InvalidInput(t *testing.T) {
	store := NewOpportunityStore()
	ctx := context.Background()

	if _, err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}

	same := testOpportunity(0.03)
	same.SellDEX = same.BuyDEX
	if _, err := store.Insert(ctx, same); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for identical venues, got %v", err)
	}

	unknown := testOpportunity(0.03)
	unknown.BuyDEX = "Bancor"
	if _, err := store.Insert(ctx, unknown); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown venue, got %v", err)
	}

	negative := testOpportunity(-0.01)
	if _, err := store.Insert(ctx, negative); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for negative profit, got %v", err)
	}

	noTime := testOpportunity(0.03)
	noTime.Timestamp = time.Time{}
	if _, err := store.Insert(ctx, noTime); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero timestamp, got %v", err)
	}
}
