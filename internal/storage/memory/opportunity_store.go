package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/domain"
	"github.com/kapilBaser/Polygon-Opportunity-Detector-Bot/internal/storage"
)

// OpportunityStore is an in-memory implementation of storage.OpportunityStore.
type OpportunityStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.ArbitrageOpportunity // keyed by assigned id
}

// NewOpportunityStore creates a new in-memory opportunity store.
func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{
		nextID: 1,
		data:   make(map[int64]*domain.ArbitrageOpportunity),
	}
}

// Insert appends a new opportunity and returns the assigned id.
func (s *OpportunityStore) Insert(_ context.Context, o *domain.ArbitrageOpportunity) (int64, error) {
	if o == nil || !o.BuyDEX.IsValid() || !o.SellDEX.IsValid() || o.BuyDEX == o.SellDEX {
		return 0, storage.ErrInvalidInput
	}
	if o.ProfitUSDC < 0 || o.Timestamp.IsZero() {
		return 0, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	copy := *o
	copy.ID = id
	s.data[id] = &copy
	return id, nil
}

// GetByID retrieves an opportunity by id. Returns ErrNotFound if not exists.
func (s *OpportunityStore) GetByID(_ context.Context, id int64) (*domain.ArbitrageOpportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *o
	return &copy, nil
}

// List retrieves opportunities newest first.
func (s *OpportunityStore) List(_ context.Context, limit, offset int) ([]*domain.ArbitrageOpportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ArbitrageOpportunity
	for _, o := range s.data {
		copy := *o
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})

	if offset > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		result = result[offset:]
	}
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

// Count returns the total number of persisted opportunities.
func (s *OpportunityStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.OpportunityStore = (*OpportunityStore)(nil)
