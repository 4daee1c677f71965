package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/model"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory ContractStore used when no database is
// configured, and as the store double in handler tests.
type MemoryStore struct {
	contracts map[string]*model.Contract
	mu        sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	slog.Info("using in-memory contract store; data is not persisted")
	return &MemoryStore{contracts: make(map[string]*model.Contract)}
}

func (s *MemoryStore) Insert(ctx context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(contract)
	return nil
}

func (s *MemoryStore) InsertBatch(ctx context.Context, contracts []model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range contracts {
		s.insertLocked(&contracts[i])
	}
	return nil
}

// insertLocked assigns identity and timestamps. Must be called with the
// lock held.
func (s *MemoryStore) insertLocked(contract *model.Contract) {
	if contract.ID == "" {
		contract.ID = uuid.New().String()
	}
	now := time.Now()
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = now
	}
	contract.UpdatedAt = now
	clone := *contract
	s.contracts[contract.ID] = &clone
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) List(ctx context.Context, filter ListFilter) ([]*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Contract, 0)
	for _, c := range s.contracts {
		if !matchesFilter(c, filter) {
			continue
		}
		clone := *c
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ContractNumber < result[j].ContractNumber
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func matchesFilter(c *model.Contract, filter ListFilter) bool {
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.Category != "" && c.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(c.ContractNumber), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) &&
			!strings.Contains(strings.ToLower(c.Contractor), needle) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) Update(ctx context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contracts[contract.ID]
	if !ok {
		return ErrNotFound
	}
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = time.Now()
	clone := *contract
	s.contracts[contract.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts = make(map[string]*model.Contract)
	return nil
}

func (s *MemoryStore) Stats(ctx context.Context) (*model.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.DashboardStats{}
	for _, c := range s.contracts {
		stats.TotalContracts++
		stats.TotalValue += c.Value
		switch c.Status {
		case model.StatusActive:
			stats.ActiveContracts++
		case model.StatusCompleted:
			stats.CompletedContracts++
		}
	}
	return stats, nil
}

func (s *MemoryStore) ExpiringWithin(ctx context.Context, days int) ([]*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	result := make([]*model.Contract, 0)
	for _, c := range s.contracts {
		if c.Status != model.StatusActive {
			continue
		}
		left := c.DaysUntilExpiration(now)
		if left > 0 && left <= days {
			clone := *c
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EndDate < result[j].EndDate
	})

	return result, nil
}

// Count returns the number of contracts in the store
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

func (s *MemoryStore) Close() {}
