// Package storage provides the AccountStore implementations: an in-memory
// map (the default) and a Postgres-backed variant behind the same contract.
package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
)

// MemoryStore keeps accounts in a map guarded by a RWMutex. It deep-copies
// on the way in and on the way out, so stored state is never shared with a
// caller.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[uuid.UUID]*domain.Account)}
}

// Save upserts by id and returns the stored account.
func (s *MemoryStore) Save(_ context.Context, a *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a.Clone()
	return a.Clone(), nil
}

// FindByID returns a copy of the account or domain.ErrAccountNotFound.
func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}
