// Package memory provides an in-process token repository. It is the default
// backend for single-instance deployments and the base for tests; tokens do
// not survive a gateway restart.
package memory

import (
	"context"
	"sync"
	"time"

	"skillbridge-web/internal/domain"
)

// TokenRepository implements domain.TokenRepository over a mutex-guarded map
type TokenRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.TokenRecord
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		records: make(map[string]*domain.TokenRecord),
	}
}

func (r *TokenRepository) Save(ctx context.Context, record *domain.TokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	r.records[record.Token] = &stored
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, token string) (*domain.TokenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[token]
	if !ok || record.Expired(time.Now()) {
		return nil, domain.ErrTokenNotFound
	}

	copied := *record
	return &copied, nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, token)
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var deleted int64
	for token, record := range r.records {
		if record.Expired(now) {
			delete(r.records, token)
			deleted++
		}
	}
	return deleted, nil
}
