// Package redis provides a token repository on Redis. The key TTL tracks the
// record deadline, so expiry needs no sweeping.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillbridge-web/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "skillbridge:session:"

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (r *TokenRepository) Save(ctx context.Context, record *domain.TokenRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refusing to save expired token record")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode token record: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(record.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, token string) (*domain.TokenRecord, error) {
	value, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session token: %w", err)
	}

	record := &domain.TokenRecord{}
	if err := json.Unmarshal([]byte(value), record); err != nil {
		return nil, fmt.Errorf("failed to decode token record: %w", err)
	}
	if record.Expired(time.Now()) {
		return nil, domain.ErrTokenNotFound
	}
	return record, nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis evicts keys when their TTL lapses
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
