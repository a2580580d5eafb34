package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTokenNotFound  = errors.New("session token not found")
	ErrSessionInvalid = errors.New("session no longer valid")
)

// TokenLifetime matches the 1-day expiry of the session cookie. The durable
// record and the cookie always carry the same deadline.
const TokenLifetime = 24 * time.Hour

// TokenRecord is the durable half of a session: the opaque bearer token issued
// by the backend on login. The user profile is deliberately not part of the
// record; it is re-derived from the token on validation.
type TokenRecord struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record's deadline has passed
func (r *TokenRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// TokenRepository is the durable key/value store for session tokens.
// Get must return ErrTokenNotFound for missing or expired tokens.
// Delete is a no-op for tokens that are already gone.
type TokenRepository interface {
	Save(ctx context.Context, record *TokenRecord) error
	Get(ctx context.Context, token string) (*TokenRecord, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
