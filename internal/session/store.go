// Package session is the single source of truth for browser session state.
//
// A session is a bearer token issued by the SkillBridge backend plus the
// profile resolved from it. The token lives in two places that must move
// together: the durable token repository and the skillbridge-token cookie.
// Every mutation goes through the set/clear primitives below so the two can
// never diverge. The profile is only ever cached in memory; it is re-derived
// from the token, never persisted.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/messaging"
	"skillbridge-web/internal/observability"
	"skillbridge-web/internal/upstream"

	"golang.org/x/sync/singleflight"
)

// Backend is the slice of the upstream client the store needs
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Register(ctx context.Context, reg domain.Registration) (string, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

// Store owns the session lifecycle: login, register, logout, and validation
// of presented tokens against the backend.
type Store struct {
	tokens  domain.TokenRepository
	backend Backend
	events  messaging.Publisher

	mu       sync.RWMutex
	profiles map[string]*domain.User

	// collapses concurrent validations of the same token into one /auth/me call
	flight singleflight.Group
}

// NewStore creates a session store
func NewStore(tokens domain.TokenRepository, backend Backend, events messaging.Publisher) *Store {
	return &Store{
		tokens:   tokens,
		backend:  backend,
		events:   events,
		profiles: make(map[string]*domain.User),
	}
}

// Login exchanges credentials for a session. On success the token is persisted
// to the repository and the response cookie before the profile is fetched.
// If the profile fetch fails the token stays set and the error propagates;
// the caller decides whether to retry the profile fetch.
func (s *Store) Login(ctx context.Context, w http.ResponseWriter, creds domain.Credentials) (*domain.User, error) {
	token, err := s.backend.Login(ctx, creds)
	if err != nil {
		observability.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.setToken(ctx, w, token); err != nil {
		observability.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		observability.LoginsTotal.WithLabelValues("profile_failed").Inc()
		return nil, fmt.Errorf("profile fetch after login: %w", err)
	}
	s.cacheProfile(token, user)

	observability.LoginsTotal.WithLabelValues("success").Inc()
	observability.SessionsActive.Inc()
	s.events.Publish(ctx, messaging.Event{
		Type:     messaging.EventUserLogin,
		Username: user.Username,
		UserID:   user.ID,
	})

	observability.FromContext(ctx).Info("session established",
		"username", user.Username, "role", user.Role)
	return user, nil
}

// Register creates an account on the backend and returns its plain text
// success message. Registration never establishes a session; the user logs in
// explicitly afterwards.
func (s *Store) Register(ctx context.Context, reg domain.Registration) (string, error) {
	return s.backend.Register(ctx, reg)
}

// Logout tears the session down. It is idempotent: logging out an already
// absent session clears the cookie and nothing else.
func (s *Store) Logout(ctx context.Context, w http.ResponseWriter, token string) {
	user := s.cachedProfile(token)
	s.clearToken(ctx, w, token)

	if user != nil {
		observability.SessionsActive.Dec()
		s.events.Publish(ctx, messaging.Event{
			Type:     messaging.EventUserLogout,
			Username: user.Username,
			UserID:   user.ID,
		})
	}
	observability.FromContext(ctx).Info("session cleared")
}

// Validate reconciles a presented token with server truth. A repository miss
// or a backend rejection (expired token and network failure are not
// distinguished) clears the token from both persistence locations and returns
// ErrSessionInvalid, forcing re-authentication. Concurrent validations of the
// same token share a single backend call.
func (s *Store) Validate(ctx context.Context, w http.ResponseWriter, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	if user := s.cachedProfile(token); user != nil {
		return user, nil
	}

	v, err, _ := s.flight.Do(token, func() (any, error) {
		if _, err := s.tokens.Get(ctx, token); err != nil {
			observability.SessionValidationsTotal.WithLabelValues("unknown_token").Inc()
			s.discard(ctx, token)
			return nil, domain.ErrSessionInvalid
		}

		user, err := s.backend.Me(ctx, token)
		if err != nil {
			observability.SessionValidationsTotal.WithLabelValues("rejected").Inc()
			observability.FromContext(ctx).Warn("session validation failed",
				"error", err.Error())
			s.discard(ctx, token)
			return nil, domain.ErrSessionInvalid
		}

		observability.SessionValidationsTotal.WithLabelValues("success").Inc()
		s.cacheProfile(token, user)
		return user, nil
	})
	if err != nil {
		clearCookie(w)
		return nil, err
	}
	return v.(*domain.User), nil
}

// IsAuthenticated reports token presence in the durable store. Profile
// resolution is deliberately not required; the UI reacts to login/logout
// transitions before the profile settles.
func (s *Store) IsAuthenticated(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := s.tokens.Get(ctx, token)
	return err == nil
}

// setToken is the only write path for the token: repository first, cookie
// second. A repository failure leaves the cookie unset so the two locations
// stay in agreement.
func (s *Store) setToken(ctx context.Context, w http.ResponseWriter, token string) error {
	now := time.Now()
	record := &domain.TokenRecord{
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.TokenLifetime),
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	writeCookie(w, token)
	return nil
}

// clearToken is the only clear path: repository, profile cache, and cookie
func (s *Store) clearToken(ctx context.Context, w http.ResponseWriter, token string) {
	s.discard(ctx, token)
	clearCookie(w)
}

// discard removes the token from the repository and the profile cache
func (s *Store) discard(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		observability.FromContext(ctx).Warn("failed to delete session token",
			"error", err.Error())
	}
	s.mu.Lock()
	delete(s.profiles, token)
	s.mu.Unlock()
}

func (s *Store) cacheProfile(token string, user *domain.User) {
	s.mu.Lock()
	s.profiles[token] = user
	s.mu.Unlock()
}

func (s *Store) cachedProfile(token string) *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[token]
}

// ensure the concrete client satisfies Backend
var _ Backend = (*upstream.Client)(nil)
