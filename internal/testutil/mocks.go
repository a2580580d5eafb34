// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the skillbridge-web gateway.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/messaging"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockUnavailable    = errors.New("mock: backing store unavailable")
)

// MockTokenRepository implements domain.TokenRepository for testing
type MockTokenRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	SaveFunc          func(ctx context.Context, record *domain.TokenRecord) error
	GetFunc           func(ctx context.Context, token string) (*domain.TokenRecord, error)
	DeleteFunc        func(ctx context.Context, token string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)

	// In-memory storage for simple tests
	Records map[string]*domain.TokenRecord
}

// NewMockTokenRepository creates a new MockTokenRepository with initialized maps
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		Records: make(map[string]*domain.TokenRecord),
	}
}

func (m *MockTokenRepository) Save(ctx context.Context, record *domain.TokenRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Records == nil {
		m.Records = make(map[string]*domain.TokenRecord)
	}
	copied := *record
	m.Records[record.Token] = &copied
	return nil
}

func (m *MockTokenRepository) Get(ctx context.Context, token string) (*domain.TokenRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.Records[token]
	if !ok || record.Expired(time.Now()) {
		return nil, domain.ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *MockTokenRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Records, token)
	return nil
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	now := time.Now()
	for token, record := range m.Records {
		if record.Expired(now) {
			delete(m.Records, token)
			count++
		}
	}
	return count, nil
}

// Has reports whether a token is currently stored
func (m *MockTokenRepository) Has(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Records[token]
	return ok
}

// MockBackend implements session.Backend for testing. Each call is tracked so
// tests can assert how many network round trips the store made.
type MockBackend struct {
	mu sync.RWMutex

	// Function overrides
	LoginFunc    func(ctx context.Context, creds domain.Credentials) (string, error)
	RegisterFunc func(ctx context.Context, reg domain.Registration) (string, error)
	MeFunc       func(ctx context.Context, token string) (*domain.User, error)

	// Call tracking
	LoginCalls    int
	RegisterCalls int
	MeCalls       int
}

func (m *MockBackend) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	m.mu.Lock()
	m.LoginCalls++
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return "", ErrMockNotImplemented
}

func (m *MockBackend) Register(ctx context.Context, reg domain.Registration) (string, error) {
	m.mu.Lock()
	m.RegisterCalls++
	m.mu.Unlock()

	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return "", ErrMockNotImplemented
}

func (m *MockBackend) Me(ctx context.Context, token string) (*domain.User, error) {
	m.mu.Lock()
	m.MeCalls++
	m.mu.Unlock()

	if m.MeFunc != nil {
		return m.MeFunc(ctx, token)
	}
	return nil, ErrMockNotImplemented
}

// MeCallCount returns how many times Me was invoked
func (m *MockBackend) MeCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.MeCalls
}

// RecordingPublisher implements messaging.Publisher and records every event
type RecordingPublisher struct {
	mu     sync.RWMutex
	Events []messaging.Event
}

func (p *RecordingPublisher) Publish(ctx context.Context, event messaging.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Published returns a copy of all recorded events
func (p *RecordingPublisher) Published() []messaging.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]messaging.Event{}, p.Events...)
}

// EventsOfType returns the recorded events matching the given type
func (p *RecordingPublisher) EventsOfType(eventType string) []messaging.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var matched []messaging.Event
	for _, e := range p.Events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// Reset clears all recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = nil
}
