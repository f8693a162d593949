// Package credentials provides bearer credential storage for the
// fulfillment backend gateway.
//
// A single Provider instance is the source of truth for the operator
// session token. The gateway reads it on every call and clears it when
// the backend answers 401, which forces the surrounding application to
// re-authenticate.
package credentials

import (
	"context"
	"errors"
	"sync"
)

// ErrNoToken indicates that no bearer token is currently stored.
var ErrNoToken = errors.New("no token stored")

// Provider is the credential store capability injected into the gateway.
//
// Implementations must be safe for concurrent use: the gateway reads the
// token on every request while the login flow writes it.
type Provider interface {
	// Token returns the stored bearer token or ErrNoToken.
	Token(ctx context.Context) (string, error)

	// Store replaces the stored bearer token.
	Store(ctx context.Context, token string) error

	// Clear removes the stored bearer token. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Provider. It is the default store for a
// single operator session.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token implements Provider.
func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Store implements Provider.
func (s *MemoryStore) Store(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	return nil
}

// Clear implements Provider.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	return nil
}
