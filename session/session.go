package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dgrijalva/jwt-go"

	"mlm-storefront/storage"
	"mlm-storefront/utils"
)

// authTokenKey is the single global storage entry for the bearer token. It
// is deliberately not namespaced by user: the token itself says who the user
// is.
const authTokenKey = "auth_token"

// Manager persists the auth token across restarts and exposes the identity
// encoded in it.
type Manager struct {
	mu    sync.RWMutex
	store storage.Store
	token string
}

// NewManager loads any previously persisted token so a restart resumes the
// session.
func NewManager(ctx context.Context, store storage.Store) *Manager {
	m := &Manager{store: store}
	if data, err := store.Get(ctx, authTokenKey); err == nil {
		m.token = string(data)
	}
	return m
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SetToken stores the token durably; an empty token removes the entry.
func (m *Manager) SetToken(ctx context.Context, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token

	var err error
	if token == "" {
		err = m.store.Delete(ctx, authTokenKey)
	} else {
		err = m.store.Set(ctx, authTokenKey, []byte(token))
	}
	if err != nil {
		log.Printf("session: persisting auth token: %v", err)
	}
}

// Clear logs the session out, removing the persisted token.
func (m *Manager) Clear(ctx context.Context) {
	m.SetToken(ctx, "")
}

// Claims decodes the token's payload without verifying its signature. The
// client never holds the backend's signing secret; it only needs the
// identity fields to namespace local state. Trust decisions stay with the
// backend, which verifies the same token on every request.
func (m *Manager) Claims() (*utils.Claims, error) {
	token := m.Token()
	if token == "" {
		return nil, fmt.Errorf("session: not logged in")
	}
	claims := &utils.Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: decoding token: %w", err)
	}
	return claims, nil
}

// UserID returns the authenticated user's ID, or "" when logged out or the
// token is unreadable.
func (m *Manager) UserID() string {
	claims, err := m.Claims()
	if err != nil {
		return ""
	}
	return claims.UserID
}
