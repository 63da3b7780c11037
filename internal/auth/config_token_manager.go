package auth

import (
	"context"
	"fmt"
	"time"
)

// ConfigPersister saves tokens so that later processes can reuse them.
type ConfigPersister interface {
	SaveToken(token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps a TokenManager and persists every token it fetches.
type ConfigTokenManager struct {
	manager   TokenManager
	persister ConfigPersister
	last      string
}

// NewConfigTokenManager wraps manager. A non-empty initialToken is seeded into
// the wrapped manager.
func NewConfigTokenManager(manager TokenManager, persister ConfigPersister, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	if initialToken != "" {
		manager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		manager:   manager,
		persister: persister,
		last:      initialToken,
	}
}

// GetToken returns a valid token, persisting it when it changed.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	if token != m.last {
		if err := m.persist(token); err != nil {
			return "", err
		}
	}

	return token, nil
}

// RefreshToken forces a refresh and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	if err := m.manager.RefreshToken(ctx); err != nil {
		return err
	}

	token, err := m.manager.GetToken(ctx)
	if err != nil {
		return err
	}

	return m.persist(token)
}

// SetToken sets the token on the wrapped manager.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.manager.SetToken(token, expiresAt)
	m.last = token
}

func (m *ConfigTokenManager) persist(token string) error {
	if m.persister == nil {
		return ErrNoConfigPersister
	}

	expiresAt := time.Time{}
	if current, ok := m.manager.(interface{ Current() *Token }); ok && current.Current() != nil {
		expiresAt = current.Current().ExpiresAt
	}

	if err := m.persister.SaveToken(token, expiresAt); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	m.last = token

	return nil
}
