package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Static errors for err113 compliance.
var (
	ErrNoToken            = errors.New("no access token available")
	ErrTokenURLRequired   = errors.New("token URL is required")
	ErrClientIDRequired   = errors.New("client ID is required")
	ErrStaticTokenNoRenew = errors.New("static token cannot be refreshed")
	ErrNoConfigPersister  = errors.New("no config persister configured")
)

// TokenManager supplies Bearer tokens to the HTTP layer.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager hands out a fixed token.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a manager for token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	store.Set(&Token{AccessToken: token, TokenType: "Bearer"})

	return &StaticTokenManager{store: store}
}

// GetToken returns the token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if !token.Valid() {
		return "", ErrNoToken
	}

	return token.AccessToken, nil
}

// RefreshToken always fails; a static token has no way to renew itself.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenNoRenew
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

// ClientCredentialsConfig configures the client_credentials grant.
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for token requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// ClientCredentialsManager obtains tokens with the OAuth2 client_credentials
// grant and renews them when they expire.
type ClientCredentialsManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	store      *TokenStore
	mu         sync.Mutex
}

// NewClientCredentialsManager validates config and creates the manager.
// No request is made until the first GetToken.
func NewClientCredentialsManager(config *ClientCredentialsConfig) (*ClientCredentialsManager, error) {
	if config.TokenURL == "" {
		return nil, ErrTokenURLRequired
	}

	if config.ClientID == "" {
		return nil, ErrClientIDRequired
	}

	return &ClientCredentialsManager{
		config: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: config.HTTPClient,
		store:      NewTokenStore(),
	}, nil
}

// GetToken returns the cached token or fetches a new one.
func (m *ClientCredentialsManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if err := m.RefreshToken(ctx); err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken fetches a new token unconditionally.
func (m *ClientCredentialsManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}

	token, err := m.config.Token(ctx)
	if err != nil {
		return fmt.Errorf("requesting client credentials token: %w", err)
	}

	m.store.Set(&Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.Expiry,
	})

	return nil
}

// SetToken seeds the manager with a known token.
func (m *ClientCredentialsManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

// Current returns the stored token, or nil.
func (m *ClientCredentialsManager) Current() *Token {
	return m.store.Get()
}
