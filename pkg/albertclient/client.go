// Package albertclient provides the main entry point for creating Albert API clients
package albertclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/albert-client/internal/client"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// New creates a new Albert API client. The config is copied; the caller's
// value is not modified.
func New(ctx context.Context, config *albert.Config) (albert.Client, error) {
	if config == nil {
		return nil, albert.ErrConfigRequired
	}

	cfg := *config

	baseURL, err := NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	cfg.BaseURL = baseURL

	c, err := client.New(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes and defaults the
// scheme to https.
func NormalizeBaseURL(baseURL string) (string, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "", albert.ErrBaseURLRequired
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL, nil
}

// NewWithEndpoint creates a new client with just a base URL (no auth).
func NewWithEndpoint(ctx context.Context, baseURL string) (albert.Client, error) {
	return New(ctx, &albert.Config{
		BaseURL: baseURL,
	})
}

// NewWithToken creates a new client with a base URL and a bearer token.
func NewWithToken(ctx context.Context, baseURL, token string) (albert.Client, error) {
	return New(ctx, &albert.Config{
		BaseURL: baseURL,
		Token:   token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client credentials.
// The first token is requested lazily on the first API call.
func NewWithClientCredentials(ctx context.Context, baseURL, clientID, clientSecret string) (albert.Client, error) {
	return New(ctx, &albert.Config{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
