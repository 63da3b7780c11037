package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/albert-client/internal/auth"
	"github.com/fivetwenty-io/albert-client/internal/client"
	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
	"github.com/fivetwenty-io/albert-client/pkg/albertclient"
)

// newLogger returns an hclog-backed logger on stderr. Verbose output lowers
// the level to debug.
func newLogger() albert.Logger {
	level := "warn"
	if viper.GetBool("verbose") {
		level = "debug"
	}

	return albert.NewDefaultLogger("albert", level, os.Stderr)
}

// cacheConfig maps the --cache flags onto a cache configuration. An empty
// choice disables the cache.
func cacheConfig(config *Config) *albert.CacheConfig {
	switch albert.CacheType(config.Cache) {
	case "", albert.CacheTypeNone:
		return nil
	case albert.CacheTypeRedis:
		return albert.NewCacheBuilder().
			WithType(albert.CacheTypeRedis).
			WithRedis(&albert.RedisCacheConfig{Addr: config.CacheURL}).
			Config()
	case albert.CacheTypeNATS:
		return albert.NewCacheBuilder().
			WithType(albert.CacheTypeNATS).
			WithNATS(&albert.NATSKVConfig{URL: config.CacheURL}).
			Config()
	default:
		return &albert.CacheConfig{Type: albert.CacheType(config.Cache)}
	}
}

// createTokenManager picks the token source. Client credentials are wrapped
// so that refreshed tokens are saved back to the config file.
func createTokenManager(config *Config, baseURL string) (auth.TokenManager, error) {
	if config.ClientID != "" {
		manager, err := auth.NewClientCredentialsManager(&auth.ClientCredentialsConfig{
			TokenURL:     baseURL + constants.PathToken,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("creating token manager: %w", err)
		}

		expiresAt := time.Time{}
		if config.TokenExpiresAt != nil {
			expiresAt = *config.TokenExpiresAt
		}

		return auth.NewConfigTokenManager(manager, NewConfigPersister(), config.Token, expiresAt), nil
	}

	if config.Token != "" {
		return auth.NewStaticTokenManager(config.Token), nil
	}

	return nil, constants.ErrNotLoggedIn
}

// createClient builds an API client from the CLI configuration.
func createClient(ctx context.Context) (*client.Client, error) {
	config := loadConfig()

	api := config.API
	if api == "" {
		api = constants.DefaultBaseURL
	}

	baseURL, err := albertclient.NormalizeBaseURL(api)
	if err != nil {
		return nil, err
	}

	tokenManager, err := createTokenManager(config, baseURL)
	if err != nil {
		return nil, err
	}

	logger := newLogger()
	interceptors := albert.NewInterceptorChain().
		AddRequestInterceptor(albert.LoggingInterceptor(logger)).
		AddResponseInterceptor(albert.LoggingResponseInterceptor(logger))

	apiClient, err := client.NewWithTokenManager(ctx, &albert.Config{
		BaseURL:      baseURL,
		Logger:       logger,
		Debug:        viper.GetBool("verbose"),
		RetryMax:     constants.DefaultRetryMax,
		PageSize:     config.PageSize,
		Cache:        cacheConfig(config),
		Interceptors: interceptors,
	}, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return apiClient, nil
}
