package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/albert-client/internal/auth"
	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired          = albert.ErrBaseURLRequired
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the albert.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       albert.Logger
	cache        albert.Cache
	cacheOptions *albert.CacheOptions

	// Resource clients
	inventory    *InventoryClient
	projects     *ProjectsClient
	tasks        *TasksClient
	companies    *CompaniesClient
	locations    *LocationsClient
	tags         *TagsClient
	cas          *CasClient
	users        *UsersClient
	customFields *CustomFieldsClient
}

// createTokenManager creates the token manager matching the configured
// credentials. A static token wins over client credentials.
func createTokenManager(config *albert.Config) (auth.TokenManager, error) {
	if config.Token != "" {
		return auth.NewStaticTokenManager(config.Token), nil
	}

	if config.ClientID != "" {
		manager, err := auth.NewClientCredentialsManager(&auth.ClientCredentialsConfig{
			TokenURL:     getTokenURL(config),
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("creating client credentials manager: %w", err)
		}

		return manager, nil
	}

	return nil, nil // No authentication
}

// getTokenURL returns token URL from config or the default login endpoint.
func getTokenURL(config *albert.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimSuffix(config.BaseURL, "/") + constants.PathToken
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *albert.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// New creates a new Albert API client. No request is made until the first
// operation.
func New(ctx context.Context, config *albert.Config) (*Client, error) {
	if config == nil {
		return nil, albert.ErrConfigRequired
	}

	tokenManager, err := createTokenManager(config)
	if err != nil {
		return nil, err
	}

	return NewWithTokenManager(ctx, config, tokenManager)
}

// NewWithTokenManager creates a new Albert API client with a custom token
// manager. tokenManager may be nil for unauthenticated use.
func NewWithTokenManager(_ context.Context, config *albert.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, albert.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	cache, cacheOptions, err := createCache(config.Cache)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      httpClient.BaseURL(),
		logger:       config.Logger,
		cache:        cache,
		cacheOptions: cacheOptions,
	}

	client.initializeResourceClients(config.PageSize)

	return client, nil
}

// createCache builds the hydration cache. A nil config disables caching.
func createCache(config *albert.CacheConfig) (albert.Cache, *albert.CacheOptions, error) {
	if config == nil {
		return albert.NewNoOpCache(), albert.DefaultCacheOptions(), nil
	}

	cache, err := albert.NewCacheFromConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cache: %w", err)
	}

	options := config.Options
	if options == nil {
		options = albert.DefaultCacheOptions()
	}

	return cache, options, nil
}

func (c *Client) initializeResourceClients(pageSize int) {
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	c.inventory = NewInventoryClient(c.httpClient, pageSize)
	c.projects = NewProjectsClient(c.httpClient, pageSize)
	c.tasks = NewTasksClient(c.httpClient, pageSize)
	c.companies = NewCompaniesClient(c.httpClient, pageSize)
	c.locations = NewLocationsClient(c.httpClient, pageSize)
	c.tags = NewTagsClient(c.httpClient, pageSize)
	c.cas = NewCasClient(c.httpClient, pageSize)
	c.users = NewUsersClient(c.httpClient, pageSize)
	c.customFields = NewCustomFieldsClient(c.httpClient, pageSize)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// RefreshToken forces the token manager to obtain a new token.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	return c.tokenManager.RefreshToken(ctx)
}

// SetToken replaces the current token.
func (c *Client) SetToken(token string, expiresAt time.Time) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	c.tokenManager.SetToken(token, expiresAt)

	return nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases cache connections.
func (c *Client) Close() error {
	switch cache := c.cache.(type) {
	case interface{ Close() error }:
		return cache.Close()
	case interface{ Close() }:
		cache.Close()
	}

	return nil
}

// Inventory implements albert.Client.Inventory.
func (c *Client) Inventory() albert.InventoryClient {
	return c.inventory
}

// Projects implements albert.Client.Projects.
func (c *Client) Projects() albert.ProjectsClient {
	return c.projects
}

// Tasks implements albert.Client.Tasks.
func (c *Client) Tasks() albert.TasksClient {
	return c.tasks
}

// Companies implements albert.Client.Companies.
func (c *Client) Companies() albert.CompaniesClient {
	return c.companies
}

// Locations implements albert.Client.Locations.
func (c *Client) Locations() albert.LocationsClient {
	return c.locations
}

// Tags implements albert.Client.Tags.
func (c *Client) Tags() albert.TagsClient {
	return c.tags
}

// Cas implements albert.Client.Cas.
func (c *Client) Cas() albert.CasClient {
	return c.cas
}

// Users implements albert.Client.Users.
func (c *Client) Users() albert.UsersClient {
	return c.users
}

// CustomFields implements albert.Client.CustomFields.
func (c *Client) CustomFields() albert.CustomFieldsClient {
	return c.customFields
}

// Cache implements albert.Client.Cache.
func (c *Client) Cache() albert.Cache {
	return c.cache
}

// CacheOptions implements albert.Client.CacheOptions.
func (c *Client) CacheOptions() *albert.CacheOptions {
	return c.cacheOptions
}
