package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token requests.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the page size sent as "limit" when the caller does not choose one.
	DefaultPageSize = 1000

	// MaxPageSize is the largest page size the API accepts.
	MaxPageSize = 1000
)

// Query parameter names understood by the list and search endpoints.
const (
	ParamLimit      = "limit"
	ParamOffset     = "offset"
	ParamStartKey   = "startKey"
	ParamText       = "text"
	ParamOrder      = "order"
	ParamSortBy     = "sortBy"
	ParamName       = "name"
	ParamExactMatch = "exactMatch"
	ParamID         = "id"
	ParamCategory   = "category"
)

// Cache defaults.
const (
	// DefaultCacheSize is the number of entries kept by the in-memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a hydrated entity stays cached.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheBucket is the NATS key-value bucket name.
	DefaultCacheBucket = "albert-entities"

	// DefaultCacheKeyPrefix prefixes every cache key.
	DefaultCacheKeyPrefix = "albert"
)

// API paths.
const (
	APIPrefix = "/api/v3"

	PathToken         = APIPrefix + "/login/oauth/token"
	PathInventories   = APIPrefix + "/inventories"
	PathInventorySrch = PathInventories + "/search"
	PathInventoryIDs  = PathInventories + "/ids"
	PathProjects      = APIPrefix + "/projects"
	PathProjectSearch = PathProjects + "/search"
	PathTasks         = APIPrefix + "/tasks"
	PathTaskSearch    = PathTasks + "/search"
	PathTasksMulti    = PathTasks + "/multi"
	PathCompanies     = APIPrefix + "/companies"
	PathLocations     = APIPrefix + "/locations"
	PathTags          = APIPrefix + "/tags"
	PathCas           = APIPrefix + "/cas"
	PathUsers         = APIPrefix + "/users"
	PathUserSearch    = PathUsers + "/search"
	PathCustomFields  = APIPrefix + "/customfields"
)

// Client defaults.
const (
	// DefaultUserAgent is sent when the caller does not set one.
	DefaultUserAgent = "albert-client-go/1.0.0"

	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://app.albertinvent.com"
)

// CLI output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".albert"

	// ConfigFileName is the CLI config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "ALBERT"

	// FilterParts is the number of parts in a key=value filter flag.
	FilterParts = 2
)
