package albert

import (
	"context"
	"time"
)

// Client is the entry point to every resource collection.
type Client interface {
	Inventory() InventoryClient
	Projects() ProjectsClient
	Tasks() TasksClient
	Companies() CompaniesClient
	Locations() LocationsClient
	Tags() TagsClient
	Cas() CasClient
	Users() UsersClient
	CustomFields() CustomFieldsClient

	// Cache returns the hydration cache. It is a NoOpCache when none is configured.
	Cache() Cache
	// CacheOptions returns the options used with Cache.
	CacheOptions() *CacheOptions
}

// InventoryClient manages inventory items.
type InventoryClient interface {
	Create(ctx context.Context, item *InventoryItem) (*InventoryItem, error)
	Get(ctx context.Context, id string) (*InventoryItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]*InventoryItem, error)
	Update(ctx context.Context, item *InventoryItem) (*InventoryItem, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, params *QueryParams) (*PaginationIterator[InventorySearchItem], error)
	GetAll(ctx context.Context, params *QueryParams) (*HydratingIterator[InventorySearchItem, *InventoryItem], error)
}

// ProjectsClient manages projects.
type ProjectsClient interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params *QueryParams) (*PaginationIterator[ProjectSearchItem], error)
	GetAll(ctx context.Context, params *QueryParams) (*HydratingIterator[ProjectSearchItem, *Project], error)
}

// TasksClient manages tasks.
type TasksClient interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params *QueryParams) (*PaginationIterator[TaskSearchItem], error)
	GetAll(ctx context.Context, params *QueryParams) (*HydratingIterator[TaskSearchItem, *Task], error)
}

// CompaniesClient manages companies.
type CompaniesClient interface {
	Create(ctx context.Context, company *Company) (*Company, error)
	Get(ctx context.Context, id string) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	Exists(ctx context.Context, name string) (bool, error)
	Rename(ctx context.Context, id, newName string) (*Company, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params *QueryParams) (*PaginationIterator[*Company], error)
}

// LocationsClient manages locations.
type LocationsClient interface {
	Create(ctx context.Context, location *Location) (*Location, error)
	Get(ctx context.Context, id string) (*Location, error)
	Update(ctx context.Context, location *Location) (*Location, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params *QueryParams) (*PaginationIterator[*Location], error)
}

// TagsClient manages tags.
type TagsClient interface {
	Create(ctx context.Context, tag *Tag) (*Tag, error)
	Get(ctx context.Context, id string) (*Tag, error)
	GetByName(ctx context.Context, name string) (*Tag, error)
	Exists(ctx context.Context, name string) (bool, error)
	Rename(ctx context.Context, id, newName string) (*Tag, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params *QueryParams) (*PaginationIterator[*Tag], error)
}

// CasClient manages CAS registry entries.
type CasClient interface {
	Create(ctx context.Context, cas *Cas) (*Cas, error)
	Get(ctx context.Context, id string) (*Cas, error)
	GetByNumber(ctx context.Context, number string) (*Cas, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params *QueryParams) (*PaginationIterator[*Cas], error)
}

// UsersClient manages users.
type UsersClient interface {
	Get(ctx context.Context, id string) (*User, error)
	Search(ctx context.Context, params *QueryParams) (*PaginationIterator[*User], error)
}

// CustomFieldsClient manages custom fields.
type CustomFieldsClient interface {
	Create(ctx context.Context, field *CustomField) (*CustomField, error)
	Get(ctx context.Context, id string) (*CustomField, error)
	GetByName(ctx context.Context, name string, service ServiceType) (*CustomField, error)
	Update(ctx context.Context, field *CustomField) (*CustomField, error)
	List(ctx context.Context, params *QueryParams) (*PaginationIterator[*CustomField], error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an albert.Client.
//
// # Authentication precedence
//
//  1. Token: used directly as a static Bearer token.
//  2. ClientID/ClientSecret: the OAuth2 client_credentials grant against
//     TokenURL, which defaults to "<BaseURL>/api/v3/login/oauth/token".
//  3. No credentials: requests are sent without authentication.
//
// Configuration is read once when the client is built and never changes
// afterwards.
type Config struct {
	// BaseURL is the API root, e.g. "https://app.albertinvent.com".
	// albertclient.New trims a trailing slash and adds "https://" when no
	// scheme is present.
	BaseURL string

	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string

	// HTTPTimeout bounds a single HTTP attempt. Per-call deadlines belong in ctx.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries for 5xx, 429 and connection errors.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger

	UserAgent string

	// PageSize overrides the default page size of list and search calls.
	PageSize int

	// Cache enables the hydration cache. Nil means no cache.
	Cache *CacheConfig

	// Interceptors run around every HTTP exchange.
	Interceptors *InterceptorChain
}
