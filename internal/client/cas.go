package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// CasClient implements the albert.CasClient interface.
type CasClient struct {
	resource resourceClient[albert.Cas]
	pageSize int
}

// NewCasClient creates a new CasClient.
func NewCasClient(httpClient *http.Client, pageSize int) *CasClient {
	return &CasClient{
		resource: newResourceClient[albert.Cas](httpClient, constants.PathCas, albert.PrefixCas, "cas"),
		pageSize: pageSize,
	}
}

// Create registers a CAS number.
func (c *CasClient) Create(ctx context.Context, cas *albert.Cas) (*albert.Cas, error) {
	if cas == nil {
		return nil, albert.ErrNilEntity
	}

	if err := cas.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cas: %w", err)
	}

	return c.resource.create(ctx, cas)
}

// Get retrieves a CAS entry. The CAS prefix is optional.
func (c *CasClient) Get(ctx context.Context, id string) (*albert.Cas, error) {
	return c.resource.get(ctx, id)
}

// GetByNumber retrieves a CAS entry by its registry number, e.g. "67-64-1".
func (c *CasClient) GetByNumber(ctx context.Context, number string) (*albert.Cas, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, &albert.InvalidReferenceError{Kind: "cas", Err: albert.ErrMissingID}
	}

	it, err := c.List(ctx, albert.NewQueryParams().WithFilter("number", number))
	if err != nil {
		return nil, err
	}

	for it.HasNext() {
		cas, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("looking up cas by number: %w", err)
		}

		if cas.Number == number {
			return cas, nil
		}
	}

	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("looking up cas by number: %w", err)
	}

	return nil, &albert.NotFoundError{Kind: "cas", ID: number}
}

// Delete deletes a CAS entry.
func (c *CasClient) Delete(ctx context.Context, id string) error {
	return c.resource.delete(ctx, id)
}

// List lists CAS entries.
func (c *CasClient) List(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.Cas], error) {
	return newIterator[*albert.Cas](ctx, c.resource.httpClient, listing{
		path:     constants.PathCas,
		mode:     albert.PaginationModeKey,
		pageSize: c.pageSize,
	}, params)
}
