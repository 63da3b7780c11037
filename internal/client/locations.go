package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// LocationsClient implements the albert.LocationsClient interface.
type LocationsClient struct {
	resource resourceClient[albert.Location]
	pageSize int
}

// NewLocationsClient creates a new LocationsClient.
func NewLocationsClient(httpClient *http.Client, pageSize int) *LocationsClient {
	return &LocationsClient{
		resource: newResourceClient[albert.Location](httpClient, constants.PathLocations, albert.PrefixLocation, "location"),
		pageSize: pageSize,
	}
}

var locationPatchFields = []albert.PatchField[albert.Location]{
	albert.Attr("name", func(l *albert.Location) any { return l.Name }),
	albert.Attr("latitude", func(l *albert.Location) any { return l.Latitude }),
	albert.Attr("longitude", func(l *albert.Location) any { return l.Longitude }),
	albert.Attr("address", func(l *albert.Location) any { return l.Address }),
	albert.Attr("country", func(l *albert.Location) any { return l.Country }),
}

// Create creates a location.
func (c *LocationsClient) Create(ctx context.Context, location *albert.Location) (*albert.Location, error) {
	if location == nil {
		return nil, albert.ErrNilEntity
	}

	if err := location.Validate(); err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}

	return c.resource.create(ctx, location)
}

// Get retrieves a location. The LOC prefix is optional.
func (c *LocationsClient) Get(ctx context.Context, id string) (*albert.Location, error) {
	return c.resource.get(ctx, id)
}

// Update sends the difference between the stored location and location.
func (c *LocationsClient) Update(ctx context.Context, location *albert.Location) (*albert.Location, error) {
	if location == nil {
		return nil, albert.ErrNilEntity
	}

	if location.ID == "" {
		return nil, &albert.InvalidReferenceError{Kind: "location", Err: albert.ErrMissingID}
	}

	if err := location.Validate(); err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}

	return c.resource.update(ctx, location.ID, location, locationPatchFields)
}

// Delete deletes a location.
func (c *LocationsClient) Delete(ctx context.Context, id string) error {
	return c.resource.delete(ctx, id)
}

// List lists locations.
func (c *LocationsClient) List(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.Location], error) {
	return newIterator[*albert.Location](ctx, c.resource.httpClient, listing{
		path:     constants.PathLocations,
		mode:     albert.PaginationModeKey,
		pageSize: c.pageSize,
	}, params)
}
