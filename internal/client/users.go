package client

import (
	"context"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// UsersClient implements the albert.UsersClient interface.
type UsersClient struct {
	resource resourceClient[albert.User]
	pageSize int
}

// NewUsersClient creates a new UsersClient.
func NewUsersClient(httpClient *http.Client, pageSize int) *UsersClient {
	return &UsersClient{
		resource: newResourceClient[albert.User](httpClient, constants.PathUsers, albert.PrefixUser, "user"),
		pageSize: pageSize,
	}
}

// Get retrieves a user. The USR prefix is optional.
func (c *UsersClient) Get(ctx context.Context, id string) (*albert.User, error) {
	return c.resource.get(ctx, id)
}

// Search searches users.
func (c *UsersClient) Search(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.User], error) {
	return newIterator[*albert.User](ctx, c.resource.httpClient, listing{
		path:     constants.PathUserSearch,
		mode:     albert.PaginationModeOffset,
		pageSize: c.pageSize,
	}, params)
}
