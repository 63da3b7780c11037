package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// InventoryClient implements the albert.InventoryClient interface.
type InventoryClient struct {
	resource resourceClient[albert.InventoryItem]
	pageSize int
}

// NewInventoryClient creates a new InventoryClient.
func NewInventoryClient(httpClient *http.Client, pageSize int) *InventoryClient {
	return &InventoryClient{
		resource: newResourceClient[albert.InventoryItem](httpClient, constants.PathInventories, albert.PrefixInventory, "inventory item"),
		pageSize: pageSize,
	}
}

var inventoryPatchFields = []albert.PatchField[albert.InventoryItem]{
	albert.Attr("name", func(i *albert.InventoryItem) any { return i.Name }),
	albert.Attr("description", func(i *albert.InventoryItem) any { return i.Description }),
	albert.Attr("unitCategory", func(i *albert.InventoryItem) any { return string(i.UnitCategory) }),
	albert.Attr("class", func(i *albert.InventoryItem) any { return string(i.SecurityClass) }),
	albert.Attr("alias", func(i *albert.InventoryItem) any { return i.Alias }),
	albert.RefAttr("Company", func(i *albert.InventoryItem) albert.Ref[*albert.Company] { return i.Company }),
	albert.RefSetAttr("tagId", func(i *albert.InventoryItem) []albert.Ref[*albert.Tag] { return i.Tags }),
	albert.RefSetAttr("casId", func(i *albert.InventoryItem) []albert.Ref[*albert.Cas] {
		refs := make([]albert.Ref[*albert.Cas], len(i.Cas))
		for n, amount := range i.Cas {
			refs[n] = amount.Cas
		}

		return refs
	}),
}

// Create creates a new inventory item.
func (c *InventoryClient) Create(ctx context.Context, item *albert.InventoryItem) (*albert.InventoryItem, error) {
	if item == nil {
		return nil, albert.ErrNilEntity
	}

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inventory item: %w", err)
	}

	return c.resource.create(ctx, item)
}

// Get retrieves an inventory item. The INV prefix is optional.
func (c *InventoryClient) Get(ctx context.Context, id string) (*albert.InventoryItem, error) {
	return c.resource.get(ctx, id)
}

// GetByIDs retrieves several inventory items in one request, in server order.
func (c *InventoryClient) GetByIDs(ctx context.Context, ids []string) ([]*albert.InventoryItem, error) {
	if len(ids) == 0 {
		return []*albert.InventoryItem{}, nil
	}

	query := url.Values{constants.ParamID: albert.EnsurePrefixes(ids, albert.PrefixInventory)}

	resp, err := c.resource.httpClient.Get(ctx, constants.PathInventoryIDs, query)
	if err != nil {
		return nil, fmt.Errorf("getting inventory items by id: %w", err)
	}

	page, err := decode[albert.Page[*albert.InventoryItem]](resp.Body, "inventory item")
	if err != nil {
		return nil, err
	}

	return page.Items, nil
}

// Update sends the difference between the stored item and item.
func (c *InventoryClient) Update(ctx context.Context, item *albert.InventoryItem) (*albert.InventoryItem, error) {
	if item == nil {
		return nil, albert.ErrNilEntity
	}

	if item.ID == "" {
		return nil, &albert.InvalidReferenceError{Kind: "inventory item", Err: albert.ErrMissingID}
	}

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inventory item: %w", err)
	}

	return c.resource.update(ctx, item.ID, item, inventoryPatchFields)
}

// Delete deletes an inventory item.
func (c *InventoryClient) Delete(ctx context.Context, id string) error {
	return c.resource.delete(ctx, id)
}

// Exists reports whether an inventory item with id exists.
func (c *InventoryClient) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.Get(ctx, id)
	if albert.IsNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// Search returns partial inventory records, newest first unless params say otherwise.
func (c *InventoryClient) Search(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[albert.InventorySearchItem], error) {
	return newIterator[albert.InventorySearchItem](ctx, c.resource.httpClient, listing{
		path:     constants.PathInventorySrch,
		mode:     albert.PaginationModeOffset,
		pageSize: c.pageSize,
		defaults: []albert.Filter{
			albert.F(constants.ParamOrder, albert.OrderDescending),
			albert.F(constants.ParamSortBy, "createdAt"),
		},
	}, params)
}

// GetAll searches and then fetches every full item, one Get per result.
func (c *InventoryClient) GetAll(ctx context.Context, params *albert.QueryParams) (*albert.HydratingIterator[albert.InventorySearchItem, *albert.InventoryItem], error) {
	search, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return albert.NewHydratingIterator[albert.InventorySearchItem, *albert.InventoryItem](ctx, search,
		func(item albert.InventorySearchItem) string { return item.ID }, c), nil
}
