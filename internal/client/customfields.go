package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// CustomFieldsClient implements the albert.CustomFieldsClient interface.
type CustomFieldsClient struct {
	resource resourceClient[albert.CustomField]
	pageSize int
}

// NewCustomFieldsClient creates a new CustomFieldsClient.
func NewCustomFieldsClient(httpClient *http.Client, pageSize int) *CustomFieldsClient {
	return &CustomFieldsClient{
		resource: newResourceClient[albert.CustomField](httpClient, constants.PathCustomFields, "", "custom field"),
		pageSize: pageSize,
	}
}

var customFieldPatchFields = []albert.PatchField[albert.CustomField]{
	albert.Attr("labelName", func(f *albert.CustomField) any { return f.DisplayName }),
	albert.Attr("hidden", func(f *albert.CustomField) any { return f.Hidden }),
	albert.Attr("searchable", func(f *albert.CustomField) any { return boolValue(f.Searchable) }),
	albert.Attr("required", func(f *albert.CustomField) any { return boolValue(f.Required) }),
}

// Create creates a custom field.
func (c *CustomFieldsClient) Create(ctx context.Context, field *albert.CustomField) (*albert.CustomField, error) {
	if field == nil {
		return nil, albert.ErrNilEntity
	}

	if err := field.Validate(); err != nil {
		return nil, fmt.Errorf("invalid custom field: %w", err)
	}

	return c.resource.create(ctx, field)
}

// Get retrieves a custom field.
func (c *CustomFieldsClient) Get(ctx context.Context, id string) (*albert.CustomField, error) {
	return c.resource.get(ctx, id)
}

// GetByName retrieves the custom field with the given name on a service.
func (c *CustomFieldsClient) GetByName(ctx context.Context, name string, service albert.ServiceType) (*albert.CustomField, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &albert.InvalidReferenceError{Kind: "custom field", Err: albert.ErrMissingID}
	}

	params := albert.NewQueryParams().WithFilter(constants.ParamName, name)
	if service != "" {
		params.WithFilter("service", string(service))
	}

	it, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}

	for it.HasNext() {
		field, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("looking up custom field by name: %w", err)
		}

		if field.Name == name && (service == "" || field.Service == service) {
			return field, nil
		}
	}

	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("looking up custom field by name: %w", err)
	}

	return nil, &albert.NotFoundError{Kind: "custom field", ID: name}
}

// Update sends the difference between the stored field and field.
func (c *CustomFieldsClient) Update(ctx context.Context, field *albert.CustomField) (*albert.CustomField, error) {
	if field == nil {
		return nil, albert.ErrNilEntity
	}

	if field.ID == "" {
		return nil, &albert.InvalidReferenceError{Kind: "custom field", Err: albert.ErrMissingID}
	}

	return c.resource.update(ctx, field.ID, field, customFieldPatchFields)
}

// List lists custom fields.
func (c *CustomFieldsClient) List(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.CustomField], error) {
	return newIterator[*albert.CustomField](ctx, c.resource.httpClient, listing{
		path:     constants.PathCustomFields,
		mode:     albert.PaginationModeKey,
		pageSize: c.pageSize,
	}, params)
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
