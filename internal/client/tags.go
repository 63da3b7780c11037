package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// TagsClient implements the albert.TagsClient interface.
type TagsClient struct {
	named namedResource[albert.Tag]
}

// NewTagsClient creates a new TagsClient.
func NewTagsClient(httpClient *http.Client, pageSize int) *TagsClient {
	return &TagsClient{
		named: namedResource[albert.Tag]{
			resource: newResourceClient[albert.Tag](httpClient, constants.PathTags, albert.PrefixTag, "tag"),
			pageSize: pageSize,
			name:     func(t *albert.Tag) string { return t.Name },
		},
	}
}

// tagPatch is one element of the bulk tag PATCH body.
type tagPatch struct {
	Data []albert.PatchDatum `json:"data"`
	ID   string              `json:"id"`
}

// Create creates a tag unless one with the same name exists, in which case
// the existing tag is returned.
func (c *TagsClient) Create(ctx context.Context, tag *albert.Tag) (*albert.Tag, error) {
	if tag == nil {
		return nil, albert.ErrNilEntity
	}

	if err := tag.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tag: %w", err)
	}

	return c.named.createUnique(ctx, tag)
}

// Get retrieves a tag. The TAG prefix is optional.
func (c *TagsClient) Get(ctx context.Context, id string) (*albert.Tag, error) {
	return c.named.resource.get(ctx, id)
}

// GetByName retrieves a tag by exact name.
func (c *TagsClient) GetByName(ctx context.Context, name string) (*albert.Tag, error) {
	return c.named.getByName(ctx, name)
}

// Exists reports whether a tag with the given name exists.
func (c *TagsClient) Exists(ctx context.Context, name string) (bool, error) {
	return c.named.exists(ctx, name)
}

// Rename changes a tag's name. Tags are patched through the collection
// endpoint rather than the item path.
func (c *TagsClient) Rename(ctx context.Context, id, newName string) (*albert.Tag, error) {
	if _, err := albert.NewTag(newName); err != nil {
		return nil, err
	}

	existing, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Name == newName {
		return existing, nil
	}

	body := []tagPatch{{
		ID: existing.ID,
		Data: []albert.PatchDatum{{
			Operation: albert.PatchUpdate,
			Attribute: "name",
			OldValue:  existing.Name,
			NewValue:  newName,
		}},
	}}

	if _, err := c.named.resource.httpClient.Patch(ctx, constants.PathTags, body); err != nil {
		return nil, notFound("tag", existing.ID, fmt.Errorf("renaming tag: %w", err))
	}

	return c.Get(ctx, existing.ID)
}

// Delete deletes a tag.
func (c *TagsClient) Delete(ctx context.Context, id string) error {
	return c.named.resource.delete(ctx, id)
}

// List lists tags.
func (c *TagsClient) List(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.Tag], error) {
	return c.named.list(ctx, params)
}
