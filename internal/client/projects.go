package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// ProjectsClient implements the albert.ProjectsClient interface.
type ProjectsClient struct {
	resource resourceClient[albert.Project]
	pageSize int
}

// NewProjectsClient creates a new ProjectsClient.
func NewProjectsClient(httpClient *http.Client, pageSize int) *ProjectsClient {
	return &ProjectsClient{
		resource: newResourceClient[albert.Project](httpClient, constants.PathProjects, albert.PrefixProject, "project"),
		pageSize: pageSize,
	}
}

var projectPatchFields = []albert.PatchField[albert.Project]{
	albert.Attr("description", func(p *albert.Project) any { return p.Description }),
	albert.Attr("class", func(p *albert.Project) any { return string(p.Class) }),
	albert.RefSetAttr("Locations", func(p *albert.Project) []albert.Ref[*albert.Location] { return p.Locations }),
}

// Create creates a new project.
func (c *ProjectsClient) Create(ctx context.Context, project *albert.Project) (*albert.Project, error) {
	if project == nil {
		return nil, albert.ErrNilEntity
	}

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	return c.resource.create(ctx, project)
}

// Get retrieves a project. The PRO prefix is optional.
func (c *ProjectsClient) Get(ctx context.Context, id string) (*albert.Project, error) {
	return c.resource.get(ctx, id)
}

// Update sends the difference between the stored project and project.
func (c *ProjectsClient) Update(ctx context.Context, project *albert.Project) (*albert.Project, error) {
	if project == nil {
		return nil, albert.ErrNilEntity
	}

	if project.ID == "" {
		return nil, &albert.InvalidReferenceError{Kind: "project", Err: albert.ErrMissingID}
	}

	return c.resource.update(ctx, project.ID, project, projectPatchFields)
}

// Delete deletes a project.
func (c *ProjectsClient) Delete(ctx context.Context, id string) error {
	return c.resource.delete(ctx, id)
}

// Search returns partial project records.
func (c *ProjectsClient) Search(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[albert.ProjectSearchItem], error) {
	return newIterator[albert.ProjectSearchItem](ctx, c.resource.httpClient, listing{
		path:     constants.PathProjectSearch,
		mode:     albert.PaginationModeOffset,
		pageSize: c.pageSize,
		defaults: []albert.Filter{albert.F(constants.ParamOrder, albert.OrderDescending)},
	}, params)
}

// GetAll searches and then fetches every full project.
func (c *ProjectsClient) GetAll(ctx context.Context, params *albert.QueryParams) (*albert.HydratingIterator[albert.ProjectSearchItem, *albert.Project], error) {
	search, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return albert.NewHydratingIterator[albert.ProjectSearchItem, *albert.Project](ctx, search,
		func(item albert.ProjectSearchItem) string { return item.ID }, c), nil
}
