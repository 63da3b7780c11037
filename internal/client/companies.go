package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// CompaniesClient implements the albert.CompaniesClient interface.
type CompaniesClient struct {
	named namedResource[albert.Company]
}

// NewCompaniesClient creates a new CompaniesClient.
func NewCompaniesClient(httpClient *http.Client, pageSize int) *CompaniesClient {
	return &CompaniesClient{
		named: namedResource[albert.Company]{
			resource: newResourceClient[albert.Company](httpClient, constants.PathCompanies, albert.PrefixCompany, "company"),
			pageSize: pageSize,
			name:     func(c *albert.Company) string { return c.Name },
			defaults: []albert.Filter{albert.F("dupDetection", false)},
		},
	}
}

var companyPatchFields = []albert.PatchField[albert.Company]{
	albert.Attr("name", func(c *albert.Company) any { return c.Name }),
}

// Create creates a company unless one with the same name exists, in which
// case the existing company is returned.
func (c *CompaniesClient) Create(ctx context.Context, company *albert.Company) (*albert.Company, error) {
	if company == nil {
		return nil, albert.ErrNilEntity
	}

	if err := company.Validate(); err != nil {
		return nil, fmt.Errorf("invalid company: %w", err)
	}

	return c.named.createUnique(ctx, company)
}

// Get retrieves a company. The COM prefix is optional.
func (c *CompaniesClient) Get(ctx context.Context, id string) (*albert.Company, error) {
	return c.named.resource.get(ctx, id)
}

// GetByName retrieves a company by exact name.
func (c *CompaniesClient) GetByName(ctx context.Context, name string) (*albert.Company, error) {
	return c.named.getByName(ctx, name)
}

// Exists reports whether a company with the given name exists.
func (c *CompaniesClient) Exists(ctx context.Context, name string) (bool, error) {
	return c.named.exists(ctx, name)
}

// Rename changes a company's name.
func (c *CompaniesClient) Rename(ctx context.Context, id, newName string) (*albert.Company, error) {
	renamed, err := albert.NewCompany(newName)
	if err != nil {
		return nil, err
	}

	return c.named.resource.update(ctx, id, renamed, companyPatchFields)
}

// Delete deletes a company.
func (c *CompaniesClient) Delete(ctx context.Context, id string) error {
	return c.named.resource.delete(ctx, id)
}

// List lists companies.
func (c *CompaniesClient) List(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*albert.Company], error) {
	return c.named.list(ctx, params)
}
