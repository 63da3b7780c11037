package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/albert-client/internal/client"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

var (
	companyTable = table[*albert.Company]{
		headers: []string{"ID", "Name"},
		row:     func(c *albert.Company) []string { return []string{c.ID, c.Name} },
	}

	tagTable = table[*albert.Tag]{
		headers: []string{"ID", "Name"},
		row:     func(t *albert.Tag) []string { return []string{t.ID, t.Name} },
	}

	locationTable = table[*albert.Location]{
		headers: []string{"ID", "Name", "Address", "Country"},
		row: func(l *albert.Location) []string {
			return []string{l.ID, l.Name, orNA(l.Address), orNA(l.Country)}
		},
	}

	customFieldTable = table[*albert.CustomField]{
		headers: []string{"ID", "Name", "Type", "Service", "Label"},
		row: func(f *albert.CustomField) []string {
			return []string{f.ID, f.Name, string(f.FieldType), string(f.Service), orNA(f.DisplayName)}
		},
	}
)

// listCommand builds a "list" subcommand for a key-paged collection.
func listCommand[T any](
	short string,
	list func(*client.Client) func(context.Context, *albert.QueryParams) (*albert.PaginationIterator[T], error),
	out table[T],
) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			params, err := flags.params()
			if err != nil {
				return err
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			it, err := list(apiClient)(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list: %w", err)
			}

			items, err := it.All()
			if err != nil {
				return fmt.Errorf("failed to list: %w", err)
			}

			return out.render(stdout, items)
		},
	}

	flags.register(cmd, false)

	return cmd
}

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
	}

	cmd.AddCommand(listCommand("List companies", func(c *client.Client) func(context.Context, *albert.QueryParams) (*albert.PaginationIterator[*albert.Company], error) {
		return c.Companies().List
	}, companyTable))

	cmd.AddCommand(&cobra.Command{
		Use:   "get NAME",
		Short: "Find a company by exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			company, err := apiClient.Companies().GetByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get company: %w", err)
			}

			return companyTable.render(stdout, []*albert.Company{company})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a company, or return the existing one with that name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			company, err := albert.NewCompany(args[0])
			if err != nil {
				return err
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			company, err = apiClient.Companies().Create(ctx, company)
			if err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}

			return companyTable.render(stdout, []*albert.Company{company})
		},
	})

	return cmd
}

// NewTagsCommand creates the tags command group.
func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
	}

	cmd.AddCommand(listCommand("List tags", func(c *client.Client) func(context.Context, *albert.QueryParams) (*albert.PaginationIterator[*albert.Tag], error) {
		return c.Tags().List
	}, tagTable))

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID NEW_NAME",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			tag, err := apiClient.Tags().Rename(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to rename tag: %w", err)
			}

			return tagTable.render(stdout, []*albert.Tag{tag})
		},
	})

	return cmd
}

// NewLocationsCommand creates the locations command group.
func NewLocationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location"},
		Short:   "Manage locations",
	}

	cmd.AddCommand(listCommand("List locations", func(c *client.Client) func(context.Context, *albert.QueryParams) (*albert.PaginationIterator[*albert.Location], error) {
		return c.Locations().List
	}, locationTable))

	return cmd
}

// NewCustomFieldsCommand creates the custom-fields command group.
func NewCustomFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "custom-fields",
		Aliases: []string{"customfields"},
		Short:   "Manage custom fields",
	}

	cmd.AddCommand(listCommand("List custom fields", func(c *client.Client) func(context.Context, *albert.QueryParams) (*albert.PaginationIterator[*albert.CustomField], error) {
		return c.CustomFields().List
	}, customFieldTable))

	return cmd
}
