package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

var inventoryTable = table[albert.InventorySearchItem]{
	headers: []string{"ID", "Name", "Category", "Unit", "Manufacturer"},
	row: func(item albert.InventorySearchItem) []string {
		return []string{
			item.ID,
			item.Name,
			string(item.Category),
			orNA(string(item.UnitCategory)),
			orNA(item.Manufacturer),
		}
	},
}

var inventoryItemTable = table[*albert.InventoryItem]{
	headers: []string{"ID", "Name", "Category", "Company", "Tags"},
	row: func(item *albert.InventoryItem) []string {
		return []string{
			item.ID,
			item.Name,
			string(item.Category),
			orNA(item.Company.ID()),
			fmt.Sprint(len(item.Tags)),
		}
	},
}

// NewInventoryCommand creates the inventory command group.
func NewInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Search and inspect inventory items",
	}

	cmd.AddCommand(newInventorySearchCommand())
	cmd.AddCommand(newInventoryGetCommand())
	cmd.AddCommand(newInventoryGetAllCommand())

	return cmd
}

func newInventorySearchCommand() *cobra.Command {
	var (
		flags    searchFlags
		category []string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search inventory items",
		Example: `  albert inventory search --text acetone
  albert inventory search --category RawMaterials --category Consumables --max 50
  albert inventory search -f company=COM123 -f unit-category=mass`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			params, err := flags.params()
			if err != nil {
				return err
			}

			if len(category) > 0 {
				params.WithFilter("category", category)
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			it, err := apiClient.Inventory().Search(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to search inventory: %w", err)
			}

			items, err := it.All()
			if err != nil {
				return fmt.Errorf("failed to search inventory: %w", err)
			}

			return inventoryTable.render(stdout, items)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringArrayVar(&category, "category", nil, "inventory category, repeatable")

	return cmd
}

func newInventoryGetCommand() *cobra.Command {
	var hydrate bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get an inventory item",
		Long:  "Get an inventory item by id. The INV prefix is optional.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			item, err := apiClient.Inventory().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get inventory item: %w", err)
			}

			if hydrate {
				hydrated, err := hydrateInventoryItem(ctx, apiClient, item)
				if err != nil {
					return err
				}

				return renderOne(stdout, hydrated)
			}

			return renderOne(stdout, item)
		},
	}

	cmd.Flags().BoolVar(&hydrate, "hydrate", false, "resolve the company and tags into full entities")

	return cmd
}

func newInventoryGetAllCommand() *cobra.Command {
	var (
		flags    searchFlags
		category []string
	)

	cmd := &cobra.Command{
		Use:   "get-all",
		Short: "Search inventory and fetch every full item",
		Long:  "Search inventory items and fetch the full record of each match, one request per item.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			params, err := flags.params()
			if err != nil {
				return err
			}

			if len(category) > 0 {
				params.WithFilter("category", category)
			}

			apiClient, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer apiClient.Close()

			it, err := apiClient.Inventory().GetAll(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to search inventory: %w", err)
			}

			var items []*albert.InventoryItem

			for item, err := range it.Seq() {
				if err != nil {
					return fmt.Errorf("failed to fetch inventory: %w", err)
				}

				items = append(items, item)
			}

			return inventoryItemTable.render(stdout, items)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringArrayVar(&category, "category", nil, "inventory category, repeatable")

	return cmd
}

// hydratedInventoryItem is an inventory item with its references resolved.
type hydratedInventoryItem struct {
	albert.InventoryItem `yaml:",inline"`

	CompanyEntity *albert.Company `json:"CompanyEntity,omitempty" yaml:"company_entity,omitempty"`
	TagEntities   []*albert.Tag   `json:"TagEntities,omitempty"   yaml:"tag_entities,omitempty"`
}

// hydrateInventoryItem resolves the company and tags through the client
// cache. Any failed lookup fails the whole item.
func hydrateInventoryItem(ctx context.Context, apiClient albert.Client, item *albert.InventoryItem) (*hydratedInventoryItem, error) {
	out := &hydratedInventoryItem{InventoryItem: *item}

	if !item.Company.IsZero() {
		companies := albert.NewCachingGetter[*albert.Company](apiClient.Companies(), apiClient.Cache(), apiClient.CacheOptions())

		company, err := item.Company.Hydrate(ctx, companies)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve company %s: %w", item.Company.ID(), err)
		}

		out.CompanyEntity = company
	}

	if len(item.Tags) > 0 {
		tags := albert.NewCachingGetter[*albert.Tag](apiClient.Tags(), apiClient.Cache(), apiClient.CacheOptions())

		resolved, err := albert.HydrateAll(ctx, item.Tags, tags)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tags: %w", err)
		}

		out.TagEntities = resolved
	}

	return out, nil
}
