package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// searchFlags are shared by every list and search command.
type searchFlags struct {
	text     string
	filters  []string
	maxItems int
	order    string
	sortBy   string
}

func (f *searchFlags) register(cmd *cobra.Command, withText bool) {
	if withText {
		cmd.Flags().StringVar(&f.text, "text", "", "free-text search term")
		cmd.Flags().StringVar(&f.order, "order", "", "sort direction (asc, desc)")
		cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "sort field")
	}

	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "filter as key=value, repeatable")
	cmd.Flags().IntVar(&f.maxItems, "max", 0, "maximum number of items (0 for all)")
}

// params builds query parameters. Filters are appended after the command's
// own defaults so that they win.
func (f *searchFlags) params(defaults ...albert.Filter) (*albert.QueryParams, error) {
	filters, err := parseFilters(f.filters)
	if err != nil {
		return nil, err
	}

	params := albert.NewQueryParams().
		WithText(f.text).
		WithOrderBy(albert.OrderBy(f.order)).
		WithSortBy(f.sortBy).
		WithFilters(defaults...).
		WithFilters(filters...)

	if f.maxItems > 0 {
		params.WithMaxItems(f.maxItems)
	}

	return params, nil
}
