package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// NotAvailable is printed for empty table cells.
const NotAvailable = "N/A"

// table describes how to render a list of T as rows.
type table[T any] struct {
	headers []string
	row     func(T) []string
}

// render writes items in the selected output format.
func (t table[T]) render(out io.Writer, items []T) error {
	format := viper.GetString("output")

	switch format {
	case constants.FormatJSON:
		return writeJSON(out, items)
	case constants.FormatYAML:
		return writeYAML(out, items)
	case constants.FormatTable, "":
		if len(items) == 0 {
			_, _ = fmt.Fprintln(out, constants.ErrNoItemsFound.Error())

			return nil
		}

		headers := make([]any, len(t.headers))
		for i, header := range t.headers {
			headers[i] = header
		}

		writer := tablewriter.NewWriter(out)
		writer.Header(headers...)

		for _, item := range items {
			if err := writer.Append(t.row(item)); err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}

		if err := writer.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, format)
	}
}

// renderOne writes a single entity. Tables fall back to YAML since entities
// are nested.
func renderOne(out io.Writer, value any) error {
	if viper.GetString("output") == constants.FormatJSON {
		return writeJSON(out, value)
	}

	return writeYAML(out, value)
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out)
	defer encoder.Close()

	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	return nil
}

// orNA returns NotAvailable for an empty string.
func orNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

// parseFilters turns repeated key=value flags into filters. Keys are
// converted to the API's lowerCamel form, so "unit-category" and
// "unit_category" both become "unitCategory". A repeated key collects its
// values in order.
func parseFilters(flags []string) ([]albert.Filter, error) {
	filters := make([]albert.Filter, 0, len(flags))

	for _, flag := range flags {
		parts := strings.SplitN(flag, "=", constants.FilterParts)
		if len(parts) != constants.FilterParts || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFilterFlag, flag)
		}

		filters = append(filters, albert.F(strcase.ToLowerCamel(strings.TrimSpace(parts[0])), parts[1]))
	}

	return filters, nil
}

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout
