package albert

import (
	"github.com/fivetwenty-io/albert-client/internal/constants"
)

// QueryParams builds the criteria and pagination options of a search.
type QueryParams struct {
	Text     string
	OrderBy  OrderBy
	SortBy   string
	PageSize int
	MaxItems *int
	Offset   int
	StartKey string
	Filters  []Filter
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithFilter adds a filter entry.
func (q *QueryParams) WithFilter(key string, value any) *QueryParams {
	q.Filters = append(q.Filters, F(key, value))

	return q
}

// WithFilters adds several filter entries.
func (q *QueryParams) WithFilters(filters ...Filter) *QueryParams {
	q.Filters = append(q.Filters, filters...)

	return q
}

// WithText sets the free-text search term.
func (q *QueryParams) WithText(text string) *QueryParams {
	q.Text = text

	return q
}

// WithOrderBy sets the sort direction.
func (q *QueryParams) WithOrderBy(order OrderBy) *QueryParams {
	q.OrderBy = order

	return q
}

// WithSortBy sets the sort field.
func (q *QueryParams) WithSortBy(field string) *QueryParams {
	q.SortBy = field

	return q
}

// WithPageSize sets the page size.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	q.PageSize = size

	return q
}

// WithMaxItems caps the number of items returned.
func (q *QueryParams) WithMaxItems(n int) *QueryParams {
	q.MaxItems = &n

	return q
}

// WithOffset sets the starting offset.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithStartKey sets the starting key for key-paged lists.
func (q *QueryParams) WithStartKey(key string) *QueryParams {
	q.StartKey = key

	return q
}

// Criteria normalizes the text, ordering and filters. A nil receiver yields
// empty criteria.
func (q *QueryParams) Criteria() (Criteria, error) {
	if q == nil {
		return Criteria{}, nil
	}

	filters := make([]Filter, 0, len(q.Filters)+3)

	if q.Text != "" {
		filters = append(filters, F(constants.ParamText, q.Text))
	}

	if q.OrderBy != "" {
		filters = append(filters, F(constants.ParamOrder, q.OrderBy))
	}

	if q.SortBy != "" {
		filters = append(filters, F(constants.ParamSortBy, q.SortBy))
	}

	filters = append(filters, q.Filters...)

	criteria, err := NormalizeFilters(filters...)
	if err != nil {
		return nil, err
	}

	if criteria == nil {
		criteria = Criteria{}
	}

	return criteria, nil
}

// PaginationOptions returns options for the given mode.
func (q *QueryParams) PaginationOptions(mode PaginationMode) *PaginationOptions {
	opts := DefaultPaginationOptions()
	opts.Mode = mode

	if q == nil {
		return opts
	}

	if q.PageSize > 0 {
		opts.PageSize = q.PageSize
	}

	opts.MaxItems = q.MaxItems
	opts.Offset = q.Offset
	opts.StartKey = q.StartKey

	return opts
}
