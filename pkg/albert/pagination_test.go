package albert_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

type testItem struct {
	ID string
}

// fakeFetcher serves total items. In key mode the key is the index of the
// next item; in offset mode the page echoes the requested offset.
type fakeFetcher struct {
	total   int
	mode    albert.PaginationMode
	queries []albert.Criteria
	failAt  int
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ string, query albert.Criteria) (*albert.Page[testItem], error) {
	f.queries = append(f.queries, query)

	if f.failAt > 0 && len(f.queries) == f.failAt {
		return nil, errors.New("connection reset")
	}

	limit, _ := strconv.Atoi(first(query.Get("limit")))

	start := 0
	if f.mode == albert.PaginationModeKey {
		start, _ = strconv.Atoi(first(query.Get("startKey")))
	} else {
		start, _ = strconv.Atoi(first(query.Get("offset")))
	}

	end := min(start+limit, f.total)
	page := &albert.Page[testItem]{}

	for i := start; i < end; i++ {
		page.Items = append(page.Items, testItem{ID: strconv.Itoa(i + 1)})
	}

	if f.mode == albert.PaginationModeKey {
		if end < f.total {
			page.LastKey = strconv.Itoa(end)
		}
	} else {
		page.Offset = &start
	}

	return page, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

func intPtr(i int) *int {
	return &i
}

func TestPaginationIterator_KeyModeTwoPages(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 4, mode: albert.PaginationModeKey}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 2})

	assert.Zero(t, it.PagesFetched())

	items, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, []testItem{{"1"}, {"2"}, {"3"}, {"4"}}, items)
	assert.Equal(t, 2, it.PagesFetched())

	require.Len(t, fetcher.queries, 2)
	assert.False(t, fetcher.queries[0].Has("startKey"))
	assert.Equal(t, []string{"2"}, fetcher.queries[1].Get("startKey"))
	assert.False(t, fetcher.queries[0].Has("offset"))
}

func TestPaginationIterator_OffsetMode(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 5, mode: albert.PaginationModeOffset}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeOffset, PageSize: 2})

	items, err := it.All()
	require.NoError(t, err)
	assert.Len(t, items, 5)

	require.Len(t, fetcher.queries, 3)
	assert.False(t, fetcher.queries[0].Has("offset"))
	assert.Equal(t, []string{"2"}, fetcher.queries[1].Get("offset"))
	assert.Equal(t, []string{"4"}, fetcher.queries[2].Get("offset"))
}

func TestPaginationIterator_OffsetModeEmptyLastPage(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 4, mode: albert.PaginationModeOffset}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeOffset, PageSize: 2})

	items, err := it.All()
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, 3, it.PagesFetched())
}

func TestPaginationIterator_MaxItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		pageSize  int
		maxItems  int
		wantItems int
		wantPages int
		lastLimit string
	}{
		{name: "zero makes no request", total: 10, pageSize: 3, maxItems: 0, wantItems: 0, wantPages: 0},
		{name: "cap inside second page", total: 10, pageSize: 3, maxItems: 4, wantItems: 4, wantPages: 2, lastLimit: "1"},
		{name: "cap on page boundary", total: 10, pageSize: 3, maxItems: 6, wantItems: 6, wantPages: 2, lastLimit: "3"},
		{name: "cap above total", total: 5, pageSize: 3, maxItems: 100, wantItems: 5, wantPages: 2, lastLimit: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher := &fakeFetcher{total: tt.total, mode: albert.PaginationModeKey}
			it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
				&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: tt.pageSize, MaxItems: intPtr(tt.maxItems)})

			items, err := it.All()
			require.NoError(t, err)
			assert.Len(t, items, tt.wantItems)
			assert.Equal(t, tt.wantPages, it.PagesFetched())

			if tt.lastLimit != "" {
				assert.Equal(t, []string{tt.lastLimit}, fetcher.queries[len(fetcher.queries)-1].Get("limit"))
			}
		})
	}
}

func TestPaginationIterator_NextAfterEnd(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 1, mode: albert.PaginationModeKey}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 10})

	item, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item.ID)

	assert.False(t, it.HasNext())

	_, err = it.Next()
	require.ErrorIs(t, err, albert.ErrNoMoreItems)
	assert.Equal(t, 1, it.PagesFetched())
}

func TestPaginationIterator_FetchError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 10, mode: albert.PaginationModeKey, failAt: 2}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 3})

	items, err := it.All()
	require.Error(t, err)
	assert.Len(t, items, 3)
	assert.Contains(t, err.Error(), "fetching page 2 of /things")
	require.ErrorIs(t, it.Err(), err)

	assert.False(t, it.HasNext())

	_, err = it.Next()
	require.ErrorIs(t, err, albert.ErrNoMoreItems)
}

func TestPaginationIterator_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{total: 3, mode: albert.PaginationModeKey}
	it := albert.NewPaginationIterator[testItem](ctx, fetcher, "/things", nil, nil)

	_, err := it.All()
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.queries)
}

func TestPaginationIterator_KeepsCriteria(t *testing.T) {
	t.Parallel()

	criteria, err := albert.NormalizeFilters(albert.F("text", "acetone"), albert.F("limit", "ignored"))
	require.NoError(t, err)

	fetcher := &fakeFetcher{total: 1, mode: albert.PaginationModeKey}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", criteria,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 5, StartKey: "0"})

	_, err = it.All()
	require.NoError(t, err)

	require.Len(t, fetcher.queries, 1)
	assert.Equal(t, "text=acetone&limit=5&startKey=0", fetcher.queries[0].Encode())
}

func TestPaginationIterator_Seq(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 6, mode: albert.PaginationModeKey}
	it := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 2})

	var ids []string

	for item, err := range it.Seq() {
		require.NoError(t, err)

		ids = append(ids, item.ID)
		if len(ids) == 3 {
			break
		}
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, 2, it.PagesFetched())
}

func TestPaginationOptions_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, albert.DefaultPaginationOptions().Validate())
	require.ErrorIs(t, (&albert.PaginationOptions{Mode: "cursor"}).Validate(), albert.ErrInvalidPaginationMode)
	require.ErrorIs(t, (&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 5000}).Validate(), albert.ErrInvalidPaginationMode)
	require.ErrorIs(t, (&albert.PaginationOptions{Mode: albert.PaginationModeKey, MaxItems: intPtr(-1)}).Validate(), albert.ErrInvalidPaginationMode)
}

func TestHydratingIterator(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{total: 3, mode: albert.PaginationModeKey}
	source := albert.NewPaginationIterator[testItem](context.Background(), fetcher, "/things", nil,
		&albert.PaginationOptions{Mode: albert.PaginationModeKey, PageSize: 2})

	getter := &countingGetter[*albert.Tag]{get: func(id string) (*albert.Tag, error) {
		if id == "3" {
			return nil, &albert.TransportError{StatusCode: 404, Method: "GET", Path: "/tags/3"}
		}

		return &albert.Tag{ID: id, Name: "tag " + id}, nil
	}}

	it := albert.NewHydratingIterator[testItem, *albert.Tag](context.Background(), source,
		func(item testItem) string { return item.ID }, getter)

	tags, err := it.All()
	require.Error(t, err)
	assert.True(t, albert.IsNotFound(err))
	require.Len(t, tags, 2)
	assert.Equal(t, "tag 2", tags[1].Name)
	assert.Equal(t, 3, getter.calls)
	assert.False(t, it.HasNext())
}

func TestFetchAll(t *testing.T) {
	t.Parallel()

	fetcher := albert.PageFetcherFunc[testItem](func(_ context.Context, path string, _ albert.Criteria) (*albert.Page[testItem], error) {
		assert.Equal(t, "/things", path)

		return &albert.Page[testItem]{Items: []testItem{{"a"}}}, nil
	})

	items, err := albert.FetchAll[testItem](context.Background(), fetcher, "/things", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []testItem{{"a"}}, items)
}
