package albert

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"github.com/fivetwenty-io/albert-client/internal/constants"
)

// PaginationMode selects how the next page is requested.
type PaginationMode string

const (
	// PaginationModeOffset advances with an "offset" parameter.
	PaginationModeOffset PaginationMode = "offset"
	// PaginationModeKey advances with the "lastKey" of the previous page.
	PaginationModeKey PaginationMode = "key"
)

// PaginationOptions controls a PaginationIterator.
type PaginationOptions struct {
	Mode PaginationMode
	// PageSize is sent as "limit". Zero means constants.DefaultPageSize.
	PageSize int
	// MaxItems caps the number of items yielded. Nil means no cap.
	MaxItems *int
	// Offset and StartKey position the first request.
	Offset   int
	StartKey string
}

// DefaultPaginationOptions returns offset-mode options with the default page size.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		Mode:     PaginationModeOffset,
		PageSize: constants.DefaultPageSize,
	}
}

// Validate checks the options.
func (o *PaginationOptions) Validate() error {
	switch o.Mode {
	case PaginationModeOffset, PaginationModeKey:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPaginationMode, o.Mode)
	}

	if o.PageSize < 0 || o.PageSize > constants.MaxPageSize {
		return fmt.Errorf("%w: page size %d", ErrInvalidPaginationMode, o.PageSize)
	}

	if o.MaxItems != nil && *o.MaxItems < 0 {
		return fmt.Errorf("%w: max items %d", ErrInvalidPaginationMode, *o.MaxItems)
	}

	return nil
}

// PageFetcher performs one list request.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, path string, query Criteria) (*Page[T], error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, path string, query Criteria) (*Page[T], error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, path string, query Criteria) (*Page[T], error) {
	return f(ctx, path, query)
}

// Iterator is the pull interface shared by the iterators in this package.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// PaginationIterator yields items across pages, fetching lazily and one page
// at a time. It is single-pass and not safe for concurrent use.
type PaginationIterator[T any] struct {
	ctx      context.Context
	fetcher  PageFetcher[T]
	path     string
	criteria Criteria
	mode     PaginationMode
	pageSize int
	maxItems int
	offset   int
	startKey string

	buffer   []T
	position int
	yielded  int
	pages    int
	done     bool
	err      error
	reported bool
}

// NewPaginationIterator creates an iterator. Nothing is fetched until the
// first HasNext or Next call.
func NewPaginationIterator[T any](
	ctx context.Context,
	fetcher PageFetcher[T],
	path string,
	criteria Criteria,
	opts *PaginationOptions,
) *PaginationIterator[T] {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	mode := opts.Mode
	if mode == "" {
		mode = PaginationModeOffset
	}

	maxItems := -1
	if opts.MaxItems != nil {
		maxItems = *opts.MaxItems
	}

	return &PaginationIterator[T]{
		ctx:      ctx,
		fetcher:  fetcher,
		path:     path,
		criteria: criteria,
		mode:     mode,
		pageSize: pageSize,
		maxItems: maxItems,
		offset:   opts.Offset,
		startKey: opts.StartKey,
	}
}

// HasNext reports whether Next will return an item or a pending error.
// It may fetch the next page.
func (p *PaginationIterator[T]) HasNext() bool {
	if p.err != nil {
		return !p.reported
	}

	if p.capped() {
		return false
	}

	if p.position < len(p.buffer) {
		return true
	}

	if p.done {
		return false
	}

	p.fetch()

	if p.err != nil {
		return true
	}

	return p.position < len(p.buffer)
}

// Next returns the next item. After the last item it returns ErrNoMoreItems.
// A fetch failure is returned once, after which the iterator is finished.
func (p *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !p.HasNext() {
		return zero, ErrNoMoreItems
	}

	if p.err != nil {
		p.reported = true

		return zero, p.err
	}

	item := p.buffer[p.position]
	p.position++
	p.yielded++

	return item, nil
}

// All drains the iterator. On error the items read so far are returned
// together with the error.
func (p *PaginationIterator[T]) All() ([]T, error) {
	return Collect[T](p)
}

// ForEach calls fn for every item, stopping at the first error.
func (p *PaginationIterator[T]) ForEach(fn func(T) error) error {
	return ForEach[T](p, fn)
}

// Seq adapts the iterator to range-over-func.
func (p *PaginationIterator[T]) Seq() iter.Seq2[T, error] {
	return Seq[T](p)
}

// PagesFetched returns the number of page requests made so far.
func (p *PaginationIterator[T]) PagesFetched() int {
	return p.pages
}

// Err returns the error that ended iteration, if any.
func (p *PaginationIterator[T]) Err() error {
	return p.err
}

func (p *PaginationIterator[T]) capped() bool {
	return p.maxItems >= 0 && p.yielded >= p.maxItems
}

func (p *PaginationIterator[T]) limit() int {
	if p.maxItems < 0 {
		return p.pageSize
	}

	return min(p.pageSize, p.maxItems-p.yielded)
}

func (p *PaginationIterator[T]) fetch() {
	p.buffer = nil
	p.position = 0

	if err := p.ctx.Err(); err != nil {
		p.fail(err)

		return
	}

	limit := p.limit()
	query := p.criteria.With(constants.ParamLimit, strconv.Itoa(limit))

	switch p.mode {
	case PaginationModeKey:
		if p.startKey != "" {
			query = query.With(constants.ParamStartKey, p.startKey)
		}
	default:
		// the first page goes out without an offset unless one was requested
		if p.offset > 0 || p.pages > 0 {
			query = query.With(constants.ParamOffset, strconv.Itoa(p.offset))
		}
	}

	page, err := p.fetcher.FetchPage(p.ctx, p.path, query)
	p.pages++

	if err != nil {
		p.fail(fmt.Errorf("fetching page %d of %s: %w", p.pages, p.path, err))

		return
	}

	if page == nil || len(page.Items) == 0 {
		p.done = true

		return
	}

	p.buffer = page.Items

	if len(page.Items) < limit {
		p.done = true

		return
	}

	switch p.mode {
	case PaginationModeKey:
		if page.LastKey == "" || page.LastKey == p.startKey {
			p.done = true

			return
		}

		p.startKey = page.LastKey
	default:
		if page.Offset == nil {
			p.done = true

			return
		}

		p.offset = *page.Offset + len(page.Items)
	}
}

func (p *PaginationIterator[T]) fail(err error) {
	p.err = err
	p.done = true
	p.buffer = nil
}

// HydratingIterator wraps a search iterator and fetches the full entity for
// every partial record, one Get per record, in order.
type HydratingIterator[S, T any] struct {
	ctx    context.Context
	source Iterator[S]
	id     func(S) string
	getter Getter[T]
	kind   string

	err      error
	reported bool
}

// NewHydratingIterator creates a HydratingIterator. id extracts the identifier
// from each partial record.
func NewHydratingIterator[S, T any](
	ctx context.Context,
	source Iterator[S],
	id func(S) string,
	getter Getter[T],
) *HydratingIterator[S, T] {
	return &HydratingIterator[S, T]{
		ctx:    ctx,
		source: source,
		id:     id,
		getter: getter,
		kind:   kindOf[T](),
	}
}

// HasNext reports whether Next will return an item or a pending error.
func (h *HydratingIterator[S, T]) HasNext() bool {
	if h.err != nil {
		return !h.reported
	}

	return h.source.HasNext()
}

// Next returns the next hydrated entity.
func (h *HydratingIterator[S, T]) Next() (T, error) {
	var zero T

	if !h.HasNext() {
		return zero, ErrNoMoreItems
	}

	if h.err != nil {
		h.reported = true

		return zero, h.err
	}

	partial, err := h.source.Next()
	if err != nil {
		return zero, h.fail(err)
	}

	id := h.id(partial)
	if id == "" {
		return zero, h.fail(&InvalidReferenceError{Kind: h.kind, Err: ErrMissingID})
	}

	entity, err := h.getter.Get(h.ctx, id)
	if err != nil {
		return zero, h.fail(fmt.Errorf("hydrating %s %s: %w", h.kind, id, asNotFound(h.kind, id, err)))
	}

	return entity, nil
}

// All drains the iterator.
func (h *HydratingIterator[S, T]) All() ([]T, error) {
	return Collect[T](h)
}

// ForEach calls fn for every entity, stopping at the first error.
func (h *HydratingIterator[S, T]) ForEach(fn func(T) error) error {
	return ForEach[T](h, fn)
}

// Seq adapts the iterator to range-over-func.
func (h *HydratingIterator[S, T]) Seq() iter.Seq2[T, error] {
	return Seq[T](h)
}

func (h *HydratingIterator[S, T]) fail(err error) error {
	h.err = err
	h.reported = true

	return err
}

// Collect drains it. Items read before a failure are returned with the error.
func Collect[T any](it Iterator[T]) ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach calls fn for every item of it.
func ForEach[T any](it Iterator[T], fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

// Seq adapts it to range-over-func. Iteration stops after the first error.
func Seq[T any](it Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.HasNext() {
			item, err := it.Next()
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// FetchAll creates an iterator and drains it.
func FetchAll[T any](
	ctx context.Context,
	fetcher PageFetcher[T],
	path string,
	criteria Criteria,
	opts *PaginationOptions,
) ([]T, error) {
	return NewPaginationIterator(ctx, fetcher, path, criteria, opts).All()
}
