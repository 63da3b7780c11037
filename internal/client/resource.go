package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/fivetwenty-io/albert-client/internal/http"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// resourceClient holds the CRUD plumbing shared by every collection.
type resourceClient[T any] struct {
	httpClient *http.Client
	basePath   string
	prefix     string
	kind       string
}

func newResourceClient[T any](httpClient *http.Client, basePath, prefix, kind string) resourceClient[T] {
	return resourceClient[T]{
		httpClient: httpClient,
		basePath:   basePath,
		prefix:     prefix,
		kind:       kind,
	}
}

func (r resourceClient[T]) normalizeID(id string) string {
	return albert.EnsurePrefix(id, r.prefix)
}

func (r resourceClient[T]) itemPath(id string) string {
	return r.basePath + "/" + r.normalizeID(id)
}

func (r resourceClient[T]) create(ctx context.Context, body interface{}) (*T, error) {
	resp, err := r.httpClient.Post(ctx, r.basePath, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.kind, err)
	}

	return decode[T](resp.Body, r.kind)
}

func (r resourceClient[T]) get(ctx context.Context, id string) (*T, error) {
	return r.getPath(ctx, r.itemPath(id), r.normalizeID(id))
}

func (r resourceClient[T]) getPath(ctx context.Context, path, id string) (*T, error) {
	resp, err := r.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, notFound(r.kind, id, fmt.Errorf("getting %s: %w", r.kind, err))
	}

	return decode[T](resp.Body, r.kind)
}

func (r resourceClient[T]) delete(ctx context.Context, id string) error {
	_, err := r.httpClient.Delete(ctx, r.itemPath(id))
	if err != nil {
		return notFound(r.kind, r.normalizeID(id), fmt.Errorf("deleting %s: %w", r.kind, err))
	}

	return nil
}

func (r resourceClient[T]) patch(ctx context.Context, id string, payload *albert.PatchPayload) error {
	if payload.IsEmpty() {
		return nil
	}

	_, err := r.httpClient.Patch(ctx, r.itemPath(id), payload)
	if err != nil {
		return notFound(r.kind, r.normalizeID(id), fmt.Errorf("updating %s: %w", r.kind, err))
	}

	return nil
}

// update reads the current state, sends the diff and reads the result back.
func (r resourceClient[T]) update(ctx context.Context, id string, updated *T, fields []albert.PatchField[T]) (*T, error) {
	existing, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := albert.GeneratePatch(existing, updated, fields)
	if err != nil {
		return nil, fmt.Errorf("building %s patch: %w", r.kind, err)
	}

	if err := r.patch(ctx, id, payload); err != nil {
		return nil, err
	}

	return r.get(ctx, id)
}

func decode[T any](body []byte, kind string) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", kind, err)
	}

	return &out, nil
}

// notFound turns a 404 into an *albert.NotFoundError, keeping the chain.
func notFound(kind, id string, err error) error {
	var transportErr *albert.TransportError
	if !errors.As(err, &transportErr) || transportErr.StatusCode != nethttp.StatusNotFound {
		return err
	}

	return &albert.NotFoundError{Kind: kind, ID: id, Err: err}
}

// pageFetcher issues list requests with the criteria encoded in order.
type pageFetcher[T any] struct {
	httpClient *http.Client
}

func (f pageFetcher[T]) FetchPage(ctx context.Context, path string, query albert.Criteria) (*albert.Page[T], error) {
	resp, err := f.httpClient.Do(ctx, &http.Request{
		Method:   nethttp.MethodGet,
		Path:     path,
		RawQuery: query.Encode(),
	})
	if err != nil {
		return nil, err
	}

	var page albert.Page[T]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	return &page, nil
}

// listing describes how a collection's search or list endpoint is paged.
type listing struct {
	path     string
	mode     albert.PaginationMode
	pageSize int
	// defaults are applied before the caller's filters, which override them.
	defaults []albert.Filter
}

// newIterator validates params eagerly and returns an iterator that has not
// made any request yet.
func newIterator[T any](ctx context.Context, httpClient *http.Client, l listing, params *albert.QueryParams) (*albert.PaginationIterator[T], error) {
	criteria, err := params.Criteria()
	if err != nil {
		return nil, err
	}

	if len(l.defaults) > 0 {
		defaults, err := albert.NormalizeFilters(l.defaults...)
		if err != nil {
			return nil, err
		}

		for _, criterion := range defaults {
			if !criteria.Has(criterion.Key) {
				criteria = criteria.With(criterion.Key, criterion.Values...)
			}
		}
	}

	opts := params.PaginationOptions(l.mode)
	if (params == nil || params.PageSize == 0) && l.pageSize > 0 {
		opts.PageSize = l.pageSize
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return albert.NewPaginationIterator[T](ctx, pageFetcher[T]{httpClient: httpClient}, l.path, criteria, opts), nil
}
