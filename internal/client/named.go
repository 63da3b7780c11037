package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/albert-client/internal/constants"
	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// namedResource adds exact-name lookup and duplicate-avoiding creation to a
// collection listed in key mode.
type namedResource[T any] struct {
	resource resourceClient[T]
	pageSize int
	name     func(*T) string
	defaults []albert.Filter
}

func (n namedResource[T]) list(ctx context.Context, params *albert.QueryParams) (*albert.PaginationIterator[*T], error) {
	return newIterator[*T](ctx, n.resource.httpClient, listing{
		path:     n.resource.basePath,
		mode:     albert.PaginationModeKey,
		pageSize: n.pageSize,
		defaults: n.defaults,
	}, params)
}

// getByName returns the first entity whose name matches, ignoring case.
func (n namedResource[T]) getByName(ctx context.Context, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &albert.InvalidReferenceError{Kind: n.resource.kind, Err: albert.ErrMissingID}
	}

	params := albert.NewQueryParams().
		WithFilter(constants.ParamName, name).
		WithFilter(constants.ParamExactMatch, true)

	it, err := n.list(ctx, params)
	if err != nil {
		return nil, err
	}

	for it.HasNext() {
		entity, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("looking up %s by name: %w", n.resource.kind, err)
		}

		if strings.EqualFold(n.name(entity), name) {
			return entity, nil
		}
	}

	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("looking up %s by name: %w", n.resource.kind, err)
	}

	return nil, &albert.NotFoundError{Kind: n.resource.kind, ID: name}
}

func (n namedResource[T]) exists(ctx context.Context, name string) (bool, error) {
	_, err := n.getByName(ctx, name)
	if err == nil {
		return true, nil
	}

	if albert.IsNotFound(err) {
		return false, nil
	}

	return false, err
}

// createUnique returns the existing entity when one with the same name is
// already stored.
func (n namedResource[T]) createUnique(ctx context.Context, entity *T) (*T, error) {
	existing, err := n.getByName(ctx, n.name(entity))
	if err == nil {
		if logger := n.resource.httpClient.Logger(); logger != nil {
			logger.Warn(fmt.Sprintf("%s already exists, returning existing entity", n.resource.kind), map[string]interface{}{
				"name": n.name(existing),
			})
		}

		return existing, nil
	}

	if !albert.IsNotFound(err) {
		return nil, err
	}

	return n.resource.create(ctx, entity)
}
