package albert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Linkable is implemented by every model that can be referenced by id.
type Linkable interface {
	EntityLink() (EntityLink, error)
}

// Getter fetches a single entity by id.
type Getter[T any] interface {
	Get(ctx context.Context, id string) (T, error)
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc[T any] func(ctx context.Context, id string) (T, error)

// Get calls f(ctx, id).
func (f GetterFunc[T]) Get(ctx context.Context, id string) (T, error) {
	return f(ctx, id)
}

type refVariant uint8

const (
	refNone refVariant = iota
	refLink
	refEntity
)

// Ref is a field that holds either a link to an entity or the entity itself.
// The zero value holds nothing and is omitted from JSON with omitzero.
// On the wire a Ref is always the bare link {"id": "..."}; decoding yields
// the link variant and never fetches the entity.
type Ref[T Linkable] struct {
	variant refVariant
	link    EntityLink
	entity  T
}

// LinkTo references an entity by id.
func LinkTo[T Linkable](id string) Ref[T] {
	return Ref[T]{variant: refLink, link: EntityLink{ID: id}}
}

// RefOf wraps an existing link.
func RefOf[T Linkable](link EntityLink) Ref[T] {
	return Ref[T]{variant: refLink, link: link}
}

// RefTo references a full entity.
func RefTo[T Linkable](entity T) Ref[T] {
	return Ref[T]{variant: refEntity, entity: entity}
}

// IsZero reports whether the reference holds nothing.
func (r Ref[T]) IsZero() bool {
	return r.variant == refNone
}

// IsLink reports whether the reference holds a link only.
func (r Ref[T]) IsLink() bool {
	return r.variant == refLink
}

// IsEntity reports whether the reference holds a full entity.
func (r Ref[T]) IsEntity() bool {
	return r.variant == refEntity
}

// Entity returns the held entity, if any.
func (r Ref[T]) Entity() (T, bool) {
	return r.entity, r.variant == refEntity
}

// Link returns the held link, if any. It does not resolve entities.
func (r Ref[T]) Link() (EntityLink, bool) {
	return r.link, r.variant == refLink
}

// ID returns the resolved id, or "" when the reference cannot be resolved.
func (r Ref[T]) ID() string {
	link, err := r.Resolve()
	if err != nil || link == nil {
		return ""
	}

	return link.ID
}

// Resolve produces the link for the reference. The none variant resolves to
// nil without error.
func (r Ref[T]) Resolve() (*EntityLink, error) {
	switch r.variant {
	case refNone:
		return nil, nil
	case refLink:
		if r.link.ID == "" {
			return nil, &InvalidReferenceError{Kind: kindOf[T](), Err: ErrMissingID}
		}

		link := r.link

		return &link, nil
	case refEntity:
		link, err := r.entity.EntityLink()
		if err != nil {
			return nil, err
		}

		return &link, nil
	default:
		return nil, &InvalidReferenceError{Kind: kindOf[T](), Err: ErrEmptyReference}
	}
}

// EntityLink makes Ref itself Linkable. The none variant is an error here.
func (r Ref[T]) EntityLink() (EntityLink, error) {
	link, err := r.Resolve()
	if err != nil {
		return EntityLink{}, err
	}

	if link == nil {
		return EntityLink{}, &InvalidReferenceError{Kind: kindOf[T](), Err: ErrEmptyReference}
	}

	return *link, nil
}

// Hydrate returns the entity behind the reference. See Hydrate.
func (r Ref[T]) Hydrate(ctx context.Context, getter Getter[T]) (T, error) {
	return Hydrate(ctx, r, getter)
}

func (r *Ref[T]) linkName() string {
	if link, err := r.Resolve(); err == nil && link != nil {
		return link.Name
	}

	return ""
}

func (r *Ref[T]) setLinkName(name string) {
	if r.variant == refLink {
		r.link.Name = name
	}
}

type wireLink struct {
	ID string `json:"id"`
}

// MarshalJSON writes the bare link. Advisory names and entity bodies are
// never sent.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	link, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	if link == nil {
		return []byte("null"), nil
	}

	return json.Marshal(wireLink{ID: link.ID})
}

// UnmarshalJSON reads a link. Extra fields other than name are ignored.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref[T]{}

		return nil
	}

	var link EntityLink
	if err := json.Unmarshal(data, &link); err != nil {
		return fmt.Errorf("decoding %s reference: %w", kindOf[T](), err)
	}

	*r = RefOf[T](link)

	return nil
}

// MarshalYAML writes the link with its advisory name, for display.
func (r Ref[T]) MarshalYAML() (any, error) {
	link, err := r.Resolve()
	if err != nil || link == nil {
		return nil, err
	}

	return *link, nil
}

// UnmarshalYAML reads a link.
func (r *Ref[T]) UnmarshalYAML(node *yaml.Node) error {
	var link EntityLink
	if err := node.Decode(&link); err != nil {
		return fmt.Errorf("decoding %s reference: %w", kindOf[T](), err)
	}

	*r = RefOf[T](link)

	return nil
}

// ResolveAll resolves each reference in order. The first failure aborts and
// names its index.
func ResolveAll[T Linkable](refs []Ref[T]) ([]EntityLink, error) {
	links := make([]EntityLink, 0, len(refs))

	for i, ref := range refs {
		link, err := ref.EntityLink()
		if err != nil {
			return nil, fmt.Errorf("resolving reference %d: %w", i, err)
		}

		links = append(links, link)
	}

	return links, nil
}

// Hydrate fetches the entity behind ref. An entity variant is returned as is
// without any call; a link variant costs exactly one getter call. Missing
// entities surface as *NotFoundError.
func Hydrate[T Linkable](ctx context.Context, ref Ref[T], getter Getter[T]) (T, error) {
	var zero T

	switch ref.variant {
	case refEntity:
		return ref.entity, nil
	case refLink:
		if ref.link.ID == "" {
			return zero, &InvalidReferenceError{Kind: kindOf[T](), Err: ErrMissingID}
		}

		entity, err := getter.Get(ctx, ref.link.ID)
		if err != nil {
			return zero, asNotFound(kindOf[T](), ref.link.ID, err)
		}

		return entity, nil
	default:
		return zero, &InvalidReferenceError{Kind: kindOf[T](), Err: ErrEmptyReference}
	}
}

// HydrateAll hydrates each reference sequentially, preserving order.
func HydrateAll[T Linkable](ctx context.Context, refs []Ref[T], getter Getter[T]) ([]T, error) {
	entities := make([]T, 0, len(refs))

	for i, ref := range refs {
		entity, err := Hydrate(ctx, ref, getter)
		if err != nil {
			return nil, fmt.Errorf("hydrating reference %d: %w", i, err)
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func asNotFound(kind, id string, err error) error {
	if !IsNotFound(err) {
		return err
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return err
	}

	return &NotFoundError{Kind: kind, ID: id, Err: err}
}

// kindOf names the entity type for error messages, e.g. "inventory item".
func kindOf[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		return "entity"
	}

	return strcase.ToDelimited(name, ' ')
}
