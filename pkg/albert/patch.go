package albert

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// PatchOperation is the kind of change in a patch datum.
type PatchOperation string

const (
	PatchAdd    PatchOperation = "add"
	PatchUpdate PatchOperation = "update"
	PatchDelete PatchOperation = "delete"
)

// PatchDatum is one attribute change.
type PatchDatum struct {
	Operation PatchOperation `json:"operation"`
	Attribute string         `json:"attribute"`
	OldValue  any            `json:"oldValue,omitempty"`
	NewValue  any            `json:"newValue,omitempty"`
}

// PatchPayload is the body of a PATCH request.
type PatchPayload struct {
	Data []PatchDatum `json:"data"`
}

// IsEmpty reports whether the payload carries no changes.
func (p *PatchPayload) IsEmpty() bool {
	return p == nil || len(p.Data) == 0
}

// PatchField describes one updatable attribute of T. Value extracts the
// comparable value; reference fields should return the resolved id. Set
// fields return []string and are diffed element by element.
type PatchField[T any] struct {
	Attribute string
	Set       bool
	Value     func(*T) (any, error)
}

// Attr is a PatchField for a plain attribute.
func Attr[T any](attribute string, value func(*T) any) PatchField[T] {
	return PatchField[T]{
		Attribute: attribute,
		Value:     func(t *T) (any, error) { return value(t), nil },
	}
}

// RefAttr is a PatchField for a single reference, compared by id.
func RefAttr[T any, R Linkable](attribute string, ref func(*T) Ref[R]) PatchField[T] {
	return PatchField[T]{
		Attribute: attribute,
		Value: func(t *T) (any, error) {
			link, err := ref(t).Resolve()
			if err != nil || link == nil {
				return nil, err
			}

			return link.ID, nil
		},
	}
}

// RefSetAttr is a PatchField for a list of references. Added ids produce
// "add" data and removed ids "delete" data.
func RefSetAttr[T any, R Linkable](attribute string, refs func(*T) []Ref[R]) PatchField[T] {
	return PatchField[T]{
		Attribute: attribute,
		Set:       true,
		Value: func(t *T) (any, error) {
			links, err := ResolveAll(refs(t))
			if err != nil {
				return nil, err
			}

			ids := make([]string, len(links))
			for i, link := range links {
				ids[i] = link.ID
			}

			return ids, nil
		},
	}
}

var patchCompare = cmp.Options{cmpopts.EquateEmpty()}

// GeneratePatch diffs existing against updated over fields, in field order.
func GeneratePatch[T any](existing, updated *T, fields []PatchField[T]) (*PatchPayload, error) {
	payload := &PatchPayload{Data: []PatchDatum{}}

	for _, field := range fields {
		oldValue, err := field.Value(existing)
		if err != nil {
			return nil, err
		}

		newValue, err := field.Value(updated)
		if err != nil {
			return nil, err
		}

		if field.Set {
			oldIDs, _ := oldValue.([]string)
			newIDs, _ := newValue.([]string)
			payload.Data = append(payload.Data, diffSet(field.Attribute, oldIDs, newIDs)...)

			continue
		}

		oldEmpty, newEmpty := isEmptyValue(oldValue), isEmptyValue(newValue)

		switch {
		case oldEmpty && newEmpty:
		case oldEmpty:
			payload.Data = append(payload.Data, PatchDatum{Operation: PatchAdd, Attribute: field.Attribute, NewValue: newValue})
		case newEmpty:
			payload.Data = append(payload.Data, PatchDatum{Operation: PatchDelete, Attribute: field.Attribute, OldValue: oldValue})
		case !cmp.Equal(oldValue, newValue, patchCompare):
			payload.Data = append(payload.Data, PatchDatum{
				Operation: PatchUpdate,
				Attribute: field.Attribute,
				OldValue:  oldValue,
				NewValue:  newValue,
			})
		}
	}

	return payload, nil
}

func diffSet(attribute string, oldIDs, newIDs []string) []PatchDatum {
	var data []PatchDatum

	oldSet := make(map[string]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}

	newSet := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true

		if !oldSet[id] {
			data = append(data, PatchDatum{Operation: PatchAdd, Attribute: attribute, NewValue: id})
		}
	}

	for _, id := range oldIDs {
		if !newSet[id] {
			data = append(data, PatchDatum{Operation: PatchDelete, Attribute: attribute, OldValue: id})
		}
	}

	return data
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
