package albert

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Filter is one (key, value) entry of a search request. Value may be a
// scalar, a slice of scalars, a Linkable (resolved to its id), a Filters set
// or a map[string]any naming sub-fields.
type Filter struct {
	Key   string
	Value any
}

// F is shorthand for Filter{Key: key, Value: value}.
func F(key string, value any) Filter {
	return Filter{Key: key, Value: value}
}

// Filters is an ordered, nested filter set. Used as a value it expands to
// "parent.sub" keys.
type Filters []Filter

// Criterion is one normalized query key with its string values.
type Criterion struct {
	Key    string
	Values []string
}

// Criteria is the normalized, ordered form of a filter set.
type Criteria []Criterion

// NormalizeFilters turns raw filters into Criteria. Key order follows first
// appearance, nil values are dropped and repeated keys are merged. Every
// invalid entry is reported, not just the first.
func NormalizeFilters(filters ...Filter) (Criteria, error) {
	n := &normalizer{index: make(map[string]int)}

	for _, filter := range filters {
		n.add("", filter)
	}

	if n.errs == nil {
		return n.criteria, nil
	}

	if len(n.errs.Errors) == 1 {
		return nil, n.errs.Errors[0]
	}

	return nil, n.errs.ErrorOrNil()
}

type normalizer struct {
	criteria Criteria
	index    map[string]int
	errs     *multierror.Error
}

func (n *normalizer) fail(key string, err error) {
	n.errs = multierror.Append(n.errs, &InvalidFilterError{Key: key, Err: err})
}

func (n *normalizer) add(prefix string, filter Filter) {
	key := strings.TrimSpace(filter.Key)
	if key == "" {
		n.fail(prefix, ErrEmptyFilterKey)

		return
	}

	if prefix != "" {
		key = prefix + "." + key
	}

	value := filter.Value
	if isNil(value) {
		return
	}

	switch v := value.(type) {
	case Filters:
		n.addAll(key, v)

		return
	case []Filter:
		n.addAll(key, v)

		return
	case map[string]any:
		if len(v) == 0 {
			n.fail(key, ErrEmptyFilterValues)

			return
		}

		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			n.add(key, Filter{Key: k, Value: v[k]})
		}

		return
	}

	values, err := filterValues(value)
	if err != nil {
		n.fail(key, err)

		return
	}

	if values == nil {
		return
	}

	n.merge(key, values)
}

func (n *normalizer) addAll(prefix string, filters []Filter) {
	if len(filters) == 0 {
		n.fail(prefix, ErrEmptyFilterValues)

		return
	}

	for _, sub := range filters {
		n.add(prefix, sub)
	}
}

func (n *normalizer) merge(key string, values []string) {
	if i, ok := n.index[key]; ok {
		n.criteria[i].Values = append(n.criteria[i].Values, values...)

		return
	}

	n.index[key] = len(n.criteria)
	n.criteria = append(n.criteria, Criterion{Key: key, Values: values})
}

// filterValues converts a scalar or a sequence into its string values. A nil
// result with nil error means the scalar should be dropped. A sequence always
// yields at least one value or an error.
func filterValues(value any) ([]string, error) {
	if s, ok := value.([]string); ok {
		if len(s) == 0 {
			return nil, ErrEmptyFilterValues
		}

		return append([]string(nil), s...), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if _, ok := value.(Linkable); !ok {
			if rv.Len() == 0 {
				return nil, ErrEmptyFilterValues
			}

			values := make([]string, 0, rv.Len())

			for i := range rv.Len() {
				elem := rv.Index(i).Interface()
				if isNil(elem) {
					continue
				}

				if isSequence(elem) {
					return nil, ErrNestedSequence
				}

				s, ok, err := scalarValue(elem)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}

				if ok {
					values = append(values, s)
				}
			}

			// every element was unset: a one-of with no choices
			if len(values) == 0 {
				return nil, ErrEmptyFilterValues
			}

			return values, nil
		}
	}

	s, ok, err := scalarValue(value)
	if err != nil || !ok {
		return nil, err
	}

	return []string{s}, nil
}

// scalarValue renders one value. ok is false for values that should be
// dropped, such as an empty Ref.
func scalarValue(value any) (string, bool, error) {
	if z, ok := value.(interface{ IsZero() bool }); ok && z.IsZero() {
		if _, isTime := value.(time.Time); !isTime {
			return "", false, nil
		}
	}

	switch v := value.(type) {
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), true, nil
	case Linkable:
		link, err := v.EntityLink()
		if err != nil {
			return "", false, err
		}

		return link.ID, true, nil
	case fmt.Stringer:
		return v.String(), true, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), true, nil
	default:
		return "", false, fmt.Errorf("%w: %T", ErrUnsupportedFilterType, value)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		// a nil slice is unset; an empty non-nil one is rejected later
		return rv.IsNil()
	default:
		return false
	}
}

func isSequence(value any) bool {
	if _, ok := value.(Linkable); ok {
		return false
	}

	kind := reflect.ValueOf(value).Kind()

	return kind == reflect.Slice || kind == reflect.Array
}

// Get returns the values for key, or nil.
func (c Criteria) Get(key string) []string {
	for _, criterion := range c {
		if criterion.Key == key {
			return criterion.Values
		}
	}

	return nil
}

// Has reports whether key is present.
func (c Criteria) Has(key string) bool {
	return c.Get(key) != nil
}

// Keys returns the keys in order.
func (c Criteria) Keys() []string {
	keys := make([]string, len(c))
	for i, criterion := range c {
		keys[i] = criterion.Key
	}

	return keys
}

// With returns a copy of c with key set to values, replacing any existing
// entry in place or appending a new one.
func (c Criteria) With(key string, values ...string) Criteria {
	out := make(Criteria, 0, len(c)+1)
	replaced := false

	for _, criterion := range c {
		if criterion.Key == key {
			out = append(out, Criterion{Key: key, Values: values})
			replaced = true

			continue
		}

		out = append(out, criterion)
	}

	if !replaced {
		out = append(out, Criterion{Key: key, Values: values})
	}

	return out
}

// Merge appends other to c, combining repeated keys.
func (c Criteria) Merge(other Criteria) Criteria {
	out := c.clone()

	for _, criterion := range other {
		merged := false

		for i := range out {
			if out[i].Key == criterion.Key {
				out[i].Values = append(out[i].Values, criterion.Values...)
				merged = true

				break
			}
		}

		if !merged {
			out = append(out, Criterion{Key: criterion.Key, Values: append([]string(nil), criterion.Values...)})
		}
	}

	return out
}

func (c Criteria) clone() Criteria {
	out := make(Criteria, len(c))
	for i, criterion := range c {
		out[i] = Criterion{Key: criterion.Key, Values: append([]string(nil), criterion.Values...)}
	}

	return out
}

// Filters converts the criteria back to filters, so that
// NormalizeFilters(c.Filters()...) equals c.
func (c Criteria) Filters() []Filter {
	filters := make([]Filter, len(c))
	for i, criterion := range c {
		filters[i] = Filter{Key: criterion.Key, Value: append([]string(nil), criterion.Values...)}
	}

	return filters
}

// Values converts the criteria to url.Values. Key order is lost; use Encode
// when order matters.
func (c Criteria) Values() url.Values {
	values := make(url.Values, len(c))
	for _, criterion := range c {
		values[criterion.Key] = append(values[criterion.Key], criterion.Values...)
	}

	return values
}

// Encode renders the criteria as a query string in key order, repeating keys
// that have several values.
func (c Criteria) Encode() string {
	var b strings.Builder

	for _, criterion := range c {
		key := url.QueryEscape(criterion.Key)

		for _, value := range criterion.Values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}

			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(value))
		}
	}

	return b.String()
}
