package albert

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrBaseURLRequired       = errors.New("base URL is required")
	ErrMissingID             = errors.New("entity has no identifier")
	ErrNilEntity             = errors.New("entity is nil")
	ErrEmptyReference        = errors.New("reference is empty")
	ErrNoMoreItems           = errors.New("no more items")
	ErrEmptyFilterKey        = errors.New("filter key is empty")
	ErrEmptyFilterValues     = errors.New("filter value sequence is empty")
	ErrUnsupportedFilterType = errors.New("unsupported filter value type")
	ErrNestedSequence        = errors.New("nested sequences are not supported")
	ErrInvalidPaginationMode = errors.New("invalid pagination mode")
	ErrFormulaProjectID      = errors.New("formulas require a project ID")
	ErrUnknownCacheType      = errors.New("unknown cache type")
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrCacheEntryMismatch    = errors.New("cached entry does not match entity shape")
	ErrAmbiguousName         = errors.New("more than one entity matches the name")
)

// InvalidReferenceError reports a reference that cannot produce an identifier.
type InvalidReferenceError struct {
	Kind string
	Err  error
}

func (e *InvalidReferenceError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("invalid reference: %v", e.Err)
	}

	return fmt.Sprintf("invalid %s reference: %v", e.Kind, e.Err)
}

func (e *InvalidReferenceError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that a lookup by identifier found nothing.
type NotFoundError struct {
	Kind string
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "entity"
	}

	return fmt.Sprintf("%s %q not found", kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// InvalidFilterError reports a filter entry that cannot be normalized.
type InvalidFilterError struct {
	Key string
	Err error
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Key, e.Err)
}

func (e *InvalidFilterError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Title   string            `json:"title"`
	Message string            `json:"message"`
	URL     string            `json:"url"`
	Errors  []json.RawMessage `json:"errors"`
}

// Details flattens the errors array into printable strings.
func (r *ErrorResponse) Details() []string {
	details := make([]string, 0, len(r.Errors))

	for _, raw := range r.Errors {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			details = append(details, text)

			continue
		}

		details = append(details, string(raw))
	}

	return details
}

// TransportError represents a failed HTTP exchange: either a non-success
// status code or a network failure (StatusCode is zero in that case).
type TransportError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	Details    []string
	Err        error
}

// NewTransportError builds a TransportError from a response status and body.
func NewTransportError(method, path string, statusCode int, body []byte) *TransportError {
	transportErr := &TransportError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
	}

	var response ErrorResponse
	if err := json.Unmarshal(body, &response); err == nil {
		transportErr.Message = response.Message
		if transportErr.Message == "" {
			transportErr.Message = response.Title
		}

		transportErr.Details = response.Details()
	}

	if transportErr.Message == "" {
		transportErr.Message = http.StatusText(statusCode)
	}

	return transportErr
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}

	msg := fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}

	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if an error is an authentication error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if an error is an authorization error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsInvalidFilter checks if an error came from filter normalization.
func IsInvalidFilter(err error) bool {
	var filterErr *InvalidFilterError

	return errors.As(err, &filterErr)
}

// IsInvalidReference checks if an error came from reference resolution.
func IsInvalidReference(err error) bool {
	var refErr *InvalidReferenceError

	return errors.As(err, &refErr)
}

// IsTransport checks if an error came from the HTTP layer.
func IsTransport(err error) bool {
	var transportErr *TransportError

	return errors.As(err, &transportErr)
}

func hasStatus(err error, status int) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == status
	}

	return false
}
