package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

// NewTestClient starts a server with handler and returns a client for it.
func NewTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), &albert.Config{BaseURL: server.URL, Token: "test-token"})
	require.NoError(t, err)

	return client
}

// writeJSON writes body as a JSON response.
func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		assert.NoError(t, json.NewEncoder(writer).Encode(body))
	}
}

// readJSON decodes a request body into a generic value.
func readJSON(t *testing.T, request *http.Request) interface{} {
	t.Helper()

	data, err := io.ReadAll(request.Body)
	assert.NoError(t, err)

	var out interface{}
	assert.NoError(t, json.Unmarshal(data, &out))

	return out
}

// notFoundBody is the error payload the API returns for unknown ids.
func notFoundBody() map[string]interface{} {
	return map[string]interface{}{
		"title":   "Not Found",
		"message": "entity not found",
	}
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	WantNotFound bool
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)

				if testCase.WantErr {
					writeJSON(t, writer, testCase.StatusCode, notFoundBody())

					return
				}

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))

			result, err := getFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				if testCase.WantNotFound {
					var notFound *albert.NotFoundError
					assert.ErrorAs(t, err, &notFound)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, testCase.Response, result)
			}
		})
	}
}

// TestDeleteOperation represents a generic delete operation test case.
type TestDeleteOperation struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	WantErr      bool
	ErrMessage   string
}

// RunDeleteTests runs a series of delete operation tests.
func RunDeleteTests(
	t *testing.T,
	tests []TestDeleteOperation,
	deleteFunc func(*Client) func(context.Context, string) error,
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodDelete, request.Method)

				if testCase.WantErr {
					writeJSON(t, writer, testCase.StatusCode, notFoundBody())

					return
				}

				writer.WriteHeader(testCase.StatusCode)
			}))

			err := deleteFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// queryRecorder keeps the query of every request a handler receives.
type queryRecorder struct {
	mu      sync.Mutex
	queries []url.Values
}

func (r *queryRecorder) record(request *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = append(r.queries, request.URL.Query())
}

func (r *queryRecorder) all() []url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]url.Values(nil), r.queries...)
}

// pagedHandler serves items in key mode, honoring limit and startKey. The
// key is the index of the next item.
func pagedHandler[T any](t *testing.T, items []T, recorder *queryRecorder) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		recorder.record(request)

		start := 0
		if key := request.URL.Query().Get("startKey"); key != "" {
			var err error
			start, err = strconv.Atoi(key)
			assert.NoError(t, err)
		}

		limit := len(items)
		if l := request.URL.Query().Get("limit"); l != "" {
			var err error
			limit, err = strconv.Atoi(l)
			assert.NoError(t, err)
		}

		end := min(start+limit, len(items))
		page := map[string]interface{}{"Items": items[start:end]}

		if end < len(items) {
			page["lastKey"] = strconv.Itoa(end)
		}

		writeJSON(t, writer, http.StatusOK, page)
	}
}
