package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func TestCompaniesClient_GetByName(t *testing.T) {
	t.Parallel()

	recorder := &queryRecorder{}
	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/companies", request.URL.Path)
		recorder.record(request)

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{
			"Items": []map[string]interface{}{
				{"albertId": "COM2", "name": "Acme Labs"},
				{"albertId": "COM1", "name": "ACME"},
			},
		})
	}))

	company, err := client.Companies().GetByName(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "COM1", company.ID)

	queries := recorder.all()
	require.Len(t, queries, 1)
	assert.Equal(t, "acme", queries[0].Get("name"))
	assert.Equal(t, "true", queries[0].Get("exactMatch"))
	assert.Equal(t, "false", queries[0].Get("dupDetection"))

	_, err = client.Companies().GetByName(context.Background(), "Initech")
	require.Error(t, err)
	assert.True(t, albert.IsNotFound(err))

	exists, err := client.Companies().Exists(context.Background(), "Initech")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompaniesClient_CreateReturnsExisting(t *testing.T) {
	t.Parallel()

	var posts atomic.Int32

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodPost {
			posts.Add(1)
		}

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{
			"Items": []map[string]interface{}{{"albertId": "COM1", "name": "Acme"}},
		})
	}))

	company, err := client.Companies().Create(context.Background(), &albert.Company{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "COM1", company.ID)
	assert.Zero(t, posts.Load())
}

func TestCompaniesClient_CreateNew(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodGet {
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"Items": []interface{}{}})

			return
		}

		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, map[string]interface{}{"name": "Initech"}, readJSON(t, request))
		writeJSON(t, writer, http.StatusCreated, map[string]interface{}{"albertId": "COM9", "name": "Initech"})
	}))

	company, err := client.Companies().Create(context.Background(), &albert.Company{Name: "Initech"})
	require.NoError(t, err)
	assert.Equal(t, "COM9", company.ID)
}

func TestCompaniesClient_Rename(t *testing.T) {
	t.Parallel()

	var patched atomic.Bool

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/companies/COM1", request.URL.Path)

		if request.Method == http.MethodPatch {
			patched.Store(true)
			assert.Equal(t, map[string]interface{}{
				"data": []interface{}{map[string]interface{}{
					"operation": "update", "attribute": "name", "oldValue": "Acme", "newValue": "Acme Corp",
				}},
			}, readJSON(t, request))
			writer.WriteHeader(http.StatusNoContent)

			return
		}

		name := "Acme"
		if patched.Load() {
			name = "Acme Corp"
		}

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{"albertId": "COM1", "name": name})
	}))

	company, err := client.Companies().Rename(context.Background(), "1", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", company.Name)
}

func TestTagsClient_Rename(t *testing.T) {
	t.Parallel()

	var patched atomic.Bool

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodPatch:
			assert.Equal(t, "/api/v3/tags", request.URL.Path)
			assert.Equal(t, []interface{}{map[string]interface{}{
				"id": "TAG4",
				"data": []interface{}{map[string]interface{}{
					"operation": "update", "attribute": "name", "oldValue": "hplc", "newValue": "HPLC",
				}},
			}}, readJSON(t, request))

			patched.Store(true)
			writer.WriteHeader(http.StatusNoContent)
		case request.URL.Path == "/api/v3/tags/TAG4":
			name := "hplc"
			if patched.Load() {
				name = "HPLC"
			}

			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"albertId": "TAG4", "name": name})
		default:
			t.Errorf("unexpected %s %s", request.Method, request.URL.Path)
		}
	}))

	tag, err := client.Tags().Rename(context.Background(), "TAG4", "HPLC")
	require.NoError(t, err)
	assert.Equal(t, "HPLC", tag.Name)
	assert.True(t, patched.Load())
}

func TestTagsClient_List(t *testing.T) {
	t.Parallel()

	tags := []albert.Tag{{ID: "TAG1", Name: "a"}, {ID: "TAG2", Name: "b"}, {ID: "TAG3", Name: "c"}, {ID: "TAG4", Name: "d"}}
	recorder := &queryRecorder{}
	client := NewTestClient(t, pagedHandler(t, tags, recorder))

	it, err := client.Tags().List(context.Background(), albert.NewQueryParams().WithPageSize(2))
	require.NoError(t, err)

	var names []string
	for tag, err := range it.Seq() {
		require.NoError(t, err)
		names = append(names, tag.Name)
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, names)

	queries := recorder.all()
	require.Len(t, queries, 2)
	assert.Empty(t, queries[0].Get("startKey"))
	assert.Equal(t, "2", queries[1].Get("startKey"))
	assert.Equal(t, 2, it.PagesFetched())
}

func TestTagsClient_CreateReturnsExisting(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		writeJSON(t, writer, http.StatusOK, map[string]interface{}{
			"Items": []map[string]interface{}{{"albertId": "TAG1", "name": "Solvent"}},
		})
	}))

	tag, err := client.Tags().Create(context.Background(), &albert.Tag{Name: "solvent"})
	require.NoError(t, err)
	assert.Equal(t, "TAG1", tag.ID)
}
