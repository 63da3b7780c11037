package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func TestTasksClient_Create(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/tasks/multi", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "Property", request.URL.Query().Get("category"))
		assert.Equal(t, "PRO9", request.URL.Query().Get("parentId"))

		body, ok := readJSON(t, request).([]interface{})
		assert.True(t, ok)
		assert.Len(t, body, 1)

		task, ok := body[0].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Viscosity check", task["name"])
		assert.Equal(t, map[string]interface{}{"id": "USR3"}, task["AssignedTo"])
		assert.Equal(t, []interface{}{map[string]interface{}{"id": "INV1", "batchSize": 2.5}}, task["Inventories"])

		writeJSON(t, writer, http.StatusCreated, []map[string]interface{}{{
			"albertId": "TAS1",
			"name":     "Viscosity check",
			"category": "Property",
			"parentId": "PRO9",
		}})
	}))

	batch := 2.5
	task, err := albert.NewTask(albert.Task{
		Name:       "Viscosity check",
		Category:   albert.TaskCategoryProperty,
		ProjectID:  "PRO9",
		AssignedTo: albert.LinkTo[*albert.User]("USR3"),
		Inventories: []albert.TaskInventory{
			{Inventory: albert.LinkTo[*albert.InventoryItem]("INV1"), BatchSize: &batch},
		},
	})
	require.NoError(t, err)

	created, err := client.Tasks().Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "TAS1", created.ID)
	assert.Equal(t, "PRO9", created.ProjectID)
}

func TestTasksClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[albert.Task]{
		{
			Name:         "full task through multi endpoint",
			ID:           "12",
			ExpectedPath: "/api/v3/tasks/multi/TAS12",
			StatusCode:   http.StatusOK,
			Response: &albert.Task{
				ID:       "TAS12",
				Name:     "Batch 12",
				Category: albert.TaskCategoryBatch,
				Priority: albert.TaskPriorityHigh,
			},
		},
		{
			Name:         "not found",
			ID:           "TAS404",
			ExpectedPath: "/api/v3/tasks/multi/TAS404",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			WantNotFound: true,
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*albert.Task, error) {
		return c.Tasks().Get
	})
}

func TestTasksClient_Update(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodGet && request.URL.Path == "/api/v3/tasks/multi/TAS5":
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"albertId": "TAS5",
				"name":     "Check",
				"category": "General",
				"priority": "Low",
			})
		case request.Method == http.MethodPatch && request.URL.Path == "/api/v3/tasks/TAS5":
			body, ok := readJSON(t, request).(map[string]interface{})
			assert.True(t, ok)
			assert.Equal(t, []interface{}{
				map[string]interface{}{"operation": "update", "attribute": "priority", "oldValue": "Low", "newValue": "High"},
				map[string]interface{}{"operation": "add", "attribute": "Location", "newValue": "LOC2"},
			}, body["data"])

			writer.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", request.Method, request.URL.Path)
		}
	}))

	_, err := client.Tasks().Update(context.Background(), &albert.Task{
		ID:       "TAS5",
		Name:     "Check",
		Category: albert.TaskCategoryGeneral,
		Priority: albert.TaskPriorityHigh,
		Location: albert.LinkTo[*albert.Location]("LOC2"),
	})
	require.NoError(t, err)
}

func TestTasksClient_Search(t *testing.T) {
	t.Parallel()

	recorder := &queryRecorder{}
	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/tasks/search", request.URL.Path)
		recorder.record(request)

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{
			"Items":  []map[string]interface{}{{"albertId": "TAS1", "name": "t", "category": "General"}},
			"offset": 0,
		})
	}))

	it, err := client.Tasks().Search(context.Background(), albert.NewQueryParams().
		WithFilter("projectId", albert.LinkTo[*albert.Project]("PRO1")))
	require.NoError(t, err)

	items, err := it.All()
	require.NoError(t, err)
	require.Len(t, items, 1)

	queries := recorder.all()
	require.Len(t, queries, 1)
	assert.Equal(t, "PRO1", queries[0].Get("projectId"))
}
