package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func TestLocationsClient(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation[albert.Location]{
		{
			Name:         "found",
			ID:           "LOC1",
			ExpectedPath: "/api/v3/locations/LOC1",
			StatusCode:   http.StatusOK,
			Response:     &albert.Location{ID: "LOC1", Name: "Lab A", Latitude: 40.7, Longitude: -74, Address: "1 Main St"},
		},
	}, func(c *Client) func(context.Context, string) (*albert.Location, error) {
		return c.Locations().Get
	})

	t.Run("create rejects invalid coordinates", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
			t.Errorf("unexpected request %s", request.URL.Path)
		}))

		_, err := client.Locations().Create(context.Background(), &albert.Location{Name: "Nowhere", Latitude: 100})
		require.Error(t, err)
	})

	t.Run("list pages by key", func(t *testing.T) {
		t.Parallel()

		locations := []albert.Location{{ID: "LOC1", Name: "a"}, {ID: "LOC2", Name: "b"}, {ID: "LOC3", Name: "c"}}
		recorder := &queryRecorder{}
		client := NewTestClient(t, pagedHandler(t, locations, recorder))

		it, err := client.Locations().List(context.Background(), albert.NewQueryParams().WithPageSize(2))
		require.NoError(t, err)

		all, err := it.All()
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Len(t, recorder.all(), 2)
	})
}

func TestCasClient_GetByNumber(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v3/cas", request.URL.Path)
		assert.Equal(t, "67-64-1", request.URL.Query().Get("number"))

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{
			"Items": []map[string]interface{}{{"albertId": "CAS5", "number": "67-64-1", "name": "acetone"}},
		})
	}))

	cas, err := client.Cas().GetByNumber(context.Background(), " 67-64-1 ")
	require.NoError(t, err)
	assert.Equal(t, "CAS5", cas.ID)

	_, err = client.Cas().GetByNumber(context.Background(), "")
	assert.True(t, albert.IsInvalidReference(err))
}

func TestUsersClient(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v3/users/USR1":
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"albertId": "USR1",
				"name":     "Ada",
				"Location": map[string]interface{}{"id": "LOC1"},
			})
		case "/api/v3/users/search":
			assert.Equal(t, "ada", request.URL.Query().Get("text"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"Items":  []map[string]interface{}{{"albertId": "USR1", "name": "Ada"}},
				"offset": 0,
			})
		default:
			t.Errorf("unexpected path %s", request.URL.Path)
		}
	}))

	user, err := client.Users().Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "LOC1", user.Location.ID())

	it, err := client.Users().Search(context.Background(), albert.NewQueryParams().WithText("ada"))
	require.NoError(t, err)

	users, err := it.All()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)
}

func TestCustomFieldsClient(t *testing.T) {
	t.Parallel()

	t.Run("get by name filters on service", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v3/customfields", request.URL.Path)
			assert.Equal(t, "purity", request.URL.Query().Get("name"))
			assert.Equal(t, "inventories", request.URL.Query().Get("service"))

			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"Items": []map[string]interface{}{
					{"albertId": "CF1", "name": "purity", "type": "number", "service": "projects"},
					{"albertId": "CF2", "name": "purity", "type": "number", "service": "inventories"},
				},
			})
		}))

		field, err := client.CustomFields().GetByName(context.Background(), "purity", albert.ServiceInventories)
		require.NoError(t, err)
		assert.Equal(t, "CF2", field.ID)
	})

	t.Run("update sends changed attributes", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v3/customfields/CF1", request.URL.Path)

			if request.Method == http.MethodPatch {
				assert.Equal(t, map[string]interface{}{
					"data": []interface{}{
						map[string]interface{}{"operation": "add", "attribute": "labelName", "newValue": "Purity (%)"},
					},
				}, readJSON(t, request))
				writer.WriteHeader(http.StatusNoContent)

				return
			}

			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"albertId": "CF1", "name": "purity", "type": "number", "service": "inventories",
			})
		}))

		_, err := client.CustomFields().Update(context.Background(), &albert.CustomField{
			ID:          "CF1",
			Name:        "purity",
			FieldType:   albert.FieldTypeNumber,
			Service:     albert.ServiceInventories,
			DisplayName: "Purity (%)",
		})
		require.NoError(t, err)
	})
}
