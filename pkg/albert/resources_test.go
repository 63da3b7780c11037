package albert_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/albert-client/pkg/albert"
)

func floatPtr(f float64) *float64 { return &f }

func TestNewInventoryItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    albert.InventoryItem
		want    albert.UnitCategory
		wantErr error
	}{
		{
			name: "raw materials default to mass",
			item: albert.InventoryItem{Name: "Acetone", Category: albert.CategoryRawMaterials},
			want: albert.UnitCategoryMass,
		},
		{
			name: "equipment defaults to units",
			item: albert.InventoryItem{Name: "Mixer", Category: albert.CategoryEquipment},
			want: albert.UnitCategoryUnits,
		},
		{
			name: "explicit unit category is kept",
			item: albert.InventoryItem{Name: "Ethanol", Category: albert.CategoryRawMaterials, UnitCategory: albert.UnitCategoryVolume},
			want: albert.UnitCategoryVolume,
		},
		{
			name:    "formula needs a project",
			item:    albert.InventoryItem{Name: "Blend", Category: albert.CategoryFormulas},
			wantErr: albert.ErrFormulaProjectID,
		},
		{
			name: "formula with project",
			item: albert.InventoryItem{Name: "Blend", Category: albert.CategoryFormulas, ProjectID: "PRO1"},
			want: albert.UnitCategoryMass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item, err := albert.NewInventoryItem(tt.item)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, item.UnitCategory)
		})
	}
}

func TestInventoryItem_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item albert.InventoryItem
	}{
		{"missing name", albert.InventoryItem{Category: albert.CategoryConsumables}},
		{"unknown category", albert.InventoryItem{Name: "x", Category: "Snacks"}},
		{"bad class", albert.InventoryItem{Name: "x", Category: albert.CategoryConsumables, SecurityClass: "secret"}},
		{"company without id", albert.InventoryItem{
			Name:     "x",
			Category: albert.CategoryConsumables,
			Company:  albert.RefTo(&albert.Company{Name: "Acme"}),
		}},
		{"cas out of range", albert.InventoryItem{
			Name:     "x",
			Category: albert.CategoryConsumables,
			Cas:      []albert.CasAmount{{Cas: albert.LinkTo[*albert.Cas]("CAS1"), Max: floatPtr(120)}},
		}},
		{"minimum without location", albert.InventoryItem{
			Name:     "x",
			Category: albert.CategoryConsumables,
			Minimum:  []albert.InventoryMinimum{{Minimum: 5}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := albert.NewInventoryItem(tt.item)
			require.Error(t, err)
		})
	}
}

func TestInventoryItem_WireForm(t *testing.T) {
	t.Parallel()

	item := albert.InventoryItem{
		Name:     "Acetone",
		Category: albert.CategoryRawMaterials,
		Company:  albert.RefTo(&albert.Company{ID: "COM1", Name: "Acme"}),
		Tags:     []albert.Ref[*albert.Tag]{albert.LinkTo[*albert.Tag]("TAG1")},
		Cas: []albert.CasAmount{
			{Cas: albert.RefTo(&albert.Cas{ID: "CAS1", Number: "67-64-1"}), Min: floatPtr(99.5)},
		},
		Minimum: []albert.InventoryMinimum{
			{Location: albert.LinkTo[*albert.Location]("LOC1"), Minimum: 10},
		},
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "Acetone",
		"category": "RawMaterials",
		"Company": {"id": "COM1"},
		"Tags": [{"id": "TAG1"}],
		"Cas": [{"id": "CAS1", "min": 99.5}],
		"Minimum": [{"id": "LOC1", "minimum": 10}]
	}`, string(data))

	var decoded albert.InventoryItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Company.IsLink())
	assert.Equal(t, "COM1", decoded.Company.ID())
	assert.Equal(t, "CAS1", decoded.Cas[0].Cas.ID())
	assert.Equal(t, "LOC1", decoded.Minimum[0].Location.ID())
}

func TestInventoryItem_YAML(t *testing.T) {
	t.Parallel()

	item := albert.InventoryItem{
		Name:     "Acetone",
		Category: albert.CategoryRawMaterials,
		Company:  albert.RefTo(&albert.Company{ID: "COM1", Name: "Acme"}),
		Tags:     []albert.Ref[*albert.Tag]{albert.LinkTo[*albert.Tag]("TAG1")},
		Cas: []albert.CasAmount{
			{Cas: albert.RefTo(&albert.Cas{ID: "CAS1", Number: "67-64-1"}), Min: floatPtr(99.5)},
		},
		Minimum: []albert.InventoryMinimum{
			{Location: albert.LinkTo[*albert.Location]("LOC1"), Minimum: 10},
		},
	}

	data, err := yaml.Marshal(item)
	require.NoError(t, err)

	assert.YAMLEq(t, `
name: Acetone
category: RawMaterials
company: {id: COM1, name: Acme}
tags: [{id: TAG1}]
cas: [{cas: {id: CAS1, name: "67-64-1"}, min: 99.5}]
minimum: [{location: {id: LOC1}, minimum: 10}]
`, string(data))

	var decoded albert.InventoryItem
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	link, ok := decoded.Company.Link()
	require.True(t, ok)
	assert.Equal(t, albert.EntityLink{ID: "COM1", Name: "Acme"}, link)
	assert.Equal(t, "LOC1", decoded.Minimum[0].Location.ID())
	assert.True(t, decoded.Tags[0].IsLink())
}

func TestTaskInventory_WireForm(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(albert.TaskInventory{
		Inventory: albert.RefTo(&albert.InventoryItem{ID: "INV1", Name: "Acetone"}),
		BatchSize: floatPtr(2.5),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"INV1","batchSize":2.5}`, string(data))

	_, err = json.Marshal(albert.TaskInventory{Inventory: albert.RefTo(&albert.InventoryItem{Name: "no id"})})
	require.Error(t, err)
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := albert.NewTask(albert.Task{Name: "Viscosity", Category: albert.TaskCategoryProperty})
	require.NoError(t, err)
	assert.Equal(t, "Viscosity", task.Name)

	_, err = albert.NewTask(albert.Task{Name: "Viscosity", Category: "Other"})
	require.Error(t, err)

	_, err = albert.NewTask(albert.Task{
		Name:     "Viscosity",
		Category: albert.TaskCategoryGeneral,
		Priority: "Urgent",
	})
	require.Error(t, err)
}

func TestSimpleConstructors(t *testing.T) {
	t.Parallel()

	_, err := albert.NewCompany("")
	require.Error(t, err)

	_, err = albert.NewTag("")
	require.Error(t, err)

	_, err = albert.NewCas("")
	require.Error(t, err)

	_, err = albert.NewLocation("Lab", "1 Main St", 95, 0)
	require.Error(t, err)

	location, err := albert.NewLocation("Lab", "1 Main St", 45.5, -122.6)
	require.NoError(t, err)
	assert.Equal(t, "Lab", location.Name)

	_, err = albert.NewProject("")
	require.Error(t, err)

	project, err := albert.NewProject("Coatings", albert.LinkTo[*albert.Location]("LOC1"))
	require.NoError(t, err)
	assert.Len(t, project.Locations, 1)

	_, err = albert.NewCustomField("purity", albert.FieldTypeNumber, "widgets")
	require.Error(t, err)
}

func TestEntityLink_MissingID(t *testing.T) {
	t.Parallel()

	linkables := []albert.Linkable{
		&albert.Company{}, &albert.Tag{}, &albert.Cas{}, &albert.Location{},
		&albert.User{}, &albert.Project{}, &albert.Task{}, &albert.InventoryItem{},
		&albert.CustomField{}, albert.EntityLink{},
	}

	for _, linkable := range linkables {
		_, err := linkable.EntityLink()
		require.ErrorIs(t, err, albert.ErrMissingID)
		assert.True(t, albert.IsInvalidReference(err))
	}
}
