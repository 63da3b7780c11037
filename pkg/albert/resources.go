package albert

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// InventoryCategory classifies inventory items.
type InventoryCategory string

const (
	CategoryRawMaterials InventoryCategory = "RawMaterials"
	CategoryConsumables  InventoryCategory = "Consumables"
	CategoryEquipment    InventoryCategory = "Equipment"
	CategoryFormulas     InventoryCategory = "Formulas"
)

// UnitCategory is the measurement family of an inventory item.
type UnitCategory string

const (
	UnitCategoryMass     UnitCategory = "mass"
	UnitCategoryVolume   UnitCategory = "volume"
	UnitCategoryLength   UnitCategory = "length"
	UnitCategoryPressure UnitCategory = "pressure"
	UnitCategoryUnits    UnitCategory = "units"
)

// SecurityClass controls who may see an entity.
type SecurityClass string

const (
	SecurityClassShared       SecurityClass = "shared"
	SecurityClassRestricted   SecurityClass = "restricted"
	SecurityClassConfidential SecurityClass = "confidential"
	SecurityClassPrivate      SecurityClass = "private"
	SecurityClassPublic       SecurityClass = "public"
)

// validRef fails for a reference that is set but cannot be resolved.
var validRef = validation.By(func(value interface{}) error {
	linkable, ok := value.(Linkable)
	if !ok {
		return nil
	}

	if z, ok := value.(interface{ IsZero() bool }); ok && z.IsZero() {
		return nil
	}

	_, err := linkable.EntityLink()

	return err
})

// requiredRef fails for an empty reference.
var requiredRef = validation.By(func(value interface{}) error {
	if z, ok := value.(interface{ IsZero() bool }); ok && z.IsZero() {
		return ErrEmptyReference
	}

	return nil
})

func missingID(kind string) error {
	return &InvalidReferenceError{Kind: kind, Err: ErrMissingID}
}

// Company is a manufacturer or supplier.
type Company struct {
	Resource `yaml:",inline"`

	ID   string `json:"albertId,omitempty" yaml:"id,omitempty"`
	Name string `json:"name"               yaml:"name"`
}

// NewCompany creates a validated Company.
func NewCompany(name string) (*Company, error) {
	company := &Company{Name: name}
	if err := company.Validate(); err != nil {
		return nil, err
	}

	return company, nil
}

// Validate checks the company fields.
func (c *Company) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 255)),
	)
}

// EntityLink implements Linkable.
func (c *Company) EntityLink() (EntityLink, error) {
	if c == nil || c.ID == "" {
		return EntityLink{}, missingID("company")
	}

	return EntityLink{ID: c.ID, Name: c.Name}, nil
}

// Location is a physical site.
type Location struct {
	Resource `yaml:",inline"`

	ID        string  `json:"albertId,omitempty" yaml:"id,omitempty"`
	Name      string  `json:"name"               yaml:"name"`
	Latitude  float64 `json:"latitude"           yaml:"latitude"`
	Longitude float64 `json:"longitude"          yaml:"longitude"`
	Address   string  `json:"address"            yaml:"address"`
	Country   string  `json:"country,omitempty"  yaml:"country,omitempty"`
}

// NewLocation creates a validated Location.
func NewLocation(name, address string, latitude, longitude float64) (*Location, error) {
	location := &Location{
		Name:      name,
		Address:   address,
		Latitude:  latitude,
		Longitude: longitude,
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	return location, nil
}

// Validate checks the location fields.
func (l *Location) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&l.Address, validation.Required),
		validation.Field(&l.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&l.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&l.Country, validation.Length(2, 2)),
	)
}

// EntityLink implements Linkable.
func (l *Location) EntityLink() (EntityLink, error) {
	if l == nil || l.ID == "" {
		return EntityLink{}, missingID("location")
	}

	return EntityLink{ID: l.ID, Name: l.Name}, nil
}

// Tag is a free-form label.
type Tag struct {
	Resource `yaml:",inline"`

	ID   string `json:"albertId,omitempty" yaml:"id,omitempty"`
	Name string `json:"name"               yaml:"name"`
}

// NewTag creates a validated Tag.
func NewTag(name string) (*Tag, error) {
	tag := &Tag{Name: name}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks the tag fields.
func (t *Tag) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 255)),
	)
}

// EntityLink implements Linkable.
func (t *Tag) EntityLink() (EntityLink, error) {
	if t == nil || t.ID == "" {
		return EntityLink{}, missingID("tag")
	}

	return EntityLink{ID: t.ID, Name: t.Name}, nil
}

// Cas is a CAS registry entry.
type Cas struct {
	Resource `yaml:",inline"`

	ID          string `json:"albertId,omitempty"    yaml:"id,omitempty"`
	Number      string `json:"number"                yaml:"number"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Smiles      string `json:"smiles,omitempty"      yaml:"smiles,omitempty"`
}

// NewCas creates a validated Cas.
func NewCas(number string) (*Cas, error) {
	cas := &Cas{Number: number}
	if err := cas.Validate(); err != nil {
		return nil, err
	}

	return cas, nil
}

// Validate checks the CAS fields.
func (c *Cas) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Number, validation.Required),
	)
}

// EntityLink implements Linkable.
func (c *Cas) EntityLink() (EntityLink, error) {
	if c == nil || c.ID == "" {
		return EntityLink{}, missingID("cas")
	}

	return EntityLink{ID: c.ID, Name: c.Number}, nil
}

// User is a platform user.
type User struct {
	Resource `yaml:",inline"`

	ID       string         `json:"albertId,omitempty" yaml:"id,omitempty"`
	Name     string         `json:"name"               yaml:"name"`
	Email    string         `json:"email,omitempty"    yaml:"email,omitempty"`
	Location Ref[*Location] `json:"Location,omitzero"  yaml:"location,omitempty"`
}

// Validate checks the user fields.
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.Required),
		validation.Field(&u.Location, validRef),
	)
}

// EntityLink implements Linkable.
func (u *User) EntityLink() (EntityLink, error) {
	if u == nil || u.ID == "" {
		return EntityLink{}, missingID("user")
	}

	return EntityLink{ID: u.ID, Name: u.Name}, nil
}

// Project groups tasks and formulas.
type Project struct {
	Resource `yaml:",inline"`

	ID          string           `json:"albertId,omitempty"  yaml:"id,omitempty"`
	Description string           `json:"description"         yaml:"description"`
	Locations   []Ref[*Location] `json:"Locations,omitempty" yaml:"locations,omitempty"`
	Class       SecurityClass    `json:"class,omitempty"     yaml:"class,omitempty"`
	Prefix      string           `json:"prefix,omitempty"    yaml:"prefix,omitempty"`
	State       string           `json:"state,omitempty"     yaml:"state,omitempty"`
	Metadata    map[string]any   `json:"Metadata,omitempty"  yaml:"metadata,omitempty"`
}

// NewProject creates a validated Project.
func NewProject(description string, locations ...Ref[*Location]) (*Project, error) {
	project := &Project{Description: description, Locations: locations}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks the project fields.
func (p *Project) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&p.Locations, validation.Length(0, 20), validation.Each(requiredRef, validRef)),
		validation.Field(&p.Class, validation.In(
			SecurityClassShared, SecurityClassRestricted, SecurityClassConfidential,
			SecurityClassPrivate, SecurityClassPublic,
		)),
	)
}

// EntityLink implements Linkable.
func (p *Project) EntityLink() (EntityLink, error) {
	if p == nil || p.ID == "" {
		return EntityLink{}, missingID("project")
	}

	return EntityLink{ID: p.ID, Name: p.Description}, nil
}

// CasAmount links a CAS entry to an inventory item with its concentration range.
type CasAmount struct {
	Cas Ref[*Cas] `yaml:"cas"`
	Min *float64  `yaml:"min,omitempty"`
	Max *float64  `yaml:"max,omitempty"`
}

type casAmountWire struct {
	ID   string   `json:"id"`
	Name string   `json:"name,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// MarshalJSON writes the CAS id with the range.
func (c CasAmount) MarshalJSON() ([]byte, error) {
	link, err := c.Cas.EntityLink()
	if err != nil {
		return nil, err
	}

	return json.Marshal(casAmountWire{ID: link.ID, Min: c.Min, Max: c.Max})
}

// UnmarshalJSON reads the wire form into a link variant.
func (c *CasAmount) UnmarshalJSON(data []byte) error {
	var wire casAmountWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding cas amount: %w", err)
	}

	*c = CasAmount{Cas: RefOf[*Cas](EntityLink{ID: wire.ID, Name: wire.Name}), Min: wire.Min, Max: wire.Max}

	return nil
}

// Validate checks the CAS amount.
func (c CasAmount) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Cas, requiredRef, validRef),
		validation.Field(&c.Min, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.Max, validation.Min(0.0), validation.Max(100.0)),
	)
}

// InventoryMinimum is a minimum stock level at a location.
type InventoryMinimum struct {
	Location Ref[*Location] `yaml:"location"`
	Minimum  float64        `yaml:"minimum"`
}

type inventoryMinimumWire struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Minimum float64 `json:"minimum"`
}

// MarshalJSON writes the location id with the minimum.
func (m InventoryMinimum) MarshalJSON() ([]byte, error) {
	link, err := m.Location.EntityLink()
	if err != nil {
		return nil, err
	}

	return json.Marshal(inventoryMinimumWire{ID: link.ID, Minimum: m.Minimum})
}

// UnmarshalJSON reads the wire form into a link variant.
func (m *InventoryMinimum) UnmarshalJSON(data []byte) error {
	var wire inventoryMinimumWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding inventory minimum: %w", err)
	}

	*m = InventoryMinimum{Location: RefOf[*Location](EntityLink{ID: wire.ID, Name: wire.Name}), Minimum: wire.Minimum}

	return nil
}

// Validate checks the minimum.
func (m InventoryMinimum) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Location, requiredRef, validRef),
		validation.Field(&m.Minimum, validation.Min(0.0), validation.Max(1e15)),
	)
}

// InventoryItem is a material, consumable, piece of equipment or formula.
type InventoryItem struct {
	Resource `yaml:",inline"`

	ID            string             `json:"albertId,omitempty"     yaml:"id,omitempty"`
	Name          string             `json:"name,omitempty"         yaml:"name,omitempty"`
	Description   string             `json:"description,omitempty"  yaml:"description,omitempty"`
	Category      InventoryCategory  `json:"category"               yaml:"category"`
	UnitCategory  UnitCategory       `json:"unitCategory,omitempty" yaml:"unit_category,omitempty"`
	SecurityClass SecurityClass      `json:"class,omitempty"        yaml:"class,omitempty"`
	Alias         string             `json:"alias,omitempty"        yaml:"alias,omitempty"`
	ProjectID     string             `json:"parentId,omitempty"     yaml:"project_id,omitempty"`
	Company       Ref[*Company]      `json:"Company,omitzero"       yaml:"company,omitempty"`
	Tags          []Ref[*Tag]        `json:"Tags,omitempty"         yaml:"tags,omitempty"`
	Cas           []CasAmount        `json:"Cas,omitempty"          yaml:"cas,omitempty"`
	Minimum       []InventoryMinimum `json:"Minimum,omitempty"      yaml:"minimum,omitempty"`
	Metadata      map[string]any     `json:"Metadata,omitempty"     yaml:"metadata,omitempty"`
}

// NewInventoryItem applies defaults to item and validates it.
func NewInventoryItem(item InventoryItem) (*InventoryItem, error) {
	if item.UnitCategory == "" {
		item.UnitCategory = DefaultUnitCategory(item.Category)
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return &item, nil
}

// DefaultUnitCategory returns the unit category implied by an inventory category.
func DefaultUnitCategory(category InventoryCategory) UnitCategory {
	switch category {
	case CategoryRawMaterials, CategoryFormulas:
		return UnitCategoryMass
	case CategoryEquipment, CategoryConsumables:
		return UnitCategoryUnits
	default:
		return ""
	}
}

// Validate checks the inventory item fields.
func (i *InventoryItem) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&i.Category, validation.Required, validation.In(
			CategoryRawMaterials, CategoryConsumables, CategoryEquipment, CategoryFormulas,
		)),
		validation.Field(&i.UnitCategory, validation.In(
			UnitCategoryMass, UnitCategoryVolume, UnitCategoryLength, UnitCategoryPressure, UnitCategoryUnits,
		)),
		validation.Field(&i.SecurityClass, validation.In(
			SecurityClassShared, SecurityClassRestricted, SecurityClassConfidential,
			SecurityClassPrivate, SecurityClassPublic,
		)),
		validation.Field(&i.Company, validRef),
		validation.Field(&i.Tags, validation.Each(requiredRef, validRef)),
		validation.Field(&i.Cas),
		validation.Field(&i.Minimum),
	)
	if err != nil {
		return err
	}

	if i.Category == CategoryFormulas && i.ID == "" && i.ProjectID == "" {
		return ErrFormulaProjectID
	}

	return nil
}

// EntityLink implements Linkable.
func (i *InventoryItem) EntityLink() (EntityLink, error) {
	if i == nil || i.ID == "" {
		return EntityLink{}, missingID("inventory item")
	}

	return EntityLink{ID: i.ID, Name: i.Name}, nil
}

// InventorySearchItem is the partial record returned by inventory search.
// It is not a full InventoryItem.
type InventorySearchItem struct {
	ID           string            `json:"albertId"               yaml:"id"`
	Name         string            `json:"name"                   yaml:"name"`
	Description  string            `json:"description,omitempty"  yaml:"description,omitempty"`
	Category     InventoryCategory `json:"category"               yaml:"category"`
	UnitCategory UnitCategory      `json:"unitCategory,omitempty" yaml:"unit_category,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
}

// TaskCategory classifies tasks.
type TaskCategory string

const (
	TaskCategoryProperty TaskCategory = "Property"
	TaskCategoryBatch    TaskCategory = "Batch"
	TaskCategoryGeneral  TaskCategory = "General"
)

// TaskPriority ranks tasks.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// TaskInventory links an inventory item to a task with an optional batch size.
type TaskInventory struct {
	Inventory Ref[*InventoryItem] `yaml:"inventory"`
	BatchSize *float64            `yaml:"batch_size,omitempty"`
}

type taskInventoryWire struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	BatchSize *float64 `json:"batchSize,omitempty"`
}

// MarshalJSON writes the inventory id with the batch size.
func (t TaskInventory) MarshalJSON() ([]byte, error) {
	link, err := t.Inventory.EntityLink()
	if err != nil {
		return nil, err
	}

	return json.Marshal(taskInventoryWire{ID: link.ID, BatchSize: t.BatchSize})
}

// UnmarshalJSON reads the wire form into a link variant.
func (t *TaskInventory) UnmarshalJSON(data []byte) error {
	var wire taskInventoryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decoding task inventory: %w", err)
	}

	*t = TaskInventory{Inventory: RefOf[*InventoryItem](EntityLink{ID: wire.ID, Name: wire.Name}), BatchSize: wire.BatchSize}

	return nil
}

// Task is a unit of lab work.
type Task struct {
	Resource `yaml:",inline"`

	ID          string          `json:"albertId,omitempty"    yaml:"id,omitempty"`
	Name        string          `json:"name"                  yaml:"name"`
	Category    TaskCategory    `json:"category"              yaml:"category"`
	ProjectID   string          `json:"parentId,omitempty"    yaml:"project_id,omitempty"`
	Priority    TaskPriority    `json:"priority,omitempty"    yaml:"priority,omitempty"`
	State       string          `json:"state,omitempty"       yaml:"state,omitempty"`
	DueDate     string          `json:"dueDate,omitempty"     yaml:"due_date,omitempty"`
	Location    Ref[*Location]  `json:"Location,omitzero"     yaml:"location,omitempty"`
	AssignedTo  Ref[*User]      `json:"AssignedTo,omitzero"   yaml:"assigned_to,omitempty"`
	Tags        []Ref[*Tag]     `json:"Tags,omitempty"        yaml:"tags,omitempty"`
	Inventories []TaskInventory `json:"Inventories,omitempty" yaml:"inventories,omitempty"`
	Metadata    map[string]any  `json:"Metadata,omitempty"    yaml:"metadata,omitempty"`
}

// NewTask creates a validated Task.
func NewTask(task Task) (*Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	return &task, nil
}

// Validate checks the task fields.
func (t *Task) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&t.Category, validation.Required, validation.In(
			TaskCategoryProperty, TaskCategoryBatch, TaskCategoryGeneral,
		)),
		validation.Field(&t.Priority, validation.In(TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow)),
		validation.Field(&t.Location, validRef),
		validation.Field(&t.AssignedTo, validRef),
		validation.Field(&t.Tags, validation.Each(requiredRef, validRef)),
	)
}

// EntityLink implements Linkable.
func (t *Task) EntityLink() (EntityLink, error) {
	if t == nil || t.ID == "" {
		return EntityLink{}, missingID("task")
	}

	return EntityLink{ID: t.ID, Name: t.Name}, nil
}

// TaskSearchItem is the partial record returned by task search.
type TaskSearchItem struct {
	ID        string       `json:"albertId"            yaml:"id"`
	Name      string       `json:"name"                yaml:"name"`
	Category  TaskCategory `json:"category"            yaml:"category"`
	Priority  TaskPriority `json:"priority,omitempty"  yaml:"priority,omitempty"`
	State     string       `json:"state,omitempty"     yaml:"state,omitempty"`
	DueDate   string       `json:"dueDate,omitempty"   yaml:"due_date,omitempty"`
	ProjectID string       `json:"parentId,omitempty"  yaml:"project_id,omitempty"`
}

// ProjectSearchItem is the partial record returned by project search.
type ProjectSearchItem struct {
	ID          string `json:"albertId"          yaml:"id"`
	Description string `json:"description"       yaml:"description"`
	State       string `json:"state,omitempty"   yaml:"state,omitempty"`
	Status      Status `json:"status,omitempty"  yaml:"status,omitempty"`
}

// FieldType is the value type of a custom field.
type FieldType string

const (
	FieldTypeList   FieldType = "list"
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
)

// ServiceType names the entity a custom field applies to.
type ServiceType string

const (
	ServiceInventories ServiceType = "inventories"
	ServiceProjects    ServiceType = "projects"
	ServiceTasks       ServiceType = "tasks"
	ServiceUsers       ServiceType = "users"
	ServiceLots        ServiceType = "lots"
)

// CustomField is a tenant-defined metadata field.
type CustomField struct {
	Resource `yaml:",inline"`

	ID          string      `json:"albertId,omitempty"    yaml:"id,omitempty"`
	Name        string      `json:"name"                  yaml:"name"`
	FieldType   FieldType   `json:"type"                  yaml:"type"`
	DisplayName string      `json:"labelName,omitempty"   yaml:"display_name,omitempty"`
	Service     ServiceType `json:"service"               yaml:"service"`
	Hidden      bool        `json:"hidden"                yaml:"hidden"`
	Searchable  *bool       `json:"searchable,omitempty"  yaml:"searchable,omitempty"`
	Multiselect *bool       `json:"multiselect,omitempty" yaml:"multiselect,omitempty"`
	Required    *bool       `json:"required,omitempty"    yaml:"required,omitempty"`
}

// NewCustomField creates a validated CustomField.
func NewCustomField(name string, fieldType FieldType, service ServiceType) (*CustomField, error) {
	field := &CustomField{Name: name, FieldType: fieldType, Service: service}
	if err := field.Validate(); err != nil {
		return nil, err
	}

	return field, nil
}

// Validate checks the custom field.
func (c *CustomField) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.FieldType, validation.Required, validation.In(
			FieldTypeList, FieldTypeString, FieldTypeNumber,
		)),
		validation.Field(&c.Service, validation.Required, validation.In(
			ServiceInventories, ServiceProjects, ServiceTasks, ServiceUsers, ServiceLots,
		)),
	)
}

// EntityLink implements Linkable.
func (c *CustomField) EntityLink() (EntityLink, error) {
	if c == nil || c.ID == "" {
		return EntityLink{}, missingID("custom field")
	}

	return EntityLink{ID: c.ID, Name: c.Name}, nil
}
