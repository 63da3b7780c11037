package albert

import (
	"time"
)

// Status is the lifecycle state shared by every resource.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// AuditFields records who touched a resource and when. Read-only.
type AuditFields struct {
	By     string     `json:"by,omitempty"     yaml:"by,omitempty"`
	ByName string     `json:"byName,omitempty" yaml:"by_name,omitempty"`
	At     *time.Time `json:"at,omitempty"     yaml:"at,omitempty"`
}

// Resource holds the fields common to all resources.
type Resource struct {
	Status  Status       `json:"status,omitempty"  yaml:"status,omitempty"`
	Created *AuditFields `json:"Created,omitempty" yaml:"created,omitempty"`
	Updated *AuditFields `json:"Updated,omitempty" yaml:"updated,omitempty"`
}

// EntityLink is the minimal reference to another entity. Name is advisory:
// it is accepted from the server but never sent back by Ref.
type EntityLink struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// EntityLink lets a bare link stand in anywhere a Linkable is accepted.
func (l EntityLink) EntityLink() (EntityLink, error) {
	if l.ID == "" {
		return EntityLink{}, &InvalidReferenceError{Err: ErrMissingID}
	}

	return l, nil
}

// Page is one page of a list or search response.
type Page[T any] struct {
	Items   []T    `json:"Items"`
	Offset  *int   `json:"offset,omitempty"`
	LastKey string `json:"lastKey,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

// OrderBy is the sort direction for search endpoints.
type OrderBy string

const (
	OrderAscending  OrderBy = "asc"
	OrderDescending OrderBy = "desc"
)

// ID prefixes used by the API.
const (
	PrefixInventory = "INV"
	PrefixTag       = "TAG"
	PrefixProject   = "PRO"
	PrefixTask      = "TAS"
	PrefixCompany   = "COM"
	PrefixLocation  = "LOC"
	PrefixUser      = "USR"
	PrefixCas       = "CAS"
)
