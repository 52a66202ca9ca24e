// Package models maps the nova tables that whitebox tests assert against.
// The schema is owned by nova; these types are read models and never migrate
// a real deployment.
package models

const (
	// DefaultLimit is the max number of rows returned by a listing helper
	DefaultLimit = 50

	// NotDeleted is the value of the soft-delete column for live rows
	NotDeleted = 0
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions struct {
	Limit          int  `json:"limit"`
	Offset         int  `json:"offset"`
	IncludeDeleted bool `json:"include_deleted"`
}

// All returns every model, in the order test fixtures create them
func All() []interface{} {
	return []interface{}{
		&Instance{},
		&Service{},
	}
}
