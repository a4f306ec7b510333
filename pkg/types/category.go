package types

import "strings"

// DefaultCategoryName is the sentinel category present in every new project.
const DefaultCategoryName = "Aucune"

// EntityCategory is a named classification applied to entities.
// Name is the identity key; it is unique within a project.
type EntityCategory struct {
	Name   string // Unique within the project (required, non-empty).
	Width  int    // Nominal sprite cell width; 0 when unset.
	Height int    // Nominal sprite cell height; 0 when unset.
}

// NewEntityCategory returns a category with the given name and no size.
func NewEntityCategory(name string) EntityCategory {
	return EntityCategory{Name: name}
}

// DefaultCategory returns the sentinel category.
func DefaultCategory() EntityCategory {
	return EntityCategory{Name: DefaultCategoryName}
}

// IsDefault reports whether c is the sentinel category.
func (c EntityCategory) IsDefault() bool {
	return c.Name == DefaultCategoryName
}

// validName reports whether name is usable as an identity key.
func validName(name string) bool {
	return strings.TrimSpace(name) != ""
}
