package types

import (
	"errors"
	"fmt"
	"sort"
)

// Content model errors. Each is returned wrapped with the offending name;
// match with errors.Is.
var (
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidSize       = errors.New("invalid size")
	ErrInvalidFrame      = errors.New("invalid frame")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrDuplicateEntity   = errors.New("entity already exists")
	ErrDuplicateState    = errors.New("state already exists")
	ErrUnknownCategory   = errors.New("category not registered in project")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrStateNotFound     = errors.New("state not found")
)

// Project is the aggregate root of a game's content and the unit of
// persistence. Categories, entities, states and frames are created only
// through its methods so that uniqueness and referential rules hold in one
// place. Read accessors return deep copies.
//
// A Project is not safe for concurrent use; it has a single owner that
// performs every mutation. Use Clone to hand a snapshot to another goroutine.
type Project struct {
	name       string
	categories []EntityCategory
	entities   map[string]*Entity
}

// Stats summarizes the size of a project.
type Stats struct {
	Categories int `json:"categories" yaml:"categories"`
	Entities   int `json:"entities" yaml:"entities"`
	States     int `json:"states" yaml:"states"`
	Frames     int `json:"frames" yaml:"frames"`
}

// NewProject returns a project holding only the sentinel category.
func NewProject(name string) *Project {
	return &Project{
		name:       name,
		categories: []EntityCategory{DefaultCategory()},
		entities:   make(map[string]*Entity),
	}
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// AddCategory appends a new category with no nominal size. Names are
// matched exactly (case-sensitive).
func (p *Project) AddCategory(name string) error {
	return p.AddCategoryWithSize(name, 0, 0)
}

// AddCategoryWithSize appends a new category with a nominal sprite cell size.
// A category's size is fixed at creation so that every entity's copy matches
// the registered record.
func (p *Project) AddCategoryWithSize(name string, width, height int) error {
	if !validName(name) {
		return fmt.Errorf("%w: category %q", ErrInvalidName, name)
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if p.categoryIndex(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}
	p.categories = append(p.categories, EntityCategory{Name: name, Width: width, Height: height})
	return nil
}

// Categories returns the categories in insertion order.
func (p *Project) Categories() []EntityCategory {
	out := make([]EntityCategory, len(p.categories))
	copy(out, p.categories)
	return out
}

// Category returns the registered category with the given name.
func (p *Project) Category(name string) (EntityCategory, bool) {
	i := p.categoryIndex(name)
	if i < 0 {
		return EntityCategory{}, false
	}
	return p.categories[i], true
}

// AddEntity creates an entity in the given category. The category must
// already be registered in the project; the registered record is copied into
// the entity.
func (p *Project) AddEntity(category EntityCategory, name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: entity %q", ErrInvalidName, name)
	}
	registered, ok := p.Category(category.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category.Name)
	}
	if _, exists := p.entities[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, name)
	}
	p.entities[name] = newEntity(name, registered)
	return nil
}

// HasEntity reports whether an entity with the given name exists.
func (p *Project) HasEntity(name string) bool {
	_, ok := p.entities[name]
	return ok
}

// Entity returns a copy of the named entity.
func (p *Project) Entity(name string) (Entity, bool) {
	e, ok := p.entities[name]
	if !ok {
		return Entity{}, false
	}
	return e.clone(), true
}

// Entities returns copies of all entities ordered by name.
func (p *Project) Entities() []Entity {
	out := make([]Entity, 0, len(p.entities))
	for _, name := range p.entityNames() {
		out = append(out, p.entities[name].clone())
	}
	return out
}

// SetEntitySize sets the nominal size of the named entity. Later frames do
// not override it.
func (p *Project) SetEntitySize(name string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	e, ok := p.entities[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntityNotFound, name)
	}
	e.Width, e.Height = width, height
	return nil
}

// AddEntityState creates an empty state on the named entity.
func (p *Project) AddEntityState(entityName, stateName string) error {
	if !validName(stateName) {
		return fmt.Errorf("%w: state %q", ErrInvalidName, stateName)
	}
	e, ok := p.entities[entityName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntityNotFound, entityName)
	}
	if _, exists := e.States[stateName]; exists {
		return fmt.Errorf("%w: %q on entity %q", ErrDuplicateState, stateName, entityName)
	}
	e.States[stateName] = NewEntityState(stateName)
	return nil
}

// GetStates returns copies of the named entity's states ordered by name.
// An unknown entity yields an empty slice.
func (p *Project) GetStates(entityName string) []EntityState {
	e, ok := p.entities[entityName]
	if !ok {
		return []EntityState{}
	}
	out := make([]EntityState, 0, len(e.States))
	for _, name := range e.StateNames() {
		out = append(out, e.States[name].clone())
	}
	return out
}

// AddFrame appends a copy of frame to the named state. The first frame
// imported into an entity sets the entity's size.
func (p *Project) AddFrame(entityName, stateName string, frame Frame) error {
	e, ok := p.entities[entityName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntityNotFound, entityName)
	}
	s, ok := e.States[stateName]
	if !ok {
		return fmt.Errorf("%w: %q on entity %q", ErrStateNotFound, stateName, entityName)
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	s.Frames = append(s.Frames, frame.clone())
	e.States[stateName] = s
	if e.Width == 0 && e.Height == 0 {
		e.Width, e.Height = frame.Width, frame.Height
	}
	return nil
}

// Stats counts the categories, entities, states and frames of the project.
func (p *Project) Stats() Stats {
	st := Stats{Categories: len(p.categories), Entities: len(p.entities)}
	for _, e := range p.entities {
		st.States += len(e.States)
		for _, s := range e.States {
			st.Frames += len(s.Frames)
		}
	}
	return st
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := &Project{
		name:       p.name,
		categories: p.Categories(),
		entities:   make(map[string]*Entity, len(p.entities)),
	}
	for name, e := range p.entities {
		cp := e.clone()
		c.entities[name] = &cp
	}
	return c
}

// Equal reports whether p and other hold structurally equal content,
// category order and frame contents included.
func (p *Project) Equal(other *Project) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.name != other.name || len(p.categories) != len(other.categories) {
		return false
	}
	for i := range p.categories {
		if p.categories[i] != other.categories[i] {
			return false
		}
	}
	if len(p.entities) != len(other.entities) {
		return false
	}
	for name, e := range p.entities {
		o, ok := other.entities[name]
		if !ok || !e.Equal(*o) {
			return false
		}
	}
	return true
}

func (p *Project) categoryIndex(name string) int {
	for i, c := range p.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (p *Project) entityNames() []string {
	names := make([]string, 0, len(p.entities))
	for name := range p.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
