package types

import "sort"

// Entity is a named game object belonging to one category and owning a set
// of named states. The category is held by value.
type Entity struct {
	Name     string
	Category EntityCategory
	Width    int // Taken from the first imported frame; 0 until then.
	Height   int
	States   map[string]EntityState
}

func newEntity(name string, category EntityCategory) *Entity {
	return &Entity{
		Name:     name,
		Category: category,
		States:   make(map[string]EntityState),
	}
}

// StateNames returns the names of the entity's states in ascending order.
func (e Entity) StateNames() []string {
	names := make([]string, 0, len(e.States))
	for name := range e.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether e and other have equal names, categories, sizes and
// state sets. Frame contents participate in the comparison.
func (e Entity) Equal(other Entity) bool {
	if e.Name != other.Name || e.Category != other.Category {
		return false
	}
	if e.Width != other.Width || e.Height != other.Height {
		return false
	}
	if len(e.States) != len(other.States) {
		return false
	}
	for name, s := range e.States {
		o, ok := other.States[name]
		if !ok || !s.Equal(o) {
			return false
		}
	}
	return true
}

func (e Entity) clone() Entity {
	states := make(map[string]EntityState, len(e.States))
	for name, s := range e.States {
		states[name] = s.clone()
	}
	e.States = states
	return e
}
