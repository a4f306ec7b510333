package types

// EntityState is a named animation or behavior mode of an entity. Frames are
// kept in playback order.
type EntityState struct {
	Name   string
	Frames []Frame
}

// NewEntityState returns an empty state with the given name.
func NewEntityState(name string) EntityState {
	return EntityState{Name: name, Frames: []Frame{}}
}

// Equal reports whether s and other have the same name and the same frames in
// the same order, pixel contents included.
func (s EntityState) Equal(other EntityState) bool {
	if s.Name != other.Name || len(s.Frames) != len(other.Frames) {
		return false
	}
	for i := range s.Frames {
		if !s.Frames[i].Equal(other.Frames[i]) {
			return false
		}
	}
	return true
}

func (s EntityState) clone() EntityState {
	frames := make([]Frame, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = f.clone()
	}
	return EntityState{Name: s.Name, Frames: frames}
}
