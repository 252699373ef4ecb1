package core

// DefaultRooms is the room set used when configuration does not override it.
var DefaultRooms = []string{"General", "Sports", "Tech", "Music"}

// Registry is the fixed enumerable set of joinable rooms. Rooms are not
// created dynamically; the first entry is the default room.
type Registry struct {
	rooms []string
}

// NewRegistry builds a registry from the given room names, falling back to
// DefaultRooms when the list is empty.
func NewRegistry(rooms []string) *Registry {
	if len(rooms) == 0 {
		rooms = DefaultRooms
	}
	out := make([]string, len(rooms))
	copy(out, rooms)
	return &Registry{rooms: out}
}

// Contains reports whether name is a joinable room.
func (r *Registry) Contains(name string) bool {
	for _, room := range r.rooms {
		if room == name {
			return true
		}
	}
	return false
}

// Default returns the fallback room, the first in the list.
func (r *Registry) Default() string {
	return r.rooms[0]
}

// List returns the room names in declaration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.rooms))
	copy(out, r.rooms)
	return out
}
