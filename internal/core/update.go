package core

// UpdateKind is a state-change notification the engine emits to the view.
type UpdateKind int

const (
	// UpdateMessage signals a message appended to some room's history.
	UpdateMessage UpdateKind = iota
	// UpdatePresence signals the online-user set was replaced.
	UpdatePresence
	// UpdateRoomSwitched signals the active room changed locally.
	UpdateRoomSwitched
)

// Update describes one state change for rendering. The view treats updates
// as hints and may always fall back to Snapshot for full state.
type Update struct {
	Kind       UpdateKind
	Message    Message
	Room       string
	ActiveRoom string
	Users      []string
}

// Snapshot is a consistent copy of session state taken inside the engine
// loop, safe to read from any goroutine.
type Snapshot struct {
	Username   string
	ActiveRoom string
	Rooms      []string
	Presence   []string
	Unread     map[string]int
	Messages   []Message // active room history, arrival order
}
