package core

// commandKind describes what the engine loop should apply next. Both user
// intents and inbound transport events arrive as commands so that all
// reductions run on one goroutine in dispatch order.
type commandKind int

const (
	// cmdSwitchRoom activates a room locally.
	cmdSwitchRoom commandKind = iota
	// cmdSend submits outbound chat text for the active room.
	cmdSend
	// cmdSetVisible toggles the focus flag gating notification effects.
	cmdSetVisible
	// cmdUsers applies an online-user snapshot.
	cmdUsers
	// cmdRoomJoined applies a server room-join acknowledgement.
	cmdRoomJoined
	// cmdRoomMessage applies an inbound chat message.
	cmdRoomMessage
	// cmdSnapshot requests a copy of current state.
	cmdSnapshot
)

type command struct {
	kind    commandKind
	room    string
	text    string
	visible bool
	users   []string
	msg     Message
	reply   chan Snapshot
}
