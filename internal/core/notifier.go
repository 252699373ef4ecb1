package core

// Notifier is the host notification capability set. Every method is
// best-effort: failures are swallowed by the implementation and must never
// block or roll back a reduction.
type Notifier interface {
	// RequestPermission probes whether system notifications may be raised.
	// Called once at session start; a false answer disables Notify for the
	// whole session.
	RequestPermission() bool

	// PlaySound plays the fixed notification sound.
	PlaySound()

	// Notify raises a system notification.
	Notify(title, body string)

	// SetTitle mutates the window title.
	SetTitle(title string)
}
