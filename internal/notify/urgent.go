package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cpuguy83/way-shell/internal/wm"
)

// Sender delivers and withdraws notifications. *Notifier implements it.
type Sender interface {
	Send(Notification) (uint32, error)
	Dismiss(id uint32) error
}

// Focuser focuses a workspace when a notification is clicked.
type Focuser interface {
	FocusWorkspace(ws wm.Workspace) error
}

const actionFocus = "default"

// UrgentWatcher raises one notification per workspace while it is urgent.
type UrgentWatcher struct {
	sender  Sender
	focuser Focuser
	urgency Urgency
	timeout time.Duration
	match   func(wm.Workspace) bool

	mu       sync.Mutex
	notified map[uint32]uint32 // workspace ID -> notification ID
	byNotif  map[uint32]wm.Workspace
}

// UrgentOptions configures an UrgentWatcher.
type UrgentOptions struct {
	Urgency Urgency
	Timeout time.Duration
	// Match restricts which workspaces notify. Nil means all.
	Match func(wm.Workspace) bool
	// Focuser handles the default action. May be nil.
	Focuser Focuser
}

// NewUrgentWatcher creates a watcher sending through s.
func NewUrgentWatcher(s Sender, opts UrgentOptions) *UrgentWatcher {
	return &UrgentWatcher{
		sender:   s,
		focuser:  opts.Focuser,
		urgency:  opts.Urgency,
		timeout:  opts.Timeout,
		match:    opts.Match,
		notified: make(map[uint32]uint32),
		byNotif:  make(map[uint32]wm.Workspace),
	}
}

// HandleEvent is connected to wm.WindowManager.OnWorkspaceEvent.
func (u *UrgentWatcher) HandleEvent(ev wm.WorkspaceEvent) {
	switch ev.Change {
	case wm.Urgent:
	case wm.Destroyed:
		u.dismiss(ev.Workspace)
		return
	case wm.Reload:
		u.reset()
		return
	default:
		return
	}

	ws := ev.Workspace
	if !ws.Urgent {
		u.dismiss(ws)
		return
	}
	if u.match != nil && !u.match(ws) {
		return
	}

	u.mu.Lock()
	_, done := u.notified[ws.ID]
	u.mu.Unlock()
	if done {
		return
	}

	var actions []Action
	if u.focuser != nil {
		actions = []Action{{Key: actionFocus, Label: "Focus"}}
	}

	id, err := u.sender.Send(Notification{
		Summary: fmt.Sprintf("Workspace %s needs attention", ws.Name),
		Body:    fmt.Sprintf("on output %s", ws.Output),
		Urgency: u.urgency,
		Timeout: u.timeout,
		Actions: actions,
	})
	if err != nil {
		slog.Warn("failed to send urgent notification", "workspace", ws.Name, "error", err)
		return
	}

	u.mu.Lock()
	u.notified[ws.ID] = id
	u.byNotif[id] = ws
	u.mu.Unlock()
}

// HandleAction is passed to Notifier.WatchActions.
func (u *UrgentWatcher) HandleAction(id uint32, key string) {
	if key != actionFocus || u.focuser == nil {
		return
	}

	u.mu.Lock()
	ws, ok := u.byNotif[id]
	u.mu.Unlock()
	if !ok {
		return
	}

	if err := u.focuser.FocusWorkspace(ws); err != nil {
		slog.Warn("failed to focus urgent workspace", "workspace", ws.Name, "error", err)
	}
}

// dismiss withdraws the notification raised for ws, if any.
func (u *UrgentWatcher) dismiss(ws wm.Workspace) {
	u.mu.Lock()
	id, ok := u.notified[ws.ID]
	if ok {
		delete(u.byNotif, id)
		delete(u.notified, ws.ID)
	}
	u.mu.Unlock()

	if !ok {
		return
	}
	if err := u.sender.Dismiss(id); err != nil {
		slog.Debug("failed to dismiss notification", "workspace", ws.Name, "id", id, "error", err)
	}
}

// reset forgets every notification without withdrawing them; after a
// reload the workspace IDs they refer to may no longer exist.
func (u *UrgentWatcher) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	clear(u.notified)
	clear(u.byNotif)
}
