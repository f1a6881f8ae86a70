// Package notify sends desktop notifications over org.freedesktop.Notifications.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = dbus.ObjectPath("/org/freedesktop/Notifications")

	defaultIcon = "preferences-desktop-workspaces"
)

// Notifier talks to the notification daemon on the session bus.
type Notifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	appName string
}

// New connects to the session bus.
func New(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Notifier{
		conn:    conn,
		obj:     conn.Object(notifyInterface, notifyPath),
		appName: appName,
	}, nil
}

// Close closes the D-Bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// Notification is a single desktop notification.
type Notification struct {
	Summary    string
	Body       string
	Icon       string        // defaults to a workspace icon
	Timeout    time.Duration // 0 = server default, <0 = never expire
	Actions    []Action
	Urgency    Urgency
	ReplacesID uint32
}

// Action is a notification action. The "default" key is invoked by
// clicking the notification body.
type Action struct {
	Key   string
	Label string
}

type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// ParseUrgency maps the config names to an Urgency, defaulting to normal.
func ParseUrgency(s string) Urgency {
	switch s {
	case "low":
		return UrgencyLow
	case "critical":
		return UrgencyCritical
	default:
		return UrgencyNormal
	}
}

// expireTimeout converts d to the Notify expire_timeout argument.
func expireTimeout(d time.Duration) int32 {
	switch {
	case d > 0:
		return int32(d.Milliseconds())
	case d < 0:
		return 0
	default:
		return -1
	}
}

// notifyArgs builds the Notify call arguments for notif.
func (n *Notifier) notifyArgs(notif Notification) []any {
	actions := make([]string, 0, 2*len(notif.Actions))
	for _, a := range notif.Actions {
		actions = append(actions, a.Key, a.Label)
	}

	icon := notif.Icon
	if icon == "" {
		icon = defaultIcon
	}

	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(n.appName),
	}

	return []any{
		n.appName,
		notif.ReplacesID,
		icon,
		notif.Summary,
		notif.Body,
		actions,
		hints,
		expireTimeout(notif.Timeout),
	}
}

// Send shows notif and returns the server's notification ID.
func (n *Notifier) Send(notif Notification) (uint32, error) {
	var id uint32
	if err := n.obj.Call(notifyInterface+".Notify", 0, n.notifyArgs(notif)...).Store(&id); err != nil {
		return 0, fmt.Errorf("send notification: %w", err)
	}

	slog.Debug("sent notification", "id", id, "summary", notif.Summary)
	return id, nil
}

// Dismiss closes a notification previously returned by Send.
func (n *Notifier) Dismiss(id uint32) error {
	if err := n.obj.Call(notifyInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

// WatchActions calls fn for every ActionInvoked signal. fn runs on a
// dedicated goroutine until the connection is closed.
func (n *Notifier) WatchActions(fn func(id uint32, actionKey string)) error {
	if err := n.conn.AddMatchSignal(
		dbus.WithMatchInterface(notifyInterface),
		dbus.WithMatchMember("ActionInvoked"),
	); err != nil {
		return fmt.Errorf("add match signal: %w", err)
	}

	ch := make(chan *dbus.Signal, 10)
	n.conn.Signal(ch)

	go func() {
		for sig := range ch {
			if id, key, ok := actionInvoked(sig); ok {
				fn(id, key)
			}
		}
	}()

	return nil
}

// actionInvoked decodes an ActionInvoked(u id, s action_key) signal.
func actionInvoked(sig *dbus.Signal) (uint32, string, bool) {
	if sig.Name != notifyInterface+".ActionInvoked" || len(sig.Body) < 2 {
		return 0, "", false
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return 0, "", false
	}
	key, ok := sig.Body[1].(string)
	return id, key, ok
}
