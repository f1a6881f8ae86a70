package tray

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	watcherName = "org.kde.StatusNotifierWatcher"
	watcherPath = dbus.ObjectPath("/StatusNotifierWatcher")
)

// register announces the item to the current StatusNotifierWatcher.
func (t *Tray) register() error {
	names := t.conn.Names()
	if len(names) == 0 {
		return fmt.Errorf("no unique bus name")
	}

	obj := t.conn.Object(watcherName, watcherPath)
	if err := obj.Call(watcherName+".RegisterStatusNotifierItem", 0, names[0]).Err; err != nil {
		return fmt.Errorf("register with %s: %w", watcherName, err)
	}
	slog.Debug("registered with StatusNotifierWatcher", "connection", names[0])
	return nil
}

// watchWatcher re-registers whenever the watcher name gets a new owner,
// e.g. when the bar hosting the tray restarts.
func (t *Tray) watchWatcher() {
	if err := t.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	); err != nil {
		slog.Warn("failed to watch StatusNotifierWatcher", "error", err)
		return
	}

	// Size 1 coalesces bursts; one re-registration is enough.
	sigCh := make(chan *dbus.Signal, 1)
	t.conn.Signal(sigCh)
	defer t.conn.RemoveSignal(sigCh)

	for {
		select {
		case <-t.stopCh:
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			if newOwner, ok := watcherOwnerChanged(sig); ok && newOwner != "" {
				slog.Info("StatusNotifierWatcher restarted, re-registering tray item")
				if err := t.register(); err != nil {
					slog.Warn("failed to re-register tray item", "error", err)
				}
			}
		}
	}
}

// watcherOwnerChanged extracts the new owner from a NameOwnerChanged
// signal about the watcher name.
func watcherOwnerChanged(sig *dbus.Signal) (string, bool) {
	if sig.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(sig.Body) < 3 {
		return "", false
	}
	name, ok := sig.Body[0].(string)
	if !ok || name != watcherName {
		return "", false
	}
	newOwner, ok := sig.Body[2].(string)
	return newOwner, ok
}
