// Package tray shows the focused workspace as a StatusNotifierItem.
package tray

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/cpuguy83/way-shell/internal/wm"
)

const (
	sniInterface = "org.kde.StatusNotifierItem"
	sniPath      = dbus.ObjectPath("/StatusNotifierItem")
)

// Tray is a StatusNotifierItem reflecting the last workspace snapshot.
type Tray struct {
	conn  *dbus.Conn
	props *prop.Properties

	mu   sync.Mutex
	view view

	onActivate  func()
	onSecondary func()
	onScroll    func(delta int) // positive is down/right

	stopCh chan struct{}
}

// New connects to the session bus. The item is not visible until Start.
func New() (*Tray, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Tray{
		conn:   conn,
		view:   viewFor(nil),
		stopCh: make(chan struct{}),
	}, nil
}

// Start exports the item and registers it with the StatusNotifierWatcher.
func (t *Tray) Start() error {
	busName, err := t.requestName()
	if err != nil {
		return err
	}

	if err := t.conn.Export(item{t}, sniPath, sniInterface); err != nil {
		return fmt.Errorf("export %s: %w", sniInterface, err)
	}

	t.mu.Lock()
	props := t.view.properties()
	t.mu.Unlock()

	t.props, err = prop.Export(t.conn, sniPath, prop.Map{sniInterface: props})
	if err != nil {
		return fmt.Errorf("export properties: %w", err)
	}

	node := &introspect.Node{
		Name: string(sniPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{Name: sniInterface, Methods: sniMethods, Signals: sniSignals},
		},
	}
	if err := t.conn.Export(introspect.NewIntrospectable(node), sniPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}

	if err := t.register(); err != nil {
		// A watcher may show up later; watchWatcher registers then.
		slog.Warn("no StatusNotifierWatcher yet", "error", err)
	}
	go t.watchWatcher()

	slog.Info("tray item exported", "bus_name", busName)
	return nil
}

// requestName claims a per-process item name, falling back to a fixed one.
func (t *Tray) requestName() (string, error) {
	names := []string{
		fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid()),
		"org.kde.StatusNotifierItem-way-shell",
	}

	var lastErr error
	for _, name := range names {
		reply, err := t.conn.RequestName(name, dbus.NameFlagDoNotQueue)
		switch {
		case err != nil:
			lastErr = err
		case reply != dbus.RequestNameReplyPrimaryOwner:
			lastErr = fmt.Errorf("%s already owned", name)
		default:
			return name, nil
		}
	}
	return "", fmt.Errorf("request bus name: %w", lastErr)
}

// Stop removes the item from the bus.
func (t *Tray) Stop() error {
	close(t.stopCh)
	return t.conn.Close()
}

// Update redraws the icon, status and tooltip from a workspace snapshot,
// emitting a change signal only for the parts that differ.
func (t *Tray) Update(ws []wm.Workspace) {
	v := viewFor(ws)

	t.mu.Lock()
	old := t.view
	t.view = v
	t.mu.Unlock()

	if t.props == nil {
		return
	}

	if v.slot != old.slot || v.urgent != old.urgent {
		t.props.SetMust(sniInterface, "IconPixmap", v.pixmap())
		t.emit("NewIcon")
	}
	if s := v.status(); s != old.status() {
		t.props.SetMust(sniInterface, "Status", s)
		t.emit("NewStatus", s)
	}
	if v.body != old.body {
		t.props.SetMust(sniInterface, "ToolTip", v.toolTip())
		t.emit("NewToolTip")
	}
}

func (t *Tray) emit(signal string, args ...any) {
	if err := t.conn.Emit(sniPath, sniInterface+"."+signal, args...); err != nil {
		slog.Debug("failed to emit tray signal", "signal", signal, "error", err)
	}
}

// OnActivate sets the primary click callback. It runs on its own goroutine.
func (t *Tray) OnActivate(fn func()) {
	t.onActivate = fn
}

// OnSecondaryActivate sets the middle click callback. It runs on its own
// goroutine.
func (t *Tray) OnSecondaryActivate(fn func()) {
	t.onSecondary = fn
}

// OnScroll sets the scroll callback.
func (t *Tray) OnScroll(fn func(delta int)) {
	t.onScroll = fn
}

// properties is the exported property set for v.
func (v view) properties() map[string]*prop.Prop {
	static := func(value any) *prop.Prop {
		return &prop.Prop{Value: value, Emit: prop.EmitFalse}
	}
	dynamic := func(value any) *prop.Prop {
		return &prop.Prop{Value: value, Emit: prop.EmitTrue}
	}

	return map[string]*prop.Prop{
		"Category":      static("SystemServices"),
		"Id":            static("way-shell"),
		"Title":         static("way-shell"),
		"IconThemePath": static(""),
		"Menu":          static(dbus.ObjectPath("/NO_DBUSMENU")),
		"ItemIsMenu":    static(false),
		"IconName":      dynamic(""),
		"Status":        dynamic(v.status()),
		"IconPixmap":    dynamic(v.pixmap()),
		"ToolTip":       dynamic(v.toolTip()),
	}
}

// item carries the org.kde.StatusNotifierItem methods so they stay off
// the Tray API.
type item struct {
	t *Tray
}

func (i item) Activate(x, y int32) *dbus.Error {
	slog.Debug("tray activated", "x", x, "y", y)
	if fn := i.t.onActivate; fn != nil {
		go fn()
	}
	return nil
}

func (i item) SecondaryActivate(x, y int32) *dbus.Error {
	slog.Debug("tray secondary activated", "x", x, "y", y)
	if fn := i.t.onSecondary; fn != nil {
		go fn()
	}
	return nil
}

func (i item) Scroll(delta int32, orientation string) *dbus.Error {
	slog.Debug("tray scroll", "delta", delta, "orientation", orientation)
	if fn := i.t.onScroll; fn != nil && delta != 0 {
		fn(int(delta))
	}
	return nil
}

// ContextMenu is a no-op; the item has no menu.
func (i item) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

var (
	pointArgs = []introspect.Arg{{Name: "x", Type: "i", Direction: "in"}, {Name: "y", Type: "i", Direction: "in"}}

	sniMethods = []introspect.Method{
		{Name: "Activate", Args: pointArgs},
		{Name: "SecondaryActivate", Args: pointArgs},
		{Name: "ContextMenu", Args: pointArgs},
		{Name: "Scroll", Args: []introspect.Arg{{Name: "delta", Type: "i", Direction: "in"}, {Name: "orientation", Type: "s", Direction: "in"}}},
	}

	sniSignals = []introspect.Signal{
		{Name: "NewIcon"},
		{Name: "NewToolTip"},
		{Name: "NewStatus", Args: []introspect.Arg{{Name: "status", Type: "s"}}},
	}
)
