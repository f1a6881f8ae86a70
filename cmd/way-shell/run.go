package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/config"
	"github.com/cpuguy83/way-shell/internal/filter"
	"github.com/cpuguy83/way-shell/internal/hooks"
	"github.com/cpuguy83/way-shell/internal/notify"
	"github.com/cpuguy83/way-shell/internal/settings"
	"github.com/cpuguy83/way-shell/internal/sway"
	"github.com/cpuguy83/way-shell/internal/tray"
	"github.com/cpuguy83/way-shell/internal/ui"
	"github.com/cpuguy83/way-shell/internal/ui/menu"
	"github.com/cpuguy83/way-shell/internal/wm"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the panel, tray and notifications (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), opts.cfg)
		},
	}
}

func runShell(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting way-shell",
		"panel", cfg.Panel.Enabled,
		"tray", cfg.Tray.Enabled,
		"notifications", cfg.Notifications.Enabled,
	)

	app := &App{cfg: cfg}
	err := app.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// App is the long-running shell.
type App struct {
	cfg *config.Config

	svc      *sway.Service
	filter   *filter.Filter
	hook     *hooks.Script
	store    *settings.Store
	tray     trayItem
	notifier *notify.Notifier
	urgent   *notify.UrgentWatcher
	menu     *menu.Menu
	ui       ui.UI

	// newTray is swapped out in tests.
	newTray func() (trayItem, error)
}

// trayItem is the part of *tray.Tray the app drives.
type trayItem interface {
	Start() error
	Stop() error
	Update(ws []wm.Workspace)
	OnActivate(fn func())
	OnSecondaryActivate(fn func())
	OnScroll(fn func(delta int))
}

func newSNITray() (trayItem, error) {
	t, err := tray.New()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// activate connects to the compositor and wires every enabled surface to
// the service's signals. It does not start the service loop.
func (a *App) activate() error {
	var err error

	a.filter, err = filter.New(a.cfg.Filters)
	if err != nil {
		return err
	}

	a.store, err = settings.Open(a.cfg.Settings.Path)
	if err != nil {
		slog.Warn("failed to read settings, using defaults", "error", err)
		a.store = nil
	}
	var sortAlpha bool
	if a.store != nil {
		sortAlpha = a.store.Get().SortAlphabetical
	}

	a.hook = hooks.NewScript(a.cfg.Hooks.WorkspaceNew, a.cfg.Hooks.Timeout)

	a.svc, err = sway.Dial(a.cfg.Sway.Socket, sway.Options{
		Hook:             a.hook,
		SortAlphabetical: sortAlpha,
	})
	if err != nil {
		return fmt.Errorf("connect to compositor: %w", err)
	}

	if a.store != nil {
		if err := a.store.Watch(func(s settings.Settings) {
			slog.Info("settings changed", "sort_alphabetical", s.SortAlphabetical)
			a.svc.SetSortAlphabetical(s.SortAlphabetical)
		}); err != nil {
			slog.Warn("failed to watch settings", "error", err)
		}
	}

	a.menu, err = menu.New(menu.Config{Program: a.cfg.Menu.Program, Args: a.cfg.Menu.Args})
	if err != nil {
		slog.Debug("no menu program, switchers disabled", "error", err)
		a.menu = nil
	}

	if a.cfg.Tray.Enabled {
		if err := a.startTray(); err != nil {
			slog.Warn("failed to start tray", "error", err)
		}
	}

	if a.cfg.Notifications.Enabled {
		a.startNotifications()
	}

	if a.ui != nil {
		a.ui.OnFocus(a.focus)
	}

	a.svc.OnWorkspacesChanged().Connect(func(ws []wm.Workspace) {
		shown := a.filter.Apply(ws)
		if a.tray != nil {
			a.tray.Update(shown)
		}
		if a.ui != nil {
			a.ui.SetWorkspaces(shown)
		}
	})
	a.svc.OnOutputsChanged().Connect(func(outs []wm.Output) {
		if a.ui != nil {
			a.ui.SetOutputs(outs)
		}
	})

	return nil
}

// startTray sets a.tray only once the item is exported.
func (a *App) startTray() error {
	newTray := a.newTray
	if newTray == nil {
		newTray = newSNITray
	}
	t, err := newTray()
	if err != nil {
		return err
	}

	t.OnScroll(func(delta int) {
		if w, ok := tray.Next(a.filter.Apply(a.svc.Workspaces()), delta); ok {
			a.focus(w)
		}
	})
	// Tray callbacks already run on their own goroutine.
	t.OnActivate(a.pickWorkspace)
	t.OnSecondaryActivate(a.pickOutput)

	if err := t.Start(); err != nil {
		t.Stop()
		return err
	}
	a.tray = t
	return nil
}

func (a *App) startNotifications() {
	n, err := notify.New("way-shell")
	if err != nil {
		slog.Warn("failed to initialize notifications", "error", err)
		return
	}
	a.notifier = n

	a.urgent = notify.NewUrgentWatcher(n, notify.UrgentOptions{
		Urgency: notify.ParseUrgency(a.cfg.Notifications.Urgency),
		Timeout: a.cfg.Notifications.Timeout,
		Match:   a.filter.Match,
		Focuser: a.svc,
	})
	a.svc.OnWorkspaceEvent().Connect(a.urgent.HandleEvent)

	if err := n.WatchActions(a.urgent.HandleAction); err != nil {
		slog.Warn("failed to watch notification actions", "error", err)
	}
}

func (a *App) focus(w wm.Workspace) {
	slog.Debug("focusing workspace", "name", w.Name)
	if err := a.svc.FocusWorkspace(w); err != nil {
		slog.Warn("failed to focus workspace", "name", w.Name, "error", err)
	}
}

func (a *App) pickWorkspace() {
	if a.menu == nil {
		slog.Info("no menu program available for the workspace switcher")
		return
	}
	w, err := a.menu.PickWorkspace(a.filter.Apply(a.svc.Workspaces()))
	if err != nil {
		if !errors.Is(err, menu.ErrCancelled) {
			slog.Warn("workspace switcher failed", "error", err)
		}
		return
	}
	a.focus(w)
}

func (a *App) pickOutput() {
	if a.menu == nil {
		slog.Info("no menu program available for the output switcher")
		return
	}

	var current string
	if w, ok := wm.FocusedIn(a.svc.Workspaces()); ok {
		current = w.Output
	}
	out, err := a.menu.PickOutput(a.svc.Outputs(), current)
	if err != nil {
		if !errors.Is(err, menu.ErrCancelled) {
			slog.Warn("output switcher failed", "error", err)
		}
		return
	}
	if err := a.svc.MoveFocusedWorkspaceToOutput(out); err != nil {
		slog.Warn("failed to move workspace", "output", out, "error", err)
	}
}

// cleanup releases resources when the app is shutting down.
func (a *App) cleanup() {
	if a.tray != nil {
		a.tray.Stop()
	}
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.hook != nil {
		a.hook.Wait()
	}
}
