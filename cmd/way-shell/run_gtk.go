//go:build !nogtk && cgo

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cpuguy83/way-shell/internal/ui"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Run starts the application with the appropriate main loop.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Panel.Enabled && ui.GTKAvailable() {
		return a.runWithGTK(ctx)
	}
	return a.runWithoutGTK(ctx)
}

// runWithGTK runs the service loop next to the GTK main loop. Either one
// stopping stops the other.
func (a *App) runWithGTK(ctx context.Context) error {
	a.ui = ui.NewGTK(ui.Config{
		Outputs:          a.cfg.Panel.Outputs,
		ShowEmptyOutputs: a.cfg.Panel.ShowEmptyOutputs,
		Position:         a.cfg.Panel.Position,
		Theme:            a.cfg.Panel.Theme,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	gtkApp := gtk.NewApplication("io.github.cpuguy83.way-shell", gio.ApplicationFlagsNone)

	var activateErr error
	gtkApp.ConnectActivate(func() {
		// Bars come and go with outputs; keep running without windows.
		gtkApp.Hold()

		if err := a.ui.Init(); err != nil {
			activateErr = fmt.Errorf("init panel: %w", err)
			gtkApp.Quit()
			return
		}
		if err := a.activate(); err != nil {
			activateErr = err
			gtkApp.Quit()
			return
		}
		g.Go(func() error { return a.svc.Run(gctx) })
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		glib.IdleAdd(func() {
			gtkApp.Quit()
		})
		return nil
	})

	code := gtkApp.Run(nil)
	cancel()
	err := g.Wait()
	a.cleanup()

	if activateErr != nil {
		return activateErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if code != 0 {
		return fmt.Errorf("GTK application exited with code %d", code)
	}
	return nil
}
