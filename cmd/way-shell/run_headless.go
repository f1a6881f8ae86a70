package main

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// runWithoutGTK runs the service loop with the tray and notifications but
// no panel.
func (a *App) runWithoutGTK(ctx context.Context) error {
	if err := a.activate(); err != nil {
		return err
	}
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.svc.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		return nil
	})
	return g.Wait()
}
