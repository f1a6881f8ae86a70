//go:build nogtk || !cgo

package main

import "context"

// Run starts the application without GTK.
func (a *App) Run(ctx context.Context) error {
	return a.runWithoutGTK(ctx)
}
