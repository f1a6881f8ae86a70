//go:build nogtk || !cgo

package ui

import "github.com/cpuguy83/way-shell/internal/wm"

// GTK is a stub when GTK is not available.
type GTK struct{}

// NewGTK returns nil when GTK is not available.
func NewGTK(cfg Config) *GTK {
	return nil
}

// GTKAvailable returns false when GTK is not available.
func GTKAvailable() bool {
	return false
}

// Init is a no-op stub.
func (g *GTK) Init() error {
	return nil
}

// SetWorkspaces is a no-op stub.
func (g *GTK) SetWorkspaces(ws []wm.Workspace) {}

// SetOutputs is a no-op stub.
func (g *GTK) SetOutputs(outs []wm.Output) {}

// OnFocus is a no-op stub.
func (g *GTK) OnFocus(fn func(wm.Workspace)) {}
