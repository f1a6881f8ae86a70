//go:build !nogtk && cgo

package ui

import "github.com/cpuguy83/way-shell/internal/wm"

// GTK wraps the Panel to implement the UI interface.
type GTK struct {
	panel *Panel
}

// NewGTK creates a new GTK UI backend.
func NewGTK(cfg Config) *GTK {
	return &GTK{
		panel: NewPanel(cfg),
	}
}

// GTKAvailable returns true if GTK support is compiled in.
// Use the 'nogtk' build tag to build without GTK support for systems
// that don't have GTK4 installed.
func GTKAvailable() bool {
	return true
}

// Init initializes the GTK UI. Must be called from GTK main thread.
func (g *GTK) Init() error {
	g.panel.Init()
	return nil
}

// SetWorkspaces updates the workspace buttons.
func (g *GTK) SetWorkspaces(ws []wm.Workspace) {
	g.panel.SetWorkspaces(ws)
}

// SetOutputs updates the set of bars.
func (g *GTK) SetOutputs(outs []wm.Output) {
	g.panel.SetOutputs(outs)
}

// OnFocus sets the callback for workspace clicks.
func (g *GTK) OnFocus(fn func(wm.Workspace)) {
	g.panel.OnFocus(fn)
}
