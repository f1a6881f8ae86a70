// Package ui provides the per-output workspace panel (GTK4 layer-shell)
// and the layout logic it renders.
package ui

import (
	"slices"

	"github.com/cpuguy83/way-shell/internal/wm"
)

// UI is the interface for displaying workspaces to the user.
type UI interface {
	// Init initializes the UI. Must be called before other methods.
	Init() error

	// SetWorkspaces replaces the workspace list.
	SetWorkspaces(ws []wm.Workspace)

	// SetOutputs replaces the output list. Bars are created and removed
	// to match it.
	SetOutputs(outs []wm.Output)

	// OnFocus sets the callback for when the user clicks a workspace.
	OnFocus(fn func(wm.Workspace))
}

// Config holds UI configuration.
type Config struct {
	Outputs          []string // Empty means every output
	ShowEmptyOutputs bool
	Position         string // "top" or "bottom"
	Theme            string // "system", "light", "dark"
}

// Bar is the content of one output's panel.
type Bar struct {
	Output     string
	Workspaces []wm.Workspace
}

// Layout assigns workspaces to one bar per output, in output order.
// Workspace order within a bar follows ws.
func Layout(outs []wm.Output, ws []wm.Workspace, cfg Config) []Bar {
	var bars []Bar
	for _, o := range outs {
		if len(cfg.Outputs) > 0 && !slices.Contains(cfg.Outputs, o.Name) {
			continue
		}
		onOutput := wm.ByOutput(ws, o.Name)
		if len(onOutput) == 0 && !cfg.ShowEmptyOutputs {
			continue
		}
		bars = append(bars, Bar{Output: o.Name, Workspaces: onOutput})
	}
	return bars
}

// ButtonClasses returns the CSS classes for a workspace button.
func ButtonClasses(w wm.Workspace) []string {
	classes := []string{"workspace"}
	if w.Focused {
		classes = append(classes, "focused")
	} else if w.Visible {
		classes = append(classes, "visible")
	}
	if w.Urgent {
		classes = append(classes, "urgent")
	}
	return classes
}

// ButtonLabel returns the text shown for w. Numbered workspaces named
// "N:label" show only the label.
func ButtonLabel(w wm.Workspace) string {
	if w.Num < 0 {
		return w.Name
	}
	for i := 0; i < len(w.Name); i++ {
		if w.Name[i] == ':' {
			if i+1 < len(w.Name) {
				return w.Name[i+1:]
			}
			break
		}
		if w.Name[i] < '0' || w.Name[i] > '9' {
			break
		}
	}
	return w.Name
}
