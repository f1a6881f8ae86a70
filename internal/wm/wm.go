// Package wm defines the window manager model shared by the shell surfaces
// and the compositor backends.
package wm

import (
	"context"
	"sort"
)

// Workspace is a compositor workspace as last reported by the server.
type Workspace struct {
	ID      uint32 `json:"id"`
	Num     int32  `json:"num"` // -1 for named workspaces without a number
	Name    string `json:"name"`
	Output  string `json:"output"`
	Urgent  bool   `json:"urgent"`
	Focused bool   `json:"focused"`
	Visible bool   `json:"visible"`
}

// Output is a physical display.
type Output struct {
	Name             string `json:"name"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Serial           string `json:"serial"`
	CurrentWorkspace string `json:"current_workspace"` // empty when the output shows no workspace
}

// WorkspaceChange is the kind of a workspace event.
type WorkspaceChange int

const (
	Created WorkspaceChange = iota
	Destroyed
	Focused
	Moved
	Renamed
	Urgent
	Reload
)

func (c WorkspaceChange) String() string {
	switch c {
	case Created:
		return "created"
	case Destroyed:
		return "destroyed"
	case Focused:
		return "focused"
	case Moved:
		return "moved"
	case Renamed:
		return "renamed"
	case Urgent:
		return "urgent"
	case Reload:
		return "reload"
	default:
		return "unknown"
	}
}

// WorkspaceEvent is a single workspace notification.
// Workspace is the zero value for Reload.
type WorkspaceEvent struct {
	Change    WorkspaceChange
	Workspace Workspace
}

// WindowManager is what the shell needs from a compositor backend.
type WindowManager interface {
	Workspaces() []Workspace
	Outputs() []Output
	FocusedWorkspace() string

	FocusWorkspace(ws Workspace) error
	MoveFocusedWorkspaceToOutput(output string) error
	SetSortAlphabetical(enabled bool)

	OnWorkspacesChanged() *Signal[[]Workspace]
	OnOutputsChanged() *Signal[[]Output]
	OnWorkspaceEvent() *Signal[WorkspaceEvent]
}

// CreatedHook is run for every newly created workspace.
// Implementations must not block the caller for long.
type CreatedHook interface {
	WorkspaceCreated(ctx context.Context, name string)
}

// CreatedHookFunc adapts a function to CreatedHook.
type CreatedHookFunc func(ctx context.Context, name string)

func (f CreatedHookFunc) WorkspaceCreated(ctx context.Context, name string) {
	f(ctx, name)
}

// SortByName orders workspaces by name in place. Without it a snapshot
// keeps the compositor's reply order.
func SortByName(ws []Workspace) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].Name < ws[j].Name
	})
}

// ByOutput returns the workspaces shown on the named output, preserving order.
func ByOutput(ws []Workspace, output string) []Workspace {
	var out []Workspace
	for _, w := range ws {
		if w.Output == output {
			out = append(out, w)
		}
	}
	return out
}

// FocusedIn returns the focused workspace of ws, if any.
func FocusedIn(ws []Workspace) (Workspace, bool) {
	for _, w := range ws {
		if w.Focused {
			return w, true
		}
	}
	return Workspace{}, false
}
