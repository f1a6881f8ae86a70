package sway

import (
	"testing"

	"github.com/cpuguy83/way-shell/internal/wm"
)

func TestFocusCommand(t *testing.T) {
	tests := []struct {
		ws   wm.Workspace
		want string
	}{
		{wm.Workspace{Num: 3, Name: "3"}, "workspace number 3"},
		{wm.Workspace{Num: 2, Name: "2:web"}, "workspace number 2"},
		{wm.Workspace{Num: -1, Name: "mail"}, "workspace mail"},
	}

	for _, tt := range tests {
		if got := FocusCommand(tt.ws); got != tt.want {
			t.Errorf("FocusCommand(%+v) = %q, want %q", tt.ws, got, tt.want)
		}
	}
}

func TestMoveToOutputCommand(t *testing.T) {
	if got, want := MoveToOutputCommand("", "DP-2"), "move workspace to output DP-2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := MoveToOutputCommand("3", "DP-2"), "workspace 3; move workspace to output DP-2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCommandsAreNotEscaped(t *testing.T) {
	ws := wm.Workspace{Num: -1, Name: "a; exit"}
	if got, want := FocusCommand(ws), "workspace a; exit"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
