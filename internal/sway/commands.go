package sway

import (
	"fmt"
	"strconv"

	"github.com/cpuguy83/way-shell/internal/ipc"
	"github.com/cpuguy83/way-shell/internal/wm"
)

// FocusCommand builds the command that focuses ws.
// Names are passed through verbatim; sway command syntax is not escaped.
func FocusCommand(ws wm.Workspace) string {
	if ws.Num == -1 {
		return "workspace " + ws.Name
	}
	return "workspace number " + strconv.Itoa(int(ws.Num))
}

// MoveToOutputCommand builds the command moving the focused workspace to
// output. When focused is known it is focused first so that it is the one
// that moves.
func MoveToOutputCommand(focused, output string) string {
	move := "move workspace to output " + output
	if focused == "" {
		return move
	}
	return "workspace " + focused + "; " + move
}

// RunCommand sends cmd without waiting for the reply. Failures reported by
// the compositor are logged by Run.
func (s *Service) RunCommand(cmd string) error {
	if err := s.conn.Send(ipc.RunCommand, []byte(cmd)); err != nil {
		return fmt.Errorf("run command %q: %w", cmd, err)
	}
	return nil
}

// FocusWorkspace asks the compositor to focus ws.
func (s *Service) FocusWorkspace(ws wm.Workspace) error {
	return s.RunCommand(FocusCommand(ws))
}

// MoveFocusedWorkspaceToOutput moves the current workspace to output.
func (s *Service) MoveFocusedWorkspaceToOutput(output string) error {
	return s.RunCommand(MoveToOutputCommand(s.FocusedWorkspace(), output))
}
