package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/sway"
	"github.com/cpuguy83/way-shell/internal/wm"
)

// parseWorkspaceArg turns a CLI argument into a focus target. Plain
// numbers select by number, anything else by name.
func parseWorkspaceArg(arg string) wm.Workspace {
	if n, err := strconv.ParseInt(arg, 10, 32); err == nil && n >= 0 {
		return wm.Workspace{Num: int32(n), Name: arg}
	}
	return wm.Workspace{Num: -1, Name: arg}
}

func newFocusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "focus <workspace>",
		Short: "Focus a workspace by number or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			cmd := sway.FocusCommand(parseWorkspaceArg(args[0]))
			slog.Debug("running command", "command", cmd)
			_, err = q.Command(cmd)
			return err
		},
	}
}

func newMoveToOutputCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move-to-output <output>",
		Short: "Move the focused workspace to another output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			return moveFocused(q, args[0])
		},
	}
}

// moveFocused moves the currently focused workspace to output.
func moveFocused(q *sway.Query, output string) error {
	ws, err := q.Workspaces()
	if err != nil {
		return err
	}

	var focused string
	if w, ok := wm.FocusedIn(ws); ok {
		focused = w.Name
	}

	cmd := sway.MoveToOutputCommand(focused, output)
	slog.Debug("running command", "command", cmd)
	if _, err := q.Command(cmd); err != nil {
		return fmt.Errorf("move workspace to %s: %w", output, err)
	}
	return nil
}
