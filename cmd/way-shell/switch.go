package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/settings"
	"github.com/cpuguy83/way-shell/internal/sway"
	"github.com/cpuguy83/way-shell/internal/ui/menu"
	"github.com/cpuguy83/way-shell/internal/wm"
)

func (o *rootOptions) menu() (*menu.Menu, error) {
	return menu.New(menu.Config{
		Program: o.cfg.Menu.Program,
		Args:    o.cfg.Menu.Args,
	})
}

// sortAlphabetical reads the persisted sort setting, defaulting to false
// when the settings file cannot be read.
func (o *rootOptions) sortAlphabetical() bool {
	store, err := settings.Open(o.cfg.Settings.Path)
	if err != nil {
		return false
	}
	return store.Get().SortAlphabetical
}

func newSwitchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "switch",
		Short: "Pick a workspace from a menu and focus it",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := opts.menu()
			if err != nil {
				return err
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			ws, err := opts.workspaces(q, opts.sortAlphabetical())
			if err != nil {
				return err
			}
			return ignoreCancel(switchWorkspace(m, q, ws))
		},
	}
}

func switchWorkspace(m *menu.Menu, q *sway.Query, ws []wm.Workspace) error {
	w, err := m.PickWorkspace(ws)
	if err != nil {
		return err
	}
	if _, err := q.Command(sway.FocusCommand(w)); err != nil {
		return fmt.Errorf("focus %s: %w", w.Name, err)
	}
	return nil
}

func newSendToCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send-to",
		Short: "Pick an output from a menu and move the focused workspace to it",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := opts.menu()
			if err != nil {
				return err
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			ws, err := q.Workspaces()
			if err != nil {
				return err
			}
			outs, err := q.Outputs()
			if err != nil {
				return err
			}

			var current string
			if w, ok := wm.FocusedIn(ws); ok {
				current = w.Output
			}

			out, err := m.PickOutput(outs, current)
			if err != nil {
				return ignoreCancel(err)
			}
			return moveFocused(q, out)
		},
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, menu.ErrCancelled) {
		return nil
	}
	return err
}
