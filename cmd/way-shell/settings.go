package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/settings"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := settings.Open(opts.cfg.Settings.Path)
			if err != nil {
				return err
			}
			s := store.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "file: %s\nsort_alphabetical: %t\n", store.Path(), s.SortAlphabetical)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sort-alphabetical <true|false>",
		Short: "Order workspaces by name instead of number",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			store, err := settings.Open(opts.cfg.Settings.Path)
			if err != nil {
				return err
			}
			return store.SetSortAlphabetical(enabled)
		},
	})

	return cmd
}
