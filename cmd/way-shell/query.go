package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cpuguy83/way-shell/internal/filter"
	"github.com/cpuguy83/way-shell/internal/sway"
	"github.com/cpuguy83/way-shell/internal/wm"
)

// query dials the compositor for a one-shot request.
func (o *rootOptions) query() (*sway.Query, error) {
	q, err := sway.DialQuery(o.cfg.Sway.Socket)
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	return q, nil
}

// workspaces returns the filtered, sorted workspace list.
func (o *rootOptions) workspaces(q *sway.Query, alphabetical bool) ([]wm.Workspace, error) {
	f, err := filter.New(o.cfg.Filters)
	if err != nil {
		return nil, err
	}
	ws, err := q.Workspaces()
	if err != nil {
		return nil, err
	}
	ws = f.Apply(ws)
	if alphabetical {
		wm.SortByName(ws)
	}
	return ws, nil
}

func newWorkspacesCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		alpha  bool
	)

	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws"},
		Short:   "List workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			ws, err := opts.workspaces(q, alpha)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ws)
			}
			return printWorkspaces(cmd.OutOrStdout(), ws)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&alpha, "alphabetical", false, "sort by name")
	return cmd
}

func newOutputsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "List outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			defer q.Close()

			outs, err := q.Outputs()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outs)
			}
			return printOutputs(cmd.OutOrStdout(), outs)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "way-shell %s\n", moduleVersion())

			q, err := opts.query()
			if err != nil {
				fmt.Fprintf(out, "compositor: not connected (%v)\n", err)
				return nil
			}
			defer q.Close()

			v, err := q.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "compositor: %s\n", v.HumanReadable)
			if v.LoadedConfigFileName != "" {
				fmt.Fprintf(out, "config: %s\n", v.LoadedConfigFileName)
			}
			return nil
		},
	}
}

func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWorkspaces(w io.Writer, ws []wm.Workspace) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUM\tNAME\tOUTPUT\tSTATE")
	for _, x := range ws {
		num := "-"
		if x.Num >= 0 {
			num = fmt.Sprint(x.Num)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", num, x.Name, x.Output, workspaceState(x))
	}
	return tw.Flush()
}

func workspaceState(w wm.Workspace) string {
	var s []string
	if w.Focused {
		s = append(s, "focused")
	}
	if w.Visible {
		s = append(s, "visible")
	}
	if w.Urgent {
		s = append(s, "urgent")
	}
	return strings.Join(s, ",")
}

func printOutputs(w io.Writer, outs []wm.Output) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMAKE\tMODEL\tWORKSPACE")
	for _, o := range outs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Name, o.Make, o.Model, o.CurrentWorkspace)
	}
	return tw.Flush()
}
