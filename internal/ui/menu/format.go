package menu

import (
	"fmt"
	"strings"

	"github.com/cpuguy83/way-shell/internal/wm"
)

// formatWorkspaceList returns one line per workspace and a map from the
// trimmed line back to its workspace.
func formatWorkspaceList(ws []wm.Workspace) ([]string, map[string]wm.Workspace) {
	lines := make([]string, 0, len(ws))
	byLine := make(map[string]wm.Workspace, len(ws))

	for _, w := range ws {
		line := formatWorkspaceLine(w)
		lines = append(lines, line)
		byLine[strings.TrimSpace(line)] = w
	}
	return lines, byLine
}

func formatWorkspaceLine(w wm.Workspace) string {
	prefix := "  "
	switch {
	case w.Urgent:
		prefix = "! "
	case w.Focused:
		prefix = "* "
	case w.Visible:
		prefix = "+ "
	}
	return fmt.Sprintf("%s%s  [%s]", prefix, w.Name, w.Output)
}

// formatOutputList lists outputs other than current.
func formatOutputList(outs []wm.Output, current string) ([]string, map[string]string) {
	var lines []string
	byLine := make(map[string]string, len(outs))

	for _, o := range outs {
		if o.Name == current {
			continue
		}
		line := o.Name
		if desc := strings.TrimSpace(o.Make + " " + o.Model); desc != "" {
			line += "  " + desc
		}
		if o.CurrentWorkspace != "" {
			line += fmt.Sprintf("  (showing %s)", o.CurrentWorkspace)
		}
		lines = append(lines, line)
		byLine[line] = o.Name
	}
	return lines, byLine
}
