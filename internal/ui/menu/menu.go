package menu

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cpuguy83/way-shell/internal/wm"
)

// ErrCancelled is returned when the user closes the menu without choosing.
var ErrCancelled = errors.New("menu cancelled")

// Config holds menu UI configuration.
type Config struct {
	Program string   // dmenu program to use (auto-detect if empty)
	Args    []string // extra args to pass to the program
}

// Menu runs dmenu-style pickers.
type Menu struct {
	cfg     Config
	program string

	// run is swapped out in tests.
	run func(lines []string, prompt string) (string, error)
}

// New creates a new Menu.
func New(cfg Config) (*Menu, error) {
	program := cfg.Program
	if program == "" {
		var err error
		program, err = Detect()
		if err != nil {
			return nil, err
		}
		slog.Debug("auto-detected menu program", "program", program)
	} else if _, err := lookPath(program); err != nil {
		return nil, fmt.Errorf("menu program %q not found: %w", program, err)
	}

	m := &Menu{
		cfg:     cfg,
		program: program,
	}
	m.run = m.runDmenu
	return m, nil
}

// PickWorkspace lets the user choose one of ws.
func (m *Menu) PickWorkspace(ws []wm.Workspace) (wm.Workspace, error) {
	if len(ws) == 0 {
		return wm.Workspace{}, errors.New("no workspaces to choose from")
	}

	lines, byLine := formatWorkspaceList(ws)
	selected, err := m.run(lines, "Workspace")
	if err != nil {
		return wm.Workspace{}, err
	}

	selected = strings.TrimSpace(selected)
	slog.Debug("workspace selection", "selected", selected)
	if selected == "" {
		return wm.Workspace{}, ErrCancelled
	}

	if w, ok := byLine[selected]; ok {
		return w, nil
	}
	// Free text: dmenu lets the user type a name that is not listed.
	return wm.Workspace{Num: -1, Name: selected}, nil
}

// PickOutput lets the user choose an output name, skipping current.
func (m *Menu) PickOutput(outs []wm.Output, current string) (string, error) {
	lines, byLine := formatOutputList(outs, current)
	if len(lines) == 0 {
		return "", errors.New("no other outputs")
	}

	selected, err := m.run(lines, "Move to output")
	if err != nil {
		return "", err
	}

	selected = strings.TrimSpace(selected)
	if selected == "" {
		return "", ErrCancelled
	}
	name, ok := byLine[selected]
	if !ok {
		return "", fmt.Errorf("unknown output %q", selected)
	}
	return name, nil
}

// runDmenu runs the dmenu program with the given input lines.
// Returns the selected line or ErrCancelled.
func (m *Menu) runDmenu(lines []string, prompt string) (string, error) {
	args := m.buildArgs(prompt)
	cmd := exec.Command(m.program, args...)

	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running dmenu", "program", m.program, "args", args)

	if err := cmd.Run(); err != nil {
		// Exit code 1 usually means user cancelled (pressed Escape)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("dmenu failed: %w (stderr: %s)", err, stderr.String())
	}

	return stdout.String(), nil
}

// buildArgs builds command-line arguments for the dmenu program.
func (m *Menu) buildArgs(prompt string) []string {
	var args []string

	switch m.program {
	case "rofi":
		args = []string{"-dmenu", "-p", prompt, "-i"}
	case "wofi":
		args = []string{"--dmenu", "--prompt", prompt, "--insensitive"}
	case "fuzzel":
		args = []string{"--dmenu", "--prompt", prompt + ": "}
	case "tofi":
		args = []string{"--prompt-text", prompt + ": "}
	case "bemenu":
		args = []string{"-p", prompt, "-i"}
	case "dmenu":
		args = []string{"-p", prompt, "-i", "-l", "20"}
	default:
		// Generic dmenu-compatible args
		args = []string{"-p", prompt}
	}

	args = append(args, m.cfg.Args...)

	return args
}
