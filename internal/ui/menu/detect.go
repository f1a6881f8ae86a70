// Package menu provides dmenu-style workspace and output switchers.
package menu

import (
	"fmt"
	"os/exec"
	"strings"
)

// programs are the dmenu-compatible launchers we know how to drive,
// Wayland-native ones first.
var programs = []string{
	"fuzzel",
	"wofi",
	"tofi",
	"bemenu",
	"rofi",
	"dmenu",
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// Detect returns the first installed launcher.
func Detect() (string, error) {
	if avail := Available(); len(avail) > 0 {
		return avail[0], nil
	}
	return "", fmt.Errorf("no dmenu-compatible program found (tried: %s)", strings.Join(programs, ", "))
}

// Supported returns the launchers Detect considers, in order.
func Supported() []string {
	return append([]string(nil), programs...)
}

// Available returns the installed launchers in preference order.
func Available() []string {
	var found []string
	for _, p := range programs {
		if path, err := lookPath(p); err == nil && path != "" {
			found = append(found, p)
		}
	}
	return found
}
