// Package hooks runs user scripts in response to workspace changes.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/cpuguy83/way-shell/internal/wm"
)

// Script runs an executable with the workspace name as its only argument.
// Runs are detached from the caller; a missing script is skipped silently.
type Script struct {
	Path    string
	Timeout time.Duration

	wg sync.WaitGroup
}

var _ wm.CreatedHook = (*Script)(nil)

// NewScript returns a hook for the script at path.
func NewScript(path string, timeout time.Duration) *Script {
	return &Script{Path: path, Timeout: timeout}
}

// WorkspaceCreated starts the script for name and returns immediately.
func (s *Script) WorkspaceCreated(ctx context.Context, name string) {
	if s.Path == "" {
		return
	}
	if _, err := os.Stat(s.Path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("workspace hook unavailable", "path", s.Path, "error", err)
		}
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(context.WithoutCancel(ctx), name); err != nil {
			slog.Warn("workspace hook failed", "path", s.Path, "workspace", name, "error", err)
		}
	}()
}

func (s *Script) run(ctx context.Context, name string) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		slog.Debug("workspace hook finished", "path", s.Path, "workspace", name, "elapsed", time.Since(start))
	}()

	cmd := exec.CommandContext(ctx, s.Path, name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("run %s: %w: %s", s.Path, err, out)
		}
		return fmt.Errorf("run %s: %w", s.Path, err)
	}
	return nil
}

// Wait blocks until every started script has exited.
func (s *Script) Wait() {
	s.wg.Wait()
}
