package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "on_workspace_new.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestScriptRunsWithName(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	s := NewScript(writeScript(t, `echo "$1" > `+out+"\n"), 5*time.Second)

	s.WorkspaceCreated(context.Background(), "7:chat")
	s.Wait()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "7:chat", strings.TrimSpace(string(data)))
}

func TestScriptMissingIsSkipped(t *testing.T) {
	s := NewScript(filepath.Join(t.TempDir(), "absent.sh"), time.Second)
	s.WorkspaceCreated(context.Background(), "1")
	s.Wait()

	var empty Script
	empty.WorkspaceCreated(context.Background(), "1")
}

func TestScriptTimeout(t *testing.T) {
	s := NewScript(writeScript(t, "sleep 10\n"), 50*time.Millisecond)

	err := s.run(context.Background(), "1")
	assert.Error(t, err)
}

func TestScriptOutlivesCaller(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	s := NewScript(writeScript(t, "sleep 0.1; echo done > "+out+"\n"), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	s.WorkspaceCreated(ctx, "1")
	cancel()
	s.Wait()

	_, err := os.Stat(out)
	assert.NoError(t, err)
}
