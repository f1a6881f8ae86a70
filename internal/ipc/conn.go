package ipc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	ErrNoSocket    = errors.New("ipc: compositor socket not found")
	ErrPathTooLong = errors.New("ipc: socket path too long")
	ErrConnect     = errors.New("ipc: connect failed")
)

// SocketPath locates the compositor IPC socket from $SWAYSOCK, $I3SOCK or
// the first sway-ipc.*.sock under $XDG_RUNTIME_DIR, in that order.
func SocketPath() (string, error) {
	if p := os.Getenv("SWAYSOCK"); p != "" {
		return p, nil
	}
	if p := os.Getenv("I3SOCK"); p != "" {
		return p, nil
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("%w: SWAYSOCK, I3SOCK and XDG_RUNTIME_DIR are unset", ErrNoSocket)
	}
	matches, err := filepath.Glob(filepath.Join(runtimeDir, "sway-ipc.*.sock"))
	if err != nil {
		return "", fmt.Errorf("glob sway sockets: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no sway-ipc.*.sock in %s", ErrNoSocket, runtimeDir)
	}
	return matches[0], nil
}

// Conn is a connected IPC stream.
// Send is safe for concurrent use; Recv must only be called from one goroutine.
type Conn struct {
	rw io.ReadWriteCloser

	wmu sync.Mutex
}

// NewConn wraps an already connected stream.
func NewConn(rw io.ReadWriteCloser) *Conn {
	return &Conn{rw: rw}
}

// Dial connects to the unix socket at path. No retry is attempted.
func Dial(path string) (*Conn, error) {
	var sa unix.RawSockaddrUnix
	if len(path) >= len(sa.Path) {
		return nil, fmt.Errorf("%w: %d bytes", ErrPathTooLong, len(path))
	}

	c, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return NewConn(c), nil
}

// Send writes a single frame.
func (c *Conn) Send(msgType uint32, payload []byte) error {
	buf := Encode(msgType, payload)

	c.wmu.Lock()
	defer c.wmu.Unlock()
	return Write(c.rw, buf)
}

// Recv blocks until a complete frame has been read.
func (c *Conn) Recv() (Message, error) {
	return Decode(c.rw)
}

// Close closes the underlying stream, unblocking a pending Recv.
func (c *Conn) Close() error {
	return c.rw.Close()
}
