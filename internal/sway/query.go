package sway

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cpuguy83/way-shell/internal/ipc"
	"github.com/cpuguy83/way-shell/internal/wm"
)

var (
	ErrUnexpectedReply = errors.New("sway: unexpected reply type")
	ErrCommandFailed   = errors.New("sway: command failed")
)

// Query performs synchronous request/reply exchanges on a connection that
// is not subscribed to events.
type Query struct {
	mu   sync.Mutex
	conn *ipc.Conn
}

// NewQuery wraps conn.
func NewQuery(conn *ipc.Conn) *Query {
	return &Query{conn: conn}
}

// DialQuery connects to path, or to ipc.SocketPath when path is empty.
func DialQuery(path string) (*Query, error) {
	if path == "" {
		p, err := ipc.SocketPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	conn, err := ipc.Dial(path)
	if err != nil {
		return nil, err
	}
	return NewQuery(conn), nil
}

func (q *Query) roundTrip(msgType uint32, payload []byte) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.conn.Send(msgType, payload); err != nil {
		return nil, err
	}
	reply, err := q.conn.Recv()
	if err != nil {
		return nil, err
	}
	if reply.Type != msgType {
		return nil, fmt.Errorf("%w: sent %s, got %s", ErrUnexpectedReply, ipc.TypeName(msgType), ipc.TypeName(reply.Type))
	}
	return reply.Payload, nil
}

// Workspaces returns the compositor's workspaces in reply order.
func (q *Query) Workspaces() ([]wm.Workspace, error) {
	payload, err := q.roundTrip(ipc.GetWorkspaces, nil)
	if err != nil {
		return nil, fmt.Errorf("get workspaces: %w", err)
	}
	return DecodeWorkspaces(payload)
}

// Outputs returns the compositor's outputs.
func (q *Query) Outputs() ([]wm.Output, error) {
	payload, err := q.roundTrip(ipc.GetOutputs, nil)
	if err != nil {
		return nil, fmt.Errorf("get outputs: %w", err)
	}
	return DecodeOutputs(payload)
}

// Command runs cmd and returns the per-command results. If any command
// failed the results are returned along with ErrCommandFailed.
func (q *Query) Command(cmd string) ([]CommandResult, error) {
	payload, err := q.roundTrip(ipc.RunCommand, []byte(cmd))
	if err != nil {
		return nil, fmt.Errorf("run command: %w", err)
	}
	results, err := DecodeCommandResults(payload)
	if err != nil {
		return nil, err
	}

	var failed []string
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r.Error)
		}
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("%w: %s", ErrCommandFailed, strings.Join(failed, "; "))
	}
	return results, nil
}

// Version returns the compositor version.
func (q *Query) Version() (Version, error) {
	payload, err := q.roundTrip(ipc.GetVersion, nil)
	if err != nil {
		return Version{}, fmt.Errorf("get version: %w", err)
	}
	return DecodeVersion(payload)
}

func (q *Query) Close() error {
	return q.conn.Close()
}
