// Package sway implements wm.WindowManager on top of the i3/sway IPC protocol.
package sway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cpuguy83/way-shell/internal/ipc"
	"github.com/cpuguy83/way-shell/internal/wm"
)

var ErrSubscribeRejected = errors.New("sway: subscribe rejected")

// State is the protocol state of a Service.
type State int

const (
	StateAwaitingSubscribeAck State = iota
	StateSubscribed
)

func (s State) String() string {
	if s == StateSubscribed {
		return "subscribed"
	}
	return "awaiting-subscribe-ack"
}

var subscribePayload = []byte(`["workspace","output"]`)

// Options configures a Service.
type Options struct {
	// Hook is called for every created workspace. May be nil.
	Hook wm.CreatedHook
	// SortAlphabetical orders snapshots by name instead of number.
	SortAlphabetical bool
}

// Service keeps a server-confirmed snapshot of workspaces and outputs.
// All mutable state is owned by the goroutine running Run; the query and
// command methods are safe to call from any goroutine.
type Service struct {
	conn *ipc.Conn
	hook wm.CreatedHook

	state State

	workspaces wm.Snapshot[wm.Workspace]
	outputs    wm.Snapshot[wm.Output]
	focused    atomic.Pointer[string]
	sortAlpha  atomic.Bool
	resort     chan struct{}

	workspacesChanged wm.Signal[[]wm.Workspace]
	outputsChanged    wm.Signal[[]wm.Output]
	workspaceEvent    wm.Signal[wm.WorkspaceEvent]
}

var _ wm.WindowManager = (*Service)(nil)

// New creates a Service on an already connected IPC stream.
func New(conn *ipc.Conn, opts Options) *Service {
	s := &Service{
		conn:   conn,
		hook:   opts.Hook,
		resort: make(chan struct{}, 1),
	}
	s.sortAlpha.Store(opts.SortAlphabetical)
	return s
}

// Dial connects to the compositor socket at path.
// An empty path is resolved with ipc.SocketPath.
func Dial(path string, opts Options) (*Service, error) {
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
	slog.Debug("connected to compositor", "socket", path)
	return New(conn, opts), nil
}

// Run subscribes to workspace and output events and processes frames until
// ctx is cancelled or a fatal error occurs. The connection is closed when
// Run returns.
func (s *Service) Run(ctx context.Context) error {
	defer s.conn.Close()

	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer stop()

	s.state = StateAwaitingSubscribeAck
	if err := s.conn.Send(ipc.Subscribe, subscribePayload); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	done := make(chan struct{})
	defer close(done)

	frames := make(chan ipc.Message)
	readErr := make(chan error, 1)
	go func() {
		for {
			msg, err := s.conn.Recv()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- msg:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		case msg := <-frames:
			if err := s.dispatch(ctx, msg); err != nil {
				return err
			}
		case <-s.resort:
			if s.state == StateSubscribed {
				if err := s.requestWorkspaces(); err != nil {
					return err
				}
			}
		}
	}
}

// dispatch handles a single frame to completion. Returned errors are fatal.
func (s *Service) dispatch(ctx context.Context, msg ipc.Message) error {
	if s.state == StateAwaitingSubscribeAck && msg.Type != ipc.Subscribe {
		slog.Debug("dropping message before subscribe ack", "type", ipc.TypeName(msg.Type))
		return nil
	}

	switch msg.Type {
	case ipc.Subscribe:
		return s.handleSubscribe(msg.Payload)
	case ipc.GetWorkspaces:
		return s.handleWorkspaces(msg.Payload)
	case ipc.GetOutputs:
		return s.handleOutputs(msg.Payload)
	case ipc.RunCommand:
		s.handleCommandReply(msg.Payload)
		return nil
	case ipc.EventWorkspace:
		return s.handleWorkspaceEvent(ctx, msg.Payload)
	case ipc.EventOutput:
		if !s.outputs.Loaded() {
			slog.Debug("dropping output event before first snapshot")
			return nil
		}
		return s.requestOutputs()
	default:
		slog.Debug("ignoring message", "type", ipc.TypeName(msg.Type))
		return nil
	}
}

func (s *Service) handleSubscribe(payload []byte) error {
	if s.state == StateSubscribed {
		slog.Debug("ignoring duplicate subscribe reply")
		return nil
	}

	ok, err := DecodeSubscribeAck(payload)
	if err != nil {
		return fmt.Errorf("decode subscribe reply: %w", err)
	}
	if !ok {
		return ErrSubscribeRejected
	}

	s.state = StateSubscribed
	slog.Debug("subscribed to compositor events")

	if err := s.requestWorkspaces(); err != nil {
		return err
	}
	return s.requestOutputs()
}

func (s *Service) handleWorkspaces(payload []byte) error {
	ws, err := DecodeWorkspaces(payload)
	if err != nil {
		return fmt.Errorf("decode workspaces: %w", err)
	}
	if s.sortAlpha.Load() {
		wm.SortByName(ws)
	}

	s.workspaces.Store(ws)
	slog.Debug("workspaces updated", "count", len(ws))
	s.workspacesChanged.Emit(ws)
	return nil
}

func (s *Service) handleOutputs(payload []byte) error {
	outs, err := DecodeOutputs(payload)
	if err != nil {
		return fmt.Errorf("decode outputs: %w", err)
	}

	s.outputs.Store(outs)
	slog.Debug("outputs updated", "count", len(outs))
	s.outputsChanged.Emit(outs)
	return nil
}

func (s *Service) handleCommandReply(payload []byte) {
	results, err := DecodeCommandResults(payload)
	if err != nil {
		slog.Warn("failed to decode command reply", "error", err)
		return
	}
	for _, r := range results {
		if !r.Success {
			slog.Warn("compositor command failed", "error", r.Error, "parse_error", r.ParseError)
		}
	}
}

func (s *Service) handleWorkspaceEvent(ctx context.Context, payload []byte) error {
	if !s.workspaces.Loaded() {
		slog.Debug("dropping workspace event before first snapshot")
		return nil
	}

	ev, err := DecodeWorkspaceEvent(payload)
	if err != nil {
		if errors.Is(err, ErrMissingField) {
			return fmt.Errorf("decode workspace event: %w", err)
		}
		slog.Warn("dropping workspace event", "error", err)
		return nil
	}

	switch ev.Change {
	case wm.Created:
		if s.hook != nil {
			s.hook.WorkspaceCreated(ctx, ev.Workspace.Name)
		}
	case wm.Focused:
		name := ev.Workspace.Name
		s.focused.Store(&name)
	}

	slog.Debug("workspace event", "change", ev.Change, "workspace", ev.Workspace.Name)
	s.workspaceEvent.Emit(ev)

	return s.requestWorkspaces()
}

func (s *Service) requestWorkspaces() error {
	if err := s.conn.Send(ipc.GetWorkspaces, nil); err != nil {
		return fmt.Errorf("request workspaces: %w", err)
	}
	return nil
}

func (s *Service) requestOutputs() error {
	if err := s.conn.Send(ipc.GetOutputs, nil); err != nil {
		return fmt.Errorf("request outputs: %w", err)
	}
	return nil
}

// Workspaces returns the current snapshot. The slice must not be modified.
func (s *Service) Workspaces() []wm.Workspace {
	return s.workspaces.Load()
}

// Outputs returns the current snapshot. The slice must not be modified.
func (s *Service) Outputs() []wm.Output {
	return s.outputs.Load()
}

// FocusedWorkspace returns the name of the last workspace reported focused
// by an event, or "" if none was seen yet.
func (s *Service) FocusedWorkspace() string {
	if p := s.focused.Load(); p != nil {
		return *p
	}
	return ""
}

// SetSortAlphabetical changes snapshot ordering. The next snapshot is
// fetched fresh from the server rather than re-sorted in place.
func (s *Service) SetSortAlphabetical(enabled bool) {
	if s.sortAlpha.Swap(enabled) == enabled {
		return
	}
	select {
	case s.resort <- struct{}{}:
	default:
	}
}

func (s *Service) OnWorkspacesChanged() *wm.Signal[[]wm.Workspace] { return &s.workspacesChanged }
func (s *Service) OnOutputsChanged() *wm.Signal[[]wm.Output]       { return &s.outputsChanged }
func (s *Service) OnWorkspaceEvent() *wm.Signal[wm.WorkspaceEvent]  { return &s.workspaceEvent }
