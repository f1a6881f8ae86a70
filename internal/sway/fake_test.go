package sway

import (
	"bytes"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/way-shell/internal/ipc"
)

// fakeSway is a minimal compositor answering requests on a unix socket.
type fakeSway struct {
	t    *testing.T
	path string
	l    net.Listener

	mu         sync.Mutex
	ackOK      bool
	workspaces string
	outputs    string
	commands   []string
	conn       net.Conn
	connected  chan struct{}

	wmu sync.Mutex
}

func newFakeSway(t *testing.T) *fakeSway {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sway.sock")
	l, err := net.Listen("unix", path)
	require.NoError(t, err)

	f := &fakeSway{
		t:          t,
		path:       path,
		l:          l,
		ackOK:      true,
		workspaces: "[]",
		outputs:    "[]",
		connected:  make(chan struct{}),
	}
	t.Cleanup(func() {
		l.Close()
		f.mu.Lock()
		if f.conn != nil {
			f.conn.Close()
		}
		f.mu.Unlock()
	})

	go f.serve()
	return f
}

func (f *fakeSway) serve() {
	c, err := f.l.Accept()
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conn = c
	f.mu.Unlock()
	close(f.connected)

	for {
		msg, err := ipc.Decode(c)
		if err != nil {
			return
		}

		f.mu.Lock()
		var reply string
		switch msg.Type {
		case ipc.Subscribe:
			reply = `{"success":false}`
			if f.ackOK {
				reply = `{"success":true}`
			}
		case ipc.GetWorkspaces:
			reply = f.workspaces
		case ipc.GetOutputs:
			reply = f.outputs
		case ipc.RunCommand:
			f.commands = append(f.commands, string(msg.Payload))
			reply = `[{"success":true}]`
		case ipc.GetVersion:
			reply = `{"major":1,"minor":10,"patch":1,"human_readable":"1.10.1"}`
		}
		f.mu.Unlock()

		if err := f.write(msg.Type, []byte(reply)); err != nil {
			return
		}
	}
}

func (f *fakeSway) write(msgType uint32, payload []byte) error {
	f.wmu.Lock()
	defer f.wmu.Unlock()
	return ipc.Write(f.conn, ipc.Encode(msgType, payload))
}

// push sends an unsolicited event.
func (f *fakeSway) push(msgType uint32, payload string) {
	f.t.Helper()
	<-f.connected
	require.NoError(f.t, f.write(msgType, []byte(payload)))
}

func (f *fakeSway) setWorkspaces(s string) {
	f.mu.Lock()
	f.workspaces = s
	f.mu.Unlock()
}

func (f *fakeSway) setOutputs(s string) {
	f.mu.Lock()
	f.outputs = s
	f.mu.Unlock()
}

func (f *fakeSway) rejectSubscribe() {
	f.mu.Lock()
	f.ackOK = false
	f.mu.Unlock()
}

func (f *fakeSway) sentCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

// recorder is an ipc stream that records written frames and never
// produces input.
type recorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (r *recorder) Read([]byte) (int, error) { return 0, io.EOF }
func (r *recorder) Close() error             { return nil }

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// take returns and clears the frames written so far.
func (r *recorder) take(t *testing.T) []ipc.Message {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []ipc.Message
	rd := bytes.NewReader(r.buf.Bytes())
	for rd.Len() > 0 {
		msg, err := ipc.Decode(rd)
		require.NoError(t, err)
		out = append(out, msg)
	}
	r.buf.Reset()
	return out
}
