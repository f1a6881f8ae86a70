package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		msgType uint32
		payload []byte
	}{
		{"subscribe", Subscribe, []byte(`["workspace","output"]`)},
		{"command", RunCommand, []byte("workspace number 3")},
		{"event", EventWorkspace, []byte(`{"change":"focus"}`)},
		{"binary", GetTree, []byte{0, 1, 2, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Encode(tt.msgType, tt.payload)
			require.Len(t, frame, HeaderSize+len(tt.payload))

			msg, err := Decode(bytes.NewReader(frame))
			require.NoError(t, err)
			assert.Equal(t, tt.msgType, msg.Type)
			assert.Equal(t, tt.payload, msg.Payload)
		})
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	msg, err := Decode(bytes.NewReader(Encode(GetWorkspaces, nil)))
	require.NoError(t, err)
	assert.Equal(t, GetWorkspaces, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestDecodeBadMagic(t *testing.T) {
	good := Encode(GetOutputs, []byte("[]"))

	for i := 0; i < len(Magic); i++ {
		frame := bytes.Clone(good)
		frame[i] ^= 0x20

		msg, err := Decode(bytes.NewReader(frame))
		require.ErrorIs(t, err, ErrBadMagic, "byte %d", i)
		assert.Equal(t, Message{}, msg)
	}
}

func TestDecodeTruncated(t *testing.T) {
	frame := Encode(GetOutputs, []byte(`[{"name":"DP-1"}]`))

	_, err := Decode(bytes.NewReader(frame[:len(frame)-3]))
	require.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeOversizedLength(t *testing.T) {
	frame := Encode(GetTree, nil)
	binary.NativeEndian.PutUint32(frame[6:10], MaxPayload+1)

	_, err := Decode(bytes.NewReader(frame))
	require.ErrorIs(t, err, ErrRead)
	assert.ErrorContains(t, err, "exceeds")

	frame = Encode(GetTree, []byte("{}"))
	binary.NativeEndian.PutUint32(frame[6:10], 0xffffffff)
	_, err = Decode(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrRead)
}

func TestEventTypes(t *testing.T) {
	assert.True(t, Message{Type: EventWorkspace}.IsEvent())
	assert.True(t, Message{Type: EventOutput}.IsEvent())
	assert.False(t, Message{Type: GetWorkspaces}.IsEvent())
	assert.Equal(t, uint32(0x80000000), EventWorkspace)
	assert.Equal(t, uint32(0x80000001), EventOutput)
	assert.Equal(t, "event_output", TypeName(EventOutput))
}

// chunkReader returns at most n bytes per Read and injects an EINTR
// before every chunk when eintr is set.
type chunkReader struct {
	r       io.Reader
	n       int
	eintr   bool
	pending bool
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.eintr {
		c.pending = !c.pending
		if c.pending {
			return 0, unix.EINTR
		}
	}
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}

type chunkWriter struct {
	buf   bytes.Buffer
	n     int
	eintr bool
	flip  bool
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	if c.eintr {
		c.flip = !c.flip
		if c.flip {
			return 0, unix.EINTR
		}
	}
	if len(p) > c.n {
		p = p[:c.n]
		c.buf.Write(p)
		return len(p), nil
	}
	return c.buf.Write(p)
}

func TestPartialIO(t *testing.T) {
	payload := []byte(strings.Repeat(`{"name":"ws"}`, 40))
	frame := Encode(GetWorkspaces, payload)

	for _, eintr := range []bool{false, true} {
		for _, n := range []int{1, 3, 7, 64} {
			w := &chunkWriter{n: n, eintr: eintr}
			require.NoError(t, Write(w, frame))
			require.Equal(t, frame, w.buf.Bytes())

			r := &chunkReader{r: bytes.NewReader(w.buf.Bytes()), n: n, eintr: eintr}
			msg, err := Decode(r)
			require.NoError(t, err)
			assert.Equal(t, payload, msg.Payload)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, unix.EPIPE }

func TestWriteError(t *testing.T) {
	err := Write(failWriter{}, Encode(RunCommand, []byte("nop")))
	require.ErrorIs(t, err, ErrWrite)
	assert.True(t, errors.Is(err, unix.EPIPE))
}

func TestSocketPath(t *testing.T) {
	t.Run("swaysock wins", func(t *testing.T) {
		t.Setenv("SWAYSOCK", "/run/sway.sock")
		t.Setenv("I3SOCK", "/run/i3.sock")
		p, err := SocketPath()
		require.NoError(t, err)
		assert.Equal(t, "/run/sway.sock", p)
	})

	t.Run("i3sock fallback", func(t *testing.T) {
		t.Setenv("SWAYSOCK", "")
		t.Setenv("I3SOCK", "/run/i3.sock")
		p, err := SocketPath()
		require.NoError(t, err)
		assert.Equal(t, "/run/i3.sock", p)
	})

	t.Run("runtime dir glob", func(t *testing.T) {
		dir := t.TempDir()
		sock := filepath.Join(dir, "sway-ipc.1000.42.sock")
		l, err := net.Listen("unix", sock)
		require.NoError(t, err)
		defer l.Close()

		t.Setenv("SWAYSOCK", "")
		t.Setenv("I3SOCK", "")
		t.Setenv("XDG_RUNTIME_DIR", dir)
		p, err := SocketPath()
		require.NoError(t, err)
		assert.Equal(t, sock, p)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("SWAYSOCK", "")
		t.Setenv("I3SOCK", "")
		t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
		_, err := SocketPath()
		assert.ErrorIs(t, err, ErrNoSocket)
	})
}

func TestDial(t *testing.T) {
	_, err := Dial("/" + strings.Repeat("x", 200))
	require.ErrorIs(t, err, ErrPathTooLong)

	_, err = Dial(filepath.Join(t.TempDir(), "missing.sock"))
	require.ErrorIs(t, err, ErrConnect)

	sock := filepath.Join(t.TempDir(), "s.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer l.Close()

	done := make(chan Message, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		msg, err := Decode(c)
		if err != nil {
			return
		}
		_ = Write(c, Encode(msg.Type, []byte(`[{"success":true}]`)))
		done <- msg
	}()

	conn, err := Dial(sock)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Send(RunCommand, []byte("workspace 1")))
	reply, err := conn.Recv()
	require.NoError(t, err)
	assert.Equal(t, RunCommand, reply.Type)
	assert.JSONEq(t, `[{"success":true}]`, string(reply.Payload))

	sent := <-done
	assert.Equal(t, "workspace 1", string(sent.Payload))
}
