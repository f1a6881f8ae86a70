// Package ipc implements the i3/sway IPC transport: socket discovery,
// connection management and binary message framing.
package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Magic is the fixed preamble of every frame.
const Magic = "i3-ipc"

// HeaderSize is the size of magic + payload length + message type.
const HeaderSize = len(Magic) + 4 + 4

// MaxPayload bounds the length a frame header may claim. A full tree of a
// large session is a few megabytes.
const MaxPayload = 64 << 20

// Message types.
const (
	RunCommand    uint32 = 0
	GetWorkspaces uint32 = 1
	Subscribe     uint32 = 2
	GetOutputs    uint32 = 3
	GetTree       uint32 = 4
	GetVersion    uint32 = 7

	// eventBit is set on the type of every unsolicited event frame.
	eventBit uint32 = 1 << 31

	EventWorkspace = eventBit | 0
	EventOutput    = eventBit | 1
)

var (
	ErrBadMagic = errors.New("ipc: bad magic")
	ErrRead     = errors.New("ipc: socket read failed")
	ErrWrite    = errors.New("ipc: socket write failed")
)

// Message is a single decoded frame.
type Message struct {
	Type    uint32
	Payload []byte // nil for zero-length payloads
}

// IsEvent reports whether the message is an unsolicited event.
func (m Message) IsEvent() bool {
	return m.Type&eventBit != 0
}

// TypeName returns a readable name for logging.
func TypeName(t uint32) string {
	switch t {
	case RunCommand:
		return "run_command"
	case GetWorkspaces:
		return "get_workspaces"
	case Subscribe:
		return "subscribe"
	case GetOutputs:
		return "get_outputs"
	case GetTree:
		return "get_tree"
	case GetVersion:
		return "get_version"
	case EventWorkspace:
		return "event_workspace"
	case EventOutput:
		return "event_output"
	default:
		return fmt.Sprintf("type_%#x", t)
	}
}

// Encode builds a complete frame for the given type and payload.
func Encode(msgType uint32, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	copy(buf, Magic)
	binary.NativeEndian.PutUint32(buf[6:10], uint32(len(payload)))
	binary.NativeEndian.PutUint32(buf[10:14], msgType)
	copy(buf[HeaderSize:], payload)
	return buf
}

// Decode reads exactly one frame from r. A header claiming more than
// MaxPayload bytes fails with ErrRead before anything is allocated.
func Decode(r io.Reader) (Message, error) {
	var header [HeaderSize]byte
	if err := readFull(r, header[:]); err != nil {
		return Message{}, err
	}
	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return Message{}, fmt.Errorf("%w: got %q", ErrBadMagic, header[:len(Magic)])
	}

	size := binary.NativeEndian.Uint32(header[6:10])
	msg := Message{Type: binary.NativeEndian.Uint32(header[10:14])}
	if size == 0 {
		return msg, nil
	}
	if size > MaxPayload {
		return Message{}, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrRead, size, MaxPayload)
	}

	msg.Payload = make([]byte, size)
	if err := readFull(r, msg.Payload); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Write writes buf completely, looping on short writes and retrying EINTR.
func Write(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		buf = buf[n:]
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	return nil
}

// readFull fills buf, looping on short reads and retrying EINTR.
func readFull(r io.Reader, buf []byte) error {
	for off := 0; off < len(buf); {
		n, err := r.Read(buf[off:])
		off += n
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if off == len(buf) && errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.EOF) && off > 0 {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
	}
	return nil
}
