package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/way-shell/internal/wm"
)

type fakeSender struct {
	sent      []Notification
	dismissed []uint32
	err       error
}

func (f *fakeSender) Send(n Notification) (uint32, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	return uint32(len(f.sent)), nil
}

func (f *fakeSender) Dismiss(id uint32) error {
	f.dismissed = append(f.dismissed, id)
	return nil
}

type fakeFocuser struct {
	focused []string
}

func (f *fakeFocuser) FocusWorkspace(ws wm.Workspace) error {
	f.focused = append(f.focused, ws.Name)
	return nil
}

func urgent(id uint32, name string, on bool) wm.WorkspaceEvent {
	return wm.WorkspaceEvent{
		Change:    wm.Urgent,
		Workspace: wm.Workspace{ID: id, Name: name, Output: "DP-1", Urgent: on},
	}
}

func TestUrgentNotifiesOncePerWorkspace(t *testing.T) {
	s := &fakeSender{}
	u := NewUrgentWatcher(s, UrgentOptions{Urgency: UrgencyCritical})

	u.HandleEvent(urgent(1, "mail", true))
	u.HandleEvent(urgent(1, "mail", true))
	require.Len(t, s.sent, 1)
	assert.True(t, strings.Contains(s.sent[0].Summary, "mail"))
	assert.Equal(t, UrgencyCritical, s.sent[0].Urgency)
	assert.Empty(t, s.sent[0].Actions)

	u.HandleEvent(urgent(1, "mail", false))
	assert.Equal(t, []uint32{1}, s.dismissed)
	u.HandleEvent(urgent(1, "mail", false))
	assert.Len(t, s.dismissed, 1)
	u.HandleEvent(urgent(1, "mail", true))
	assert.Len(t, s.sent, 2)

	u.HandleEvent(wm.WorkspaceEvent{Change: wm.Destroyed, Workspace: wm.Workspace{ID: 1}})
	assert.Equal(t, []uint32{1, 2}, s.dismissed)
	u.HandleEvent(urgent(1, "mail", true))
	assert.Len(t, s.sent, 3)

	u.HandleEvent(wm.WorkspaceEvent{Change: wm.Focused, Workspace: wm.Workspace{ID: 2, Urgent: true}})
	assert.Len(t, s.sent, 3)
}

func TestUrgentMatchAndErrors(t *testing.T) {
	s := &fakeSender{}
	u := NewUrgentWatcher(s, UrgentOptions{
		Match: func(ws wm.Workspace) bool { return ws.Name != "scratch" },
	})
	u.HandleEvent(urgent(3, "scratch", true))
	assert.Empty(t, s.sent)

	s.err = errors.New("no bus")
	u.HandleEvent(urgent(4, "4", true))
	s.err = nil
	u.HandleEvent(urgent(4, "4", true))
	assert.Len(t, s.sent, 1)
}

func TestUrgentAction(t *testing.T) {
	s := &fakeSender{}
	f := &fakeFocuser{}
	u := NewUrgentWatcher(s, UrgentOptions{Focuser: f})

	u.HandleEvent(urgent(1, "mail", true))
	require.Len(t, s.sent, 1)
	require.Len(t, s.sent[0].Actions, 1)

	u.HandleAction(99, actionFocus)
	u.HandleAction(1, "dismiss")
	u.HandleAction(1, actionFocus)
	assert.Equal(t, []string{"mail"}, f.focused)

	u.HandleEvent(wm.WorkspaceEvent{Change: wm.Reload})
	u.HandleAction(1, actionFocus)
	assert.Len(t, f.focused, 1)
}

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyLow, ParseUrgency("low"))
	assert.Equal(t, UrgencyNormal, ParseUrgency("normal"))
	assert.Equal(t, UrgencyNormal, ParseUrgency(""))
	assert.Equal(t, UrgencyCritical, ParseUrgency("critical"))
}
