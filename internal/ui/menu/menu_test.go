package menu

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpuguy83/way-shell/internal/wm"
)

var testWorkspaces = []wm.Workspace{
	{ID: 1, Num: 1, Name: "1", Output: "DP-1", Focused: true, Visible: true},
	{ID: 2, Num: 2, Name: "2:web", Output: "DP-1"},
	{ID: 3, Num: -1, Name: "mail", Output: "HDMI-A-1", Visible: true, Urgent: true},
}

func TestFormatWorkspaceList(t *testing.T) {
	lines, byLine := formatWorkspaceList(testWorkspaces)

	assert.Equal(t, []string{
		"* 1  [DP-1]",
		"  2:web  [DP-1]",
		"! mail  [HDMI-A-1]",
	}, lines)
	assert.Equal(t, uint32(2), byLine["2:web  [DP-1]"].ID)
}

func TestFormatOutputList(t *testing.T) {
	outs := []wm.Output{
		{Name: "DP-1", Make: "Dell", Model: "U2720Q", CurrentWorkspace: "1"},
		{Name: "HDMI-A-1", CurrentWorkspace: "mail"},
		{Name: "HEADLESS-1"},
	}

	lines, byLine := formatOutputList(outs, "DP-1")
	assert.Equal(t, []string{"HDMI-A-1  (showing mail)", "HEADLESS-1"}, lines)
	assert.Equal(t, "HEADLESS-1", byLine["HEADLESS-1"])
}

type scripted struct {
	reply   string
	err     error
	prompts []string
	input   []string
}

func (s *scripted) run(lines []string, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.input = lines
	return s.reply, s.err
}

func testMenu(s *scripted) *Menu {
	return &Menu{program: "fuzzel", run: s.run}
}

func TestPickWorkspace(t *testing.T) {
	s := &scripted{reply: "  2:web  [DP-1]\n"}
	w, err := testMenu(s).PickWorkspace(testWorkspaces)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), w.ID)
	assert.Equal(t, []string{"Workspace"}, s.prompts)
	assert.Len(t, s.input, 3)

	s = &scripted{reply: "scratch\n"}
	w, err = testMenu(s).PickWorkspace(testWorkspaces)
	require.NoError(t, err)
	assert.Equal(t, wm.Workspace{Num: -1, Name: "scratch"}, w)

	s = &scripted{err: ErrCancelled}
	_, err = testMenu(s).PickWorkspace(testWorkspaces)
	assert.ErrorIs(t, err, ErrCancelled)

	s = &scripted{reply: "\n"}
	_, err = testMenu(s).PickWorkspace(testWorkspaces)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = testMenu(s).PickWorkspace(nil)
	assert.Error(t, err)
}

func TestPickOutput(t *testing.T) {
	outs := []wm.Output{{Name: "DP-1"}, {Name: "DP-2", Make: "LG"}}

	s := &scripted{reply: "DP-2  LG\n"}
	name, err := testMenu(s).PickOutput(outs, "DP-1")
	require.NoError(t, err)
	assert.Equal(t, "DP-2", name)

	s = &scripted{reply: "nonsense"}
	_, err = testMenu(s).PickOutput(outs, "DP-1")
	assert.Error(t, err)

	_, err = testMenu(s).PickOutput(outs[:1], "DP-1")
	assert.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		program string
		want    string
	}{
		{"rofi", "-dmenu -p Workspace -i --extra"},
		{"wofi", "--dmenu --prompt Workspace --insensitive --extra"},
		{"fuzzel", "--dmenu --prompt Workspace:  --extra"},
		{"bemenu", "-p Workspace -i --extra"},
		{"dmenu", "-p Workspace -i -l 20 --extra"},
		{"tofi", "--prompt-text Workspace:  --extra"},
		{"mymenu", "-p Workspace --extra"},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			m := &Menu{program: tt.program, cfg: Config{Args: []string{"--extra"}}}
			assert.Equal(t, tt.want, strings.Join(m.buildArgs("Workspace"), " "))
		})
	}
}

func TestDetect(t *testing.T) {
	installed := map[string]bool{}
	orig := lookPath
	lookPath = func(p string) (string, error) {
		if installed[p] {
			return "/usr/bin/" + p, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })

	_, err := Detect()
	assert.ErrorContains(t, err, "fuzzel, wofi, tofi, bemenu, rofi, dmenu")

	installed["rofi"] = true
	installed["wofi"] = true
	p, err := Detect()
	require.NoError(t, err)
	assert.Equal(t, "wofi", p)
	assert.Equal(t, []string{"wofi", "rofi"}, Available())

	_, err = New(Config{Program: "dmenu"})
	assert.Error(t, err)
	m, err := New(Config{Program: "rofi", Args: []string{"-theme", "x"}})
	require.NoError(t, err)
	assert.Equal(t, "rofi", m.program)

	s := Supported()
	s[0] = "changed"
	assert.Equal(t, "fuzzel", Supported()[0])
}
