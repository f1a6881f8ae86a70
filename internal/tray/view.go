package tray

import (
	"fmt"
	"strings"

	"github.com/cpuguy83/way-shell/internal/wm"
)

const (
	colorNormal = 0xFF5294E2 // Arc-style blue
	colorUrgent = 0xFFF27835 // Orange
)

// view is what the icon currently shows.
type view struct {
	slot   int // 0-8 for workspaces 1-9, -1 otherwise
	urgent bool
	body   string
}

func viewFor(ws []wm.Workspace) view {
	v := view{slot: -1}

	var lines []string
	for _, w := range ws {
		if w.Urgent {
			v.urgent = true
		}
		if w.Focused && w.Num >= 1 && w.Num <= 9 {
			v.slot = int(w.Num) - 1
		}

		var marks []string
		if w.Focused {
			marks = append(marks, "focused")
		}
		if w.Urgent {
			marks = append(marks, "urgent")
		}
		if w.Focused || w.Visible || w.Urgent {
			line := fmt.Sprintf("%s on %s", w.Name, w.Output)
			if len(marks) > 0 {
				line += " (" + strings.Join(marks, ", ") + ")"
			}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		v.body = "No workspaces"
	} else {
		v.body = strings.Join(lines, "\n")
	}
	return v
}

func (v view) status() string {
	if v.urgent {
		return "NeedsAttention"
	}
	return "Active"
}

func (v view) toolTip() toolTip {
	return toolTip{Title: "way-shell", Body: v.body}
}

func (v view) pixmap() []iconData {
	color := uint32(colorNormal)
	if v.urgent {
		color = colorUrgent
	}
	return []iconData{
		{Width: iconSize, Height: iconSize, Data: generateWorkspaceIcon(v.slot, color)},
	}
}

// iconData represents a single icon in the pixmap array.
type iconData struct {
	Width  int32
	Height int32
	Data   []byte
}

// toolTip represents the StatusNotifierItem tooltip struct (sa(iiay)ss).
type toolTip struct {
	IconName   string     // Icon name (empty to use pixmap)
	IconPixmap []iconData // Icon pixmap (can be empty)
	Title      string     // Tooltip title
	Body       string     // Tooltip body/description
}

const iconSize = 22

// generateWorkspaceIcon draws a 3x3 grid of workspace cells in ARGB
// (network byte order). The cell at slot is filled with accent.
func generateWorkspaceIcon(slot int, accent uint32) []byte {
	pixels := make([]byte, iconSize*iconSize*4)

	setPixel := func(x, y int, argb uint32) {
		if x < 0 || x >= iconSize || y < 0 || y >= iconSize {
			return
		}
		i := (y*iconSize + x) * 4
		pixels[i] = byte(argb >> 24)   // A
		pixels[i+1] = byte(argb >> 16) // R
		pixels[i+2] = byte(argb >> 8)  // G
		pixels[i+3] = byte(argb)       // B
	}

	fillRect := func(x1, y1, x2, y2 int, argb uint32) {
		for y := y1; y <= y2; y++ {
			for x := x1; x <= x2; x++ {
				setPixel(x, y, argb)
			}
		}
	}

	cellColor := uint32(0xFFF5F5F5)
	borderColor := uint32(0xFF3D3D3D)

	// Cells are 6x6 with a 1px border, starting at 1 with a stride of 7.
	for i := 0; i < 9; i++ {
		x := 1 + (i%3)*7
		y := 1 + (i/3)*7
		fillRect(x, y, x+5, y+5, borderColor)
		fill := cellColor
		if i == slot {
			fill = accent
		}
		fillRect(x+1, y+1, x+4, y+4, fill)
	}

	// Accent strip along the bottom so urgency shows without a slot.
	fillRect(1, iconSize-1, iconSize-2, iconSize-1, accent)

	return pixels
}

// Next returns the workspace |delta| steps away from the focused one,
// wrapping around. Only the sign of delta matters.
func Next(ws []wm.Workspace, delta int) (wm.Workspace, bool) {
	if len(ws) == 0 || delta == 0 {
		return wm.Workspace{}, false
	}

	cur := -1
	for i, w := range ws {
		if w.Focused {
			cur = i
			break
		}
	}
	if cur == -1 {
		return ws[0], true
	}

	step := 1
	if delta < 0 {
		step = -1
	}
	return ws[(cur+step+len(ws))%len(ws)], true
}
