//go:build !nogtk && cgo

package ui

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/cpuguy83/way-shell/internal/wm"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Panel owns one layer-shell bar window per output.
type Panel struct {
	cfg Config

	mu   sync.RWMutex
	ws   []wm.Workspace
	outs []wm.Output

	// Only touched on the GTK main thread.
	bars map[string]*barWindow

	onFocus func(wm.Workspace)
}

type barWindow struct {
	window  *gtk.Window
	box     *gtk.Box
	buttons []*gtk.Button
	shown   []wm.Workspace
}

// NewPanel creates a new panel. Windows are created by Init and updates.
func NewPanel(cfg Config) *Panel {
	return &Panel{
		cfg:  cfg,
		bars: make(map[string]*barWindow),
	}
}

// Init initializes GTK state. Must be called from GTK main thread.
func (p *Panel) Init() {
	adw.Init()

	style := adw.StyleManagerGetDefault()
	switch p.cfg.Theme {
	case "dark":
		style.SetColorScheme(adw.ColorSchemeForceDark)
	case "light":
		style.SetColorScheme(adw.ColorSchemeForceLight)
	default:
		style.SetColorScheme(adw.ColorSchemeDefault)
	}

	p.applyCSS()
	p.update()
}

// SetWorkspaces stores ws and schedules a redraw.
func (p *Panel) SetWorkspaces(ws []wm.Workspace) {
	p.mu.Lock()
	p.ws = ws
	p.mu.Unlock()
	glib.IdleAdd(p.update)
}

// SetOutputs stores outs and schedules a redraw.
func (p *Panel) SetOutputs(outs []wm.Output) {
	p.mu.Lock()
	p.outs = outs
	p.mu.Unlock()
	glib.IdleAdd(p.update)
}

// OnFocus sets the click callback. It runs on the GTK main thread.
func (p *Panel) OnFocus(fn func(wm.Workspace)) {
	p.onFocus = fn
}

// update reconciles bar windows with the current layout. GTK main thread only.
func (p *Panel) update() {
	p.mu.RLock()
	bars := Layout(p.outs, p.ws, p.cfg)
	p.mu.RUnlock()

	keep := make(map[string]bool, len(bars))
	for _, b := range bars {
		keep[b.Output] = true

		bw, ok := p.bars[b.Output]
		if !ok {
			bw = p.newBarWindow(b.Output)
			if bw == nil {
				continue
			}
			p.bars[b.Output] = bw
		}
		p.fill(bw, b.Workspaces)
	}

	for name, bw := range p.bars {
		if !keep[name] {
			slog.Debug("removing panel", "output", name)
			bw.window.Destroy()
			delete(p.bars, name)
		}
	}
}

// newBarWindow creates the layer surface for output. Returns nil when the
// output has no matching GDK monitor yet.
func (p *Panel) newBarWindow(output string) *barWindow {
	mon := monitorFor(output)
	if mon == nil {
		slog.Debug("no monitor for output yet", "output", output)
		return nil
	}

	win := gtk.NewWindow()
	win.SetTitle("way-shell")
	win.SetDecorated(false)
	win.AddCSSClass("way-shell-panel")

	if gtk4layershell.IsSupported() {
		gtk4layershell.InitForWindow(win)
		gtk4layershell.SetMonitor(win, mon)
		gtk4layershell.SetLayer(win, gtk4layershell.LayerShellLayerTop)
		gtk4layershell.SetNamespace(win, "way-shell-panel")
		edge := gtk4layershell.LayerShellEdgeTop
		if p.cfg.Position == "bottom" {
			edge = gtk4layershell.LayerShellEdgeBottom
		}
		gtk4layershell.SetAnchor(win, edge, true)
		gtk4layershell.SetAnchor(win, gtk4layershell.LayerShellEdgeLeft, true)
		gtk4layershell.SetAnchor(win, gtk4layershell.LayerShellEdgeRight, true)
		gtk4layershell.SetKeyboardMode(win, gtk4layershell.LayerShellKeyboardModeNone)
		gtk4layershell.AutoExclusiveZoneEnable(win)
	} else {
		slog.Warn("layer shell not supported, panel is a regular window", "output", output)
	}

	box := gtk.NewBox(gtk.OrientationHorizontal, 2)
	box.AddCSSClass("workspaces")
	win.SetChild(box)

	// Bars are owned by the output list, not the user.
	win.ConnectCloseRequest(func() bool { return true })

	win.SetVisible(true)
	slog.Debug("created panel", "output", output)

	return &barWindow{window: win, box: box}
}

// fill rebuilds bw's buttons when ws differs from what is shown.
func (p *Panel) fill(bw *barWindow, ws []wm.Workspace) {
	if slices.Equal(bw.shown, ws) {
		return
	}

	for _, b := range bw.buttons {
		bw.box.Remove(b)
	}
	bw.buttons = bw.buttons[:0]

	for _, w := range ws {
		btn := gtk.NewButtonWithLabel(ButtonLabel(w))
		btn.SetCSSClasses(ButtonClasses(w))
		btn.SetTooltipText(w.Name)
		btn.ConnectClicked(func() {
			if p.onFocus != nil {
				p.onFocus(w)
			}
		})
		bw.box.Append(btn)
		bw.buttons = append(bw.buttons, btn)
	}
	bw.shown = ws
}

// monitorFor finds the GDK monitor whose connector is output.
func monitorFor(output string) *gdk.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	for i := uint(0); i < monitors.NItems(); i++ {
		mon, ok := monitors.Item(i).Cast().(*gdk.Monitor)
		if ok && mon.Connector() == output {
			return mon
		}
	}
	return nil
}

func (p *Panel) applyCSS() {
	css := `
		.way-shell-panel {
			background-color: alpha(@window_bg_color, 0.92);
		}

		.workspaces {
			padding: 2px 6px;
		}

		.workspace {
			min-width: 24px;
			min-height: 20px;
			padding: 0 8px;
			border-radius: 4px;
			background: none;
			color: alpha(@window_fg_color, 0.7);
		}

		.workspace:hover {
			background-color: alpha(@accent_bg_color, 0.2);
		}

		.workspace.visible {
			color: @window_fg_color;
			box-shadow: inset 0 -2px alpha(@accent_bg_color, 0.5);
		}

		.workspace.focused {
			color: @accent_fg_color;
			background-color: @accent_bg_color;
		}

		.workspace.urgent {
			color: @error_fg_color;
			background-color: @error_bg_color;
		}
	`

	provider := gtk.NewCSSProvider()
	provider.LoadFromData(css)
	if display := gdk.DisplayGetDefault(); display != nil {
		gtk.StyleContextAddProviderForDisplay(display, provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	}
}
