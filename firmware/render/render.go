// Package render draws one frame per tick from SystemState. It never
// writes to the state it is given.
package render

import (
	"fmt"

	"rfpocket/firmware/gfx"
	"rfpocket/firmware/state"

	"tinygo.org/x/tinydraw"
)

// Screen layout for the 128x64 panel.
const (
	width     = 128
	height    = 64
	titleY    = 1
	ruleY     = 11
	contentY  = 14
	footerY   = 57
	footRuleY = 54
)

var (
	fg = gfx.Foreground
	bg = gfx.Background
)

// Renderer draws frames onto a surface.
type Renderer struct {
	s *gfx.Surface
}

func New(s *gfx.Surface) *Renderer {
	return &Renderer{s: s}
}

// Frame draws the active mode, or the link error screen when a radio mode
// runs without a healthy link, and flushes it.
func (r *Renderer) Frame(st *state.SystemState, now uint32) error {
	switch mode := st.Mode.(type) {
	case *state.Menu:
		r.menu(st)
	case *state.Read:
		if !st.Link.Connected {
			return r.Overlay(st)
		}
		r.read(st, now)
	case *state.Emulate:
		if !st.Link.Connected {
			return r.Overlay(st)
		}
		r.emulate(st, mode)
	case *state.Jam:
		if !st.Link.Connected {
			return r.Overlay(st)
		}
		r.jam(st, mode)
	default:
		state.Unreachable(mode)
	}
	return r.s.Display()
}

// Overlay draws and flushes the link error screen.
func (r *Renderer) Overlay(st *state.SystemState) error {
	r.chrome("RADIO", "BACK menu")
	if (st.Anim.Frame/3)%2 == 0 {
		warning(r.s, 64, contentY, 14)
	}
	r.s.CenteredText(gfx.Regular, 34, "RADIO LINK ERROR", fg)
	r.s.CenteredText(gfx.Small, 46, "check wiring", fg)
	return r.s.Display()
}

// chrome clears the frame and draws the title bar and footer hint.
func (r *Renderer) chrome(title, hint string) {
	r.s.Clear()
	r.s.Text(gfx.Regular, 2, titleY, title, fg)
	tinydraw.Line(r.s, 0, ruleY, width-1, ruleY, fg)
	tinydraw.Line(r.s, 0, footRuleY, width-1, footRuleY, fg)
	r.s.Text(gfx.Small, 2, footerY, hint, fg)
}

func (r *Renderer) menu(st *state.SystemState) {
	r.chrome("RF POCKET", "UP/DN move  OK select")
	for i := 0; i < state.MenuItems; i++ {
		y := int16(contentY + i*13)
		c := fg
		if i == st.MenuSelection {
			tinydraw.FilledRectangle(r.s, 0, y-1, width, 12, fg)
			c = bg
		}
		r.s.Text(gfx.Regular, 6, y, state.MenuLabel(i), c)
	}

	// Link glyph: filled when healthy, crossed ring when not.
	const lx, ly, lr = 110, 59, 3
	if st.Link.Connected {
		tinydraw.FilledCircle(r.s, lx, ly, lr, fg)
	} else {
		tinydraw.Circle(r.s, lx, ly, lr, fg)
		tinydraw.Line(r.s, lx-lr, ly-lr, lx+lr, ly+lr, fg)
		tinydraw.Line(r.s, lx-lr, ly+lr, lx+lr, ly-lr, fg)
	}
	// Capture glyph.
	if st.Signal.Valid {
		tinydraw.FilledRectangle(r.s, 118, 56, 7, 7, fg)
	} else {
		tinydraw.Rectangle(r.s, 118, 56, 7, 7, fg)
	}
}

func (r *Renderer) read(st *state.SystemState, now uint32) {
	r.chrome("READ SIGNAL", "BACK menu")

	// Sweep strip at the bottom of the content area.
	const top, h = 43, 9
	tinydraw.Rectangle(r.s, 0, top, width, h, fg)
	x := int16(1 + (st.Anim.Frame*5)%(width-2))
	tinydraw.Line(r.s, x, top+1, x, top+h-2, fg)

	sig := &st.Signal
	if !sig.Valid {
		dots := "scanning" + "..."[:st.Anim.Frame%4]
		r.s.CenteredText(gfx.Regular, 22, dots, fg)
		return
	}
	r.s.CenteredText(gfx.Regular, contentY, fmt.Sprintf("0x%X", sig.Value), fg)
	r.s.CenteredText(gfx.Small, 27, detail(sig), fg)
	age := (now - sig.CaptureTime) / 1000
	r.s.CenteredText(gfx.Small, 35, fmt.Sprintf("%ds ago", age), fg)
}

func (r *Renderer) emulate(st *state.SystemState, mode *state.Emulate) {
	sig := &st.Signal
	if !sig.Valid {
		r.chrome("EMULATE", "BACK menu")
		r.s.CenteredText(gfx.Regular, 22, "no signal", fg)
		r.s.CenteredText(gfx.Small, 38, "read one first", fg)
		return
	}

	hint := "OK start  BACK menu"
	if mode.Transmitting {
		hint = "OK stop  BACK menu"
	}
	r.chrome("EMULATE", hint)
	r.s.CenteredText(gfx.Regular, contentY, fmt.Sprintf("0x%X", sig.Value), fg)
	r.s.CenteredText(gfx.Small, 26, detail(sig), fg)

	if !mode.Transmitting {
		r.s.CenteredText(gfx.Small, 41, "ready", fg)
		return
	}
	antenna(r.s, 18, 41, st.Anim.Frame)
	r.s.Text(gfx.Regular, 44, 38, fmt.Sprintf("TX %d", mode.Count), fg)
}

func (r *Renderer) jam(st *state.SystemState, mode *state.Jam) {
	if !mode.Jamming {
		r.chrome("JAMMER", "OK start  BACK menu")
		warning(r.s, 64, contentY+2, 14)
		r.s.CenteredText(gfx.Small, 42, "ready", fg)
		return
	}

	r.chrome("JAMMER", "OK stop  BACK menu")
	f := st.Anim.Frame
	for i := uint32(0); i < 60; i++ {
		n := noise(f, i)
		r.s.SetPixel(int16(n%width), int16(contentY+(n>>8)%38), fg)
	}
	for i := uint32(0); i < 8; i++ {
		h := int16(4 + noise(f, 100+i)%14)
		tinydraw.FilledRectangle(r.s, int16(8+i*15), footRuleY-1-h, 6, h, fg)
	}
	tinydraw.FilledRectangle(r.s, 30, 20, 68, 13, bg)
	tinydraw.Rectangle(r.s, 30, 20, 68, 13, fg)
	r.s.CenteredText(gfx.Regular, 22, "JAMMING", fg)
}

// Boot draws one frame of the start-up screen with a progress bar at
// step/steps.
func (r *Renderer) Boot(step, steps int, version string) error {
	r.s.Clear()
	r.s.CenteredText(gfx.Regular, 8, "RF POCKET", fg)
	r.s.CenteredText(gfx.Small, 22, "315/433 MHz", fg)
	r.s.CenteredText(gfx.Small, 30, version, fg)

	const bx, by, bw, bh = 14, 42, 100, 8
	tinydraw.Rectangle(r.s, bx, by, bw, bh, fg)
	if steps > 0 && step > 0 {
		fill := int16((bw - 4) * min(step, steps) / steps)
		tinydraw.FilledRectangle(r.s, bx+2, by+2, fill, bh-4, fg)
	}
	return r.s.Display()
}

func detail(sig *state.CapturedSignal) string {
	return fmt.Sprintf("%d bit  P%d  %dus", sig.BitLength, sig.Protocol, sig.PulseLength)
}
