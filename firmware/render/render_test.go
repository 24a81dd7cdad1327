package render

import (
	"bytes"
	"testing"

	"rfpocket/firmware/gfx"
	"rfpocket/firmware/state"
	"rfpocket/internal/haltest"
)

func newRenderer() (*Renderer, *gfx.Surface, *haltest.Framebuffer) {
	fb := haltest.NewFramebuffer(128, 64)
	s := gfx.New(fb)
	return New(s), s, fb
}

// snapshot copies st deeply enough to detect writes through the mode
// pointer.
type snapshot struct {
	st   state.SystemState
	mode any
}

func take(st *state.SystemState) snapshot {
	s := snapshot{st: *st}
	switch m := st.Mode.(type) {
	case *state.Menu:
		s.mode = *m
	case *state.Read:
		s.mode = *m
	case *state.Emulate:
		s.mode = *m
	case *state.Jam:
		s.mode = *m
	}
	return s
}

func TestFrameDoesNotMutateState(t *testing.T) {
	modes := []state.Mode{
		&state.Menu{},
		&state.Read{},
		&state.Emulate{Transmitting: true, Count: 3},
		&state.Emulate{},
		&state.Jam{Jamming: true},
		&state.Jam{},
	}
	for _, connected := range []bool{true, false} {
		for _, m := range modes {
			r, _, _ := newRenderer()
			st := state.New()
			st.Mode = m
			st.Link.Connected = connected
			st.Anim.Frame = 17
			st.Signal.Record(0xABCD12, 24, 1, 350, 100)

			before := take(st)
			if err := r.Frame(st, 5000); err != nil {
				t.Fatalf("%s: Frame: %v", m.Name(), err)
			}
			after := take(st)
			if before != after {
				t.Fatalf("%s (link %v): state changed\nbefore %+v\nafter  %+v", m.Name(), connected, before, after)
			}
		}
	}
}

func TestOverlayReplacesRadioModes(t *testing.T) {
	for _, m := range []state.Mode{&state.Read{}, &state.Emulate{Transmitting: true}, &state.Jam{Jamming: true}} {
		st := state.New()
		st.Mode = m
		st.Anim.Frame = 4

		r, _, fb := newRenderer()
		if err := r.Frame(st, 0); err != nil {
			t.Fatalf("Frame: %v", err)
		}
		want, _, wfb := newRenderer()
		if err := want.Overlay(st); err != nil {
			t.Fatalf("Overlay: %v", err)
		}
		if !bytes.Equal(fb.Buf, wfb.Buf) {
			t.Fatalf("%s: unhealthy frame is not the overlay", m.Name())
		}

		st.Link.Connected = true
		r.Frame(st, 0)
		if bytes.Equal(fb.Buf, wfb.Buf) {
			t.Fatalf("%s: healthy frame shows the overlay", m.Name())
		}
		if fb.Presents != 2 {
			t.Fatalf("presents = %d, want 2", fb.Presents)
		}
	}
}

func TestMenuShowsSelectionAndGlyphs(t *testing.T) {
	r, s, _ := newRenderer()
	st := state.New()
	st.MenuSelection = 1
	r.Frame(st, 0)

	rowY := func(i int) int16 { return int16(contentY + i*13) }
	if s.Lit(1, rowY(0)) || !s.Lit(1, rowY(1)) || s.Lit(1, rowY(2)) {
		t.Fatal("only the selected row should be inverted")
	}
	if s.Lit(110, 57) {
		t.Fatal("link glyph should be hollow while disconnected")
	}
	if s.Lit(121, 59) {
		t.Fatal("capture glyph should be empty without a capture")
	}

	st.Link.Connected = true
	st.Signal.Record(1, 1, 1, 350, 0)
	r.Frame(st, 0)
	if !s.Lit(110, 57) {
		t.Fatal("link glyph should be filled while connected")
	}
	if !s.Lit(121, 59) {
		t.Fatal("capture glyph should be filled with a capture")
	}
	if !s.Lit(0, ruleY) || !s.Lit(127, ruleY) {
		t.Fatal("missing title separator")
	}
}

func TestReadSweepMoves(t *testing.T) {
	r, _, fb := newRenderer()
	st := state.New()
	st.Mode = &state.Read{}
	st.Link.Connected = true

	st.Anim.Frame = 1
	r.Frame(st, 0)
	first := fb.Snapshot()
	st.Anim.Frame = 2
	r.Frame(st, 0)
	if bytes.Equal(first, fb.Buf) {
		t.Fatal("sweep frame did not change with the animation clock")
	}
}

func TestEmulateAnimatesOnlyWhileTransmitting(t *testing.T) {
	r, _, fb := newRenderer()
	st := state.New()
	st.Link.Connected = true
	st.Signal.Record(0xABCD12, 24, 1, 350, 0)
	mode := &state.Emulate{}
	st.Mode = mode

	st.Anim.Frame = 1
	r.Frame(st, 0)
	idle := fb.Snapshot()
	st.Anim.Frame = 2
	r.Frame(st, 0)
	if !bytes.Equal(idle, fb.Buf) {
		t.Fatal("idle emulate frame should be static")
	}

	mode.Transmitting = true
	r.Frame(st, 0)
	a := fb.Snapshot()
	st.Anim.Frame = 3
	r.Frame(st, 0)
	if bytes.Equal(a, fb.Buf) {
		t.Fatal("antenna should pulse while transmitting")
	}
}

func TestJamStaticIsDeterministic(t *testing.T) {
	st := state.New()
	st.Link.Connected = true
	st.Mode = &state.Jam{Jamming: true}
	st.Anim.Frame = 9

	r1, _, fb1 := newRenderer()
	r2, _, fb2 := newRenderer()
	r1.Frame(st, 0)
	r2.Frame(st, 0)
	if !bytes.Equal(fb1.Buf, fb2.Buf) {
		t.Fatal("same frame number must draw the same static")
	}
	st.Anim.Frame = 10
	r2.Frame(st, 0)
	if bytes.Equal(fb1.Buf, fb2.Buf) {
		t.Fatal("static should change between frames")
	}
}

func TestOverlayBlinks(t *testing.T) {
	st := state.New()
	st.Mode = &state.Read{}

	r, _, fb := newRenderer()
	st.Anim.Frame = 0
	r.Frame(st, 0)
	on := fb.Snapshot()
	st.Anim.Frame = 3
	r.Frame(st, 0)
	if bytes.Equal(on, fb.Buf) {
		t.Fatal("warning triangle should blink")
	}
}

func TestBootProgress(t *testing.T) {
	r, s, fb := newRenderer()
	if err := r.Boot(0, 5, "dev"); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if s.Lit(20, 45) {
		t.Fatal("empty bar should not be filled")
	}
	r.Boot(5, 5, "dev")
	if !s.Lit(20, 45) || !s.Lit(110, 45) {
		t.Fatal("full bar should be filled")
	}
	if fb.Presents != 2 {
		t.Fatalf("presents = %d", fb.Presents)
	}
}

func TestPresentErrorIsReturned(t *testing.T) {
	r, _, fb := newRenderer()
	fb.PresentErr = haltest.ErrInjected
	if err := r.Frame(state.New(), 0); err == nil {
		t.Fatal("expected present error")
	}
}
