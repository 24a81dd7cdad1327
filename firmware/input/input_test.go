package input

import (
	"testing"

	"rfpocket/firmware/diag"
	"rfpocket/firmware/state"
	"rfpocket/hal"
	"rfpocket/internal/haltest"
)

type press struct {
	b   state.Button
	now uint32
}

type recorder struct {
	presses []press
	accept  bool
}

func (r *recorder) Handle(_ *state.SystemState, b state.Button, now uint32) bool {
	r.presses = append(r.presses, press{b, now})
	return r.accept
}

func newSampler(t *testing.T) (*Sampler, *haltest.GPIO, *haltest.Logger) {
	t.Helper()
	g := haltest.NewGPIO()
	log := &haltest.Logger{}
	s := New(g, diag.New(log, "input"))
	if err := s.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return s, g, log
}

func TestRiseEdge(t *testing.T) {
	cases := []struct {
		cur, prev, want bool
	}{
		{true, false, true},
		{true, true, false},
		{false, true, false},
		{false, false, false},
	}
	for _, c := range cases {
		if got := RiseEdge(c.cur, c.prev); got != c.want {
			t.Errorf("RiseEdge(%v, %v) = %v", c.cur, c.prev, got)
		}
	}
}

func TestConfigurePullUp(t *testing.T) {
	_, g, _ := newSampler(t)
	for id := hal.PinButtonUp; id <= hal.PinButtonBack; id++ {
		p := g.Pins[id]
		if p.Mode != hal.GPIOModeInput || p.Pull != hal.GPIOPullUp {
			t.Fatalf("pin %s: mode=%v pull=%v", p.ID, p.Mode, p.Pull)
		}
	}

	g.Pins[hal.PinButtonBack].ConfigureErr = haltest.ErrInjected
	if err := New(g, diag.Log{}).Configure(); err == nil {
		t.Fatal("expected configure error")
	}
}

func TestSampleActiveLow(t *testing.T) {
	s, g, _ := newSampler(t)
	g.Press(hal.PinButtonDown, true)
	g.Pins[hal.PinButtonBack].ReadErr = haltest.ErrInjected

	got := s.Sample()
	want := [state.ButtonCount]bool{false, true, false, false}
	if got != want {
		t.Fatalf("Sample = %v, want %v", got, want)
	}
}

func TestSnapshotSuppressesHeldButton(t *testing.T) {
	s, g, _ := newSampler(t)
	st := state.New()
	g.Press(hal.PinButtonSelect, true)
	s.Snapshot(&st.Buttons)

	rec := &recorder{accept: true}
	s.Poll(st, rec, 1000)
	if len(rec.presses) != 0 {
		t.Fatalf("held button dispatched: %v", rec.presses)
	}
}

// pressAt drives one press/release cycle through Poll at the given times.
func pressAt(s *Sampler, g *haltest.GPIO, st *state.SystemState, h Handler, id int, down, up uint32) {
	g.Press(id, true)
	s.Poll(st, h, down)
	g.Press(id, false)
	s.Poll(st, h, up)
}

func TestDebounceSharedWindow(t *testing.T) {
	cases := []struct {
		name    string
		gap     uint32
		wantHit int
	}{
		{"inside window", 150, 1},
		{"just inside", state.DebounceWindow - 1, 1},
		{"at window", state.DebounceWindow, 2},
		{"outside window", 450, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, g, _ := newSampler(t)
			st := state.New()
			s.Snapshot(&st.Buttons)
			rec := &recorder{accept: true}

			start := uint32(1000)
			pressAt(s, g, st, rec, hal.PinButtonUp, start, start+30)
			// A different button still falls inside the shared window.
			pressAt(s, g, st, rec, hal.PinButtonDown, start+c.gap, start+c.gap+30)

			if len(rec.presses) != c.wantHit {
				t.Fatalf("dispatched %d presses, want %d", len(rec.presses), c.wantHit)
			}
			if last, ok := st.Buttons.LastPress(); !ok || last != rec.presses[len(rec.presses)-1].now {
				t.Fatalf("LastPress = %d,%v", last, ok)
			}
		})
	}
}

func TestSuppressedEdgeIsDropped(t *testing.T) {
	s, g, _ := newSampler(t)
	st := state.New()
	s.Snapshot(&st.Buttons)
	rec := &recorder{accept: true}

	pressAt(s, g, st, rec, hal.PinButtonUp, 100, 130)
	// Pressed inside the window and held past it: the edge is gone.
	g.Press(hal.PinButtonSelect, true)
	s.Poll(st, rec, 160)
	s.Poll(st, rec, 400)
	s.Poll(st, rec, 700)

	if len(rec.presses) != 1 || rec.presses[0].b != state.ButtonUp {
		t.Fatalf("presses = %v", rec.presses)
	}
	if st.Buttons.Previous[state.ButtonSelect] != true {
		t.Fatal("previous snapshot must update while suppressed")
	}
}

func TestIgnoredPressStillDebounces(t *testing.T) {
	s, g, log := newSampler(t)
	st := state.New()
	s.Snapshot(&st.Buttons)
	rec := &recorder{accept: false}

	pressAt(s, g, st, rec, hal.PinButtonBack, 500, 530)
	pressAt(s, g, st, rec, hal.PinButtonUp, 600, 630)

	if len(rec.presses) != 1 {
		t.Fatalf("presses = %v", rec.presses)
	}
	if !log.Contains("input: back ignored in menu") {
		t.Fatalf("log = %v", log.Lines)
	}
}

func TestDispatchOrderSameTick(t *testing.T) {
	s, g, _ := newSampler(t)
	st := state.New()
	s.Snapshot(&st.Buttons)
	rec := &recorder{accept: true}

	g.Press(hal.PinButtonBack, true)
	g.Press(hal.PinButtonUp, true)
	g.Press(hal.PinButtonSelect, true)
	s.Poll(st, rec, 50)

	want := []state.Button{state.ButtonUp, state.ButtonSelect, state.ButtonBack}
	if len(rec.presses) != len(want) {
		t.Fatalf("presses = %v", rec.presses)
	}
	for i, b := range want {
		if rec.presses[i].b != b {
			t.Fatalf("press %d = %s, want %s", i, rec.presses[i].b, b)
		}
	}
}

func TestDebounceAcrossClockWrap(t *testing.T) {
	s, g, _ := newSampler(t)
	st := state.New()
	s.Snapshot(&st.Buttons)
	rec := &recorder{accept: true}

	start := ^uint32(0) - 100
	pressAt(s, g, st, rec, hal.PinButtonUp, start, start+30)
	pressAt(s, g, st, rec, hal.PinButtonUp, start+150, start+180) // wraps, 150ms later
	pressAt(s, g, st, rec, hal.PinButtonUp, start+250, start+280)

	if len(rec.presses) != 2 {
		t.Fatalf("dispatched %d presses, want 2", len(rec.presses))
	}
	if rec.presses[1].now != start+250 {
		t.Fatalf("second press at %d", rec.presses[1].now)
	}
}
