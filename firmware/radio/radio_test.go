package radio

import (
	"testing"

	"rfpocket/firmware/diag"
	"rfpocket/firmware/ook"
	"rfpocket/firmware/state"
	"rfpocket/hal"
	"rfpocket/internal/haltest"
)

func newScheduler(start uint32) (*Scheduler, *haltest.HAL) {
	h := haltest.New(start)
	return New(h.Rad.Rx, h.Rad.Tx, diag.New(h.Log, "radio")), h
}

func TestReceiveRecords(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	st.Mode = &state.Read{}

	h.Rad.Rx.Push(hal.Capture{Value: 0xABCD12, BitLength: 24, Protocol: 1, PulseLength: 350})
	s.Run(st, 1234)

	want := state.CapturedSignal{Value: 0xABCD12, BitLength: 24, Protocol: 1, PulseLength: 350, Valid: true, CaptureTime: 1234}
	if st.Signal != want {
		t.Fatalf("signal = %+v", st.Signal)
	}
	if h.Rad.Rx.Pending() != 0 {
		t.Fatal("capture not cleared")
	}
	if !h.Log.Contains("rx: captured 0xabcd12 24 bits protocol 1 pulse 350us") {
		t.Fatalf("log = %v", h.Log.Lines)
	}
}

func TestReceiveDropsNoise(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	st.Signal.Record(7, 3, 2, 650, 50)
	before := st.Signal

	h.Rad.Rx.Push(hal.Capture{Value: 0, BitLength: 24, Protocol: 1, PulseLength: 350})
	if s.Receive(st, 900) {
		t.Fatal("noise recorded")
	}
	if st.Signal != before {
		t.Fatalf("signal changed: %+v", st.Signal)
	}
	if h.Rad.Rx.Pending() != 0 {
		t.Fatal("noise must still be cleared")
	}
	if len(h.Log.Lines) != 0 {
		t.Fatalf("noise logged: %v", h.Log.Lines)
	}
}

func TestMenuDoesNothing(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	h.Rad.Rx.Push(hal.Capture{Value: 1, BitLength: 1, Protocol: 1})
	s.Run(st, 0)
	if st.Signal.Valid || h.Rad.Rx.Pending() != 1 || len(h.Rad.Tx.Sent) != 0 {
		t.Fatal("menu must not touch the radio")
	}
}

func TestReplayGate(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	st.Signal.Record(0x5A5, 12, 2, 650, 0)
	mode := &state.Emulate{Transmitting: true}
	st.Mode = mode

	// One tick every 30ms for two seconds.
	for now := uint32(1000); now <= 3000; now += state.TickDelay {
		s.Run(st, now)
	}

	sent := h.Rad.Tx.Sent
	if len(sent) != mode.Count {
		t.Fatalf("sent %d, Count %d", len(sent), mode.Count)
	}
	if len(sent) < 4 || len(sent) > 5 {
		t.Fatalf("sent %d frames in 2s", len(sent))
	}
	for _, f := range sent {
		if f.Value != 0x5A5 || f.BitLength != 12 || f.Protocol != 2 || f.PulseLength != 650 {
			t.Fatalf("frame = %+v", f)
		}
	}
}

func TestReplaySpacing(t *testing.T) {
	s, _ := newScheduler(0)
	st := state.New()
	st.Signal.Record(1, 1, 1, 350, 0)
	mode := &state.Emulate{Transmitting: true}
	st.Mode = mode

	var at []uint32
	for now := uint32(0); now < 5000; now += 7 {
		if s.Replay(st, mode, now) {
			at = append(at, now)
		}
	}
	for i := 1; i < len(at); i++ {
		if at[i]-at[i-1] < state.ReplayInterval {
			t.Fatalf("sends at %d and %d closer than %dms", at[i-1], at[i], state.ReplayInterval)
		}
	}
}

func TestReplayNeedsSignalAndToggle(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	mode := &state.Emulate{Transmitting: true}
	if s.Replay(st, mode, 0) {
		t.Fatal("replayed without capture")
	}
	st.Signal.Record(1, 1, 1, 350, 0)
	mode.Transmitting = false
	if s.Replay(st, mode, 0) {
		t.Fatal("replayed while stopped")
	}
	if len(h.Rad.Tx.Sent) != 0 {
		t.Fatal("unexpected sends")
	}
}

func TestJamFrames(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	mode := &state.Jam{Jamming: true}
	st.Mode = mode

	var at []uint32
	for now := uint32(0); now < 1000; now += 10 {
		st.Anim.Advance(now)
		if s.Jam(st, mode, now) {
			at = append(at, now)
		}
	}
	for i := 1; i < len(at); i++ {
		if at[i]-at[i-1] < state.JamInterval {
			t.Fatalf("jam frames %dms apart", at[i]-at[i-1])
		}
	}
	if len(at) != 20 {
		t.Fatalf("jam frames = %d, want 20", len(at))
	}

	protocols := map[uint8]bool{}
	values := map[uint64]bool{}
	for _, f := range h.Rad.Tx.Sent {
		if f.BitLength != JamBits || f.Value > 0xFFFFFF {
			t.Fatalf("frame = %+v", f)
		}
		p, ok := ook.Lookup(f.Protocol)
		if !ok || f.PulseLength != p.PulseLength {
			t.Fatalf("frame %+v does not match protocol profile", f)
		}
		protocols[f.Protocol] = true
		values[f.Value] = true
	}
	if len(protocols) != ook.Protocols {
		t.Fatalf("protocols used = %v", protocols)
	}
	if len(values) < len(h.Rad.Tx.Sent)-1 {
		t.Fatal("jam values repeat")
	}
}

func TestJamProtocolCycle(t *testing.T) {
	for frame, want := range []uint8{1, 2, 3, 1, 2} {
		if got := JamProtocol(uint32(frame)); got != want {
			t.Fatalf("JamProtocol(%d) = %d, want %d", frame, got, want)
		}
	}
}

func TestJamAcrossClockWrap(t *testing.T) {
	s, h := newScheduler(0)
	st := state.New()
	mode := &state.Jam{Jamming: true}
	start := ^uint32(0) - 20

	s.Jam(st, mode, start)
	if s.Jam(st, mode, start+state.JamInterval-1) {
		t.Fatal("jam early across wrap")
	}
	if !s.Jam(st, mode, start+state.JamInterval) {
		t.Fatal("jam skipped across wrap")
	}
	if len(h.Rad.Tx.Sent) != 2 {
		t.Fatalf("sent = %d", len(h.Rad.Tx.Sent))
	}
}
