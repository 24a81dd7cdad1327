package link

import (
	"testing"

	"rfpocket/firmware/diag"
	"rfpocket/firmware/state"
	"rfpocket/hal"
	"rfpocket/internal/haltest"
)

func newMonitor(start uint32) (*Monitor, *haltest.HAL) {
	h := haltest.New(start)
	m := New(h.Rad.Rx, h.Pins.Pins[hal.PinRadioTX], h.Clk, diag.New(h.Log, "link"))
	return m, h
}

func TestListenConsumesEvent(t *testing.T) {
	m, h := newMonitor(1000)
	h.Pins.Pins[hal.PinRadioTX].Open = true
	h.Rad.Rx.PushAt(1040, hal.Capture{Value: 9, BitLength: 4, Protocol: 1})

	if !m.Check() {
		t.Fatal("expected healthy after hearing an event")
	}
	if h.Rad.Rx.Pending() != 0 {
		t.Fatal("event must be consumed")
	}
	if h.Clk.Now != 1040 {
		t.Fatalf("listen returned at %d, want 1040", h.Clk.Now)
	}
	if len(h.Pins.Pins[hal.PinRadioTX].Writes) != 0 {
		t.Fatal("probe must not run after a heard event")
	}
}

func TestProbeReadback(t *testing.T) {
	m, h := newMonitor(0)
	tx := h.Pins.Pins[hal.PinRadioTX]

	if !m.Check() {
		t.Fatal("expected healthy readback")
	}
	if h.Clk.Now != state.ListenTimeout+state.ProbeSettle {
		t.Fatalf("check took %dms", h.Clk.Now)
	}
	if len(tx.Writes) != 2 || !tx.Writes[0] || tx.Writes[1] {
		t.Fatalf("writes = %v, want [true false]", tx.Writes)
	}

	tx.Open = true
	if m.Check() {
		t.Fatal("expected unhealthy with open line")
	}
	if tx.Level {
		t.Fatal("probe must leave the line low")
	}
}

func TestProbePinErrors(t *testing.T) {
	m, h := newMonitor(0)
	h.Pins.Pins[hal.PinRadioTX].ReadErr = haltest.ErrInjected
	if m.Check() {
		t.Fatal("read error must count as unhealthy")
	}
	if !h.Log.Contains("link: probe:") {
		t.Fatalf("log = %v", h.Log.Lines)
	}

	m, h = newMonitor(0)
	h.Pins.Pins[hal.PinRadioTX].ConfigureErr = haltest.ErrInjected
	if m.Check() {
		t.Fatal("configure error must count as unhealthy")
	}

	if New(nil, nil, h.Clk, diag.Log{}).Check() {
		t.Fatal("missing pins must count as unhealthy")
	}
}

func TestRefreshInterval(t *testing.T) {
	m, h := newMonitor(500)
	st := state.New()

	if !m.Refresh(st, 500) {
		t.Fatal("first refresh must run")
	}
	if !st.Link.Connected {
		t.Fatal("expected connected")
	}
	if m.Refresh(st, 500+state.LinkRecheckInterval-1) {
		t.Fatal("refresh ran before interval")
	}

	h.Pins.Pins[hal.PinRadioTX].Open = true
	if !m.Refresh(st, 500+state.LinkRecheckInterval) {
		t.Fatal("refresh must run at interval")
	}
	if st.Link.Connected {
		t.Fatal("expected disconnected")
	}
	if last, _ := st.Link.LastCheck(); last != 500+state.LinkRecheckInterval {
		t.Fatalf("LastCheck = %d", last)
	}

	h.Pins.Pins[hal.PinRadioTX].Open = false
	m.Refresh(st, 500+2*state.LinkRecheckInterval)

	for _, want := range []string{"link: radio link up", "link: radio link lost", "link: radio link restored"} {
		if !h.Log.Contains(want) {
			t.Fatalf("missing %q in %v", want, h.Log.Lines)
		}
	}
}

func TestRefreshAcrossClockWrap(t *testing.T) {
	m, _ := newMonitor(0)
	st := state.New()
	start := ^uint32(0) - 1000

	m.Refresh(st, start)
	if m.Refresh(st, start+state.LinkRecheckInterval-1) {
		t.Fatal("refresh ran early across wrap")
	}
	if !m.Refresh(st, start+state.LinkRecheckInterval) {
		t.Fatal("refresh skipped across wrap")
	}
}
