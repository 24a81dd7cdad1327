// Package link decides whether the radio transceiver pair is attached.
//
// A live receiver usually hears something within a short listen window,
// so that is tried first. When the band is quiet the transmit line is
// driven high and read back; a disconnected module leaves it floating low.
package link

import (
	"rfpocket/firmware/diag"
	"rfpocket/firmware/state"
	"rfpocket/hal"
)

// Monitor runs link checks. It is owned by the control loop.
type Monitor struct {
	rx    hal.Receiver
	tx    hal.GPIOPin
	clock hal.Clock
	log   diag.Log
}

func New(rx hal.Receiver, tx hal.GPIOPin, clock hal.Clock, log diag.Log) *Monitor {
	return &Monitor{rx: rx, tx: tx, clock: clock, log: log}
}

// Check listens for up to ListenTimeout ms, then falls back to the probe.
// It blocks for at most ListenTimeout+ProbeSettle ms.
func (m *Monitor) Check() bool {
	if m.listen() {
		return true
	}
	return m.probe()
}

func (m *Monitor) listen() bool {
	if m.rx == nil {
		return false
	}
	start := m.clock.Millis()
	for {
		if m.rx.Available() {
			// Consumed so Read mode does not record it.
			m.rx.Reset()
			return true
		}
		if m.clock.Millis()-start >= state.ListenTimeout {
			return false
		}
		m.clock.Sleep(1)
	}
}

func (m *Monitor) probe() bool {
	if m.tx == nil {
		return false
	}
	if err := m.tx.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err != nil {
		m.log.Printf("probe: %v", err)
		return false
	}
	if err := m.tx.Write(true); err != nil {
		m.log.Printf("probe: %v", err)
		return false
	}
	m.clock.Sleep(state.ProbeSettle)
	level, err := m.tx.Read()
	if werr := m.tx.Write(false); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		m.log.Printf("probe: %v", err)
		return false
	}
	return level
}

// Refresh re-runs Check when the recheck interval elapsed (or no check ran
// yet) and records the result. It reports whether a check ran.
func (m *Monitor) Refresh(st *state.SystemState, now uint32) bool {
	if !st.Link.Recheck.Ready(now) {
		return false
	}
	m.Update(st, now)
	return true
}

// Update runs Check unconditionally and stamps the recheck gate.
func (m *Monitor) Update(st *state.SystemState, now uint32) {
	_, checked := st.Link.LastCheck()
	was := st.Link.Connected
	st.Link.Connected = m.Check()
	st.Link.Recheck.Stamp(now)

	switch {
	case !checked && st.Link.Connected:
		m.log.Printf("radio link up")
	case !checked:
		m.log.Printf("radio link down")
	case was && !st.Link.Connected:
		m.log.Printf("radio link lost")
	case !was && st.Link.Connected:
		m.log.Printf("radio link restored")
	}
}
