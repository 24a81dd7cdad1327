// Package radio runs the per-tick radio action of the active mode:
// capture in Read, gated replay in Emulate, gated random bursts in Jam.
package radio

import (
	"rfpocket/firmware/diag"
	"rfpocket/firmware/ook"
	"rfpocket/firmware/state"
	"rfpocket/hal"
)

// JamBits is the length of every jam frame.
const JamBits = 24

// Scheduler owns the receive and transmit primitives.
type Scheduler struct {
	rx    hal.Receiver
	tx    hal.Transmitter
	rxLog diag.Log
	txLog diag.Log
}

// New returns a scheduler. Captures are logged on log's sink under "rx",
// sends under "tx".
func New(rx hal.Receiver, tx hal.Transmitter, log diag.Log) *Scheduler {
	return &Scheduler{rx: rx, tx: tx, rxLog: log.With("rx"), txLog: log.With("tx")}
}

// Run performs the active mode's action. Callers skip it while the link
// is down.
func (s *Scheduler) Run(st *state.SystemState, now uint32) {
	switch mode := st.Mode.(type) {
	case *state.Menu:
	case *state.Read:
		s.Receive(st, now)
	case *state.Emulate:
		s.Replay(st, mode, now)
	case *state.Jam:
		s.Jam(st, mode, now)
	default:
		state.Unreachable(mode)
	}
}

// Receive moves a pending capture into the signal store. Zero values are
// receiver noise and are dropped without a log line.
func (s *Scheduler) Receive(st *state.SystemState, now uint32) bool {
	if s.rx == nil || !s.rx.Available() {
		return false
	}
	c := s.rx.Take()
	s.rx.Reset()
	if !st.Signal.Record(c.Value, c.BitLength, c.Protocol, c.PulseLength, now) {
		return false
	}
	s.rxLog.Printf("captured %#x %d bits protocol %d pulse %dus", c.Value, c.BitLength, c.Protocol, c.PulseLength)
	return true
}

// Replay sends the stored capture once per ReplayInterval while
// transmitting.
func (s *Scheduler) Replay(st *state.SystemState, mode *state.Emulate, now uint32) bool {
	if !mode.Transmitting || !st.Signal.Valid || s.tx == nil {
		return false
	}
	if !st.ReplayGate.Ready(now) {
		return false
	}
	sig := &st.Signal
	s.tx.Configure(sig.Protocol, sig.PulseLength)
	s.tx.Send(sig.Value, sig.BitLength)
	mode.Count++
	st.ReplayGate.Stamp(now)
	s.txLog.Printf("replay #%d %#x", mode.Count, sig.Value)
	return true
}

// Jam sends one random 24-bit frame per JamInterval while jamming. The
// protocol cycles with the animation frame.
func (s *Scheduler) Jam(st *state.SystemState, mode *state.Jam, now uint32) bool {
	if !mode.Jamming || s.tx == nil {
		return false
	}
	if !st.JamGate.Ready(now) {
		return false
	}
	protocol := JamProtocol(st.Anim.Frame)
	p, _ := ook.Lookup(protocol)
	value := uint64(st.NextRand() & 0xFFFFFF)
	s.tx.Configure(protocol, p.PulseLength)
	s.tx.Send(value, JamBits)
	st.JamGate.Stamp(now)
	return true
}

// JamProtocol returns the protocol used for a jam frame at animation frame f.
func JamProtocol(frame uint32) uint8 {
	return uint8(1 + frame%uint32(ook.Protocols))
}
