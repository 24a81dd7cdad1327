//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"runtime/interrupt"
	"time"

	"rfpocket/firmware/ook"
)

// ookRadio decodes receiver edges in the pin interrupt and publishes each
// completed capture to a single-slot mailbox. Sends are bit-banged.
type ookRadio struct {
	tx machine.Pin
	rx machine.Pin

	dec      ook.Decoder
	lastEdge time.Time

	pending bool
	slot    Capture

	protocol uint8
	pulse    uint16
	buf      []uint32
}

func newOOKRadio(tx, rx machine.Pin) *ookRadio {
	return &ookRadio{tx: tx, rx: rx, protocol: 1, buf: make([]uint32, 0, 2*(ook.MaxBits+1))}
}

func (r *ookRadio) Enable() error {
	r.tx.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.tx.Low()
	r.rx.Configure(machine.PinConfig{Mode: machine.PinInput})
	r.lastEdge = time.Now()
	if err := r.rx.SetInterrupt(machine.PinToggle, r.edge); err != nil {
		return fmt.Errorf("radio: rx interrupt: %w", err)
	}
	return nil
}

func (r *ookRadio) edge(machine.Pin) {
	now := time.Now()
	us := uint32(now.Sub(r.lastEdge) / time.Microsecond)
	r.lastEdge = now
	res, ok := r.dec.Edge(us)
	if !ok {
		return
	}
	r.slot = Capture{
		Value:       res.Value,
		BitLength:   res.BitLength,
		Protocol:    res.Protocol,
		PulseLength: res.PulseLength,
	}
	r.pending = true
}

func (r *ookRadio) Receiver() Receiver       { return ookReceiver{r} }
func (r *ookRadio) Transmitter() Transmitter { return ookTransmitter{r} }

type ookReceiver struct{ r *ookRadio }

func (s ookReceiver) Available() bool {
	state := interrupt.Disable()
	ok := s.r.pending
	interrupt.Restore(state)
	return ok
}

func (s ookReceiver) Take() Capture {
	state := interrupt.Disable()
	c := s.r.slot
	interrupt.Restore(state)
	return c
}

func (s ookReceiver) Reset() {
	state := interrupt.Disable()
	s.r.pending = false
	interrupt.Restore(state)
}

type ookTransmitter struct{ r *ookRadio }

func (s ookTransmitter) Configure(protocol uint8, pulseLength uint16) {
	s.r.protocol = protocol
	s.r.pulse = pulseLength
}

func (s ookTransmitter) Send(value uint64, bits uint8) {
	p, ok := ook.Lookup(s.r.protocol)
	if !ok {
		return
	}
	s.r.buf = ook.Encode(s.r.buf[:0], p, s.r.pulse, value, bits)
	for i := 0; i < ook.DefaultRepeats; i++ {
		high := true
		for _, us := range s.r.buf {
			s.r.tx.Set(high)
			hold(us)
			high = !high
		}
	}
	s.r.tx.Low()
}

func hold(us uint32) {
	deadline := time.Now().Add(time.Duration(us) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}
