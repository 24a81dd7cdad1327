package hal

import (
	"sync"

	"rfpocket/firmware/ook"
)

// SentFrame is one frame handed to a simulated transmitter.
type SentFrame struct {
	Capture
	// Lost is set when the TX line was disconnected while sending.
	Lost bool
	// AirtimeMicros is how long the frame would have been on air.
	AirtimeMicros uint32
}

// simRadio is a radio whose receiver is fed by InjectCapture and whose
// transmitter only records frames.
type simRadio struct {
	mu sync.Mutex

	txPin *virtualPin
	rxPin *virtualPin

	pending bool
	last    Capture

	protocol uint8
	pulse    uint16
	sent     []SentFrame
}

func newSimRadio(tx, rx *virtualPin) *simRadio {
	return &simRadio{txPin: tx, rxPin: rx, protocol: 1}
}

func (r *simRadio) Enable() error {
	if err := r.txPin.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
		return err
	}
	if err := r.txPin.Write(false); err != nil {
		return err
	}
	return r.rxPin.Configure(GPIOModeInput, GPIOPullNone)
}

func (r *simRadio) Receiver() Receiver       { return simReceiver{r} }
func (r *simRadio) Transmitter() Transmitter { return simTransmitter{r} }

func (r *simRadio) inject(c Capture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = c
	r.pending = true
}

func (r *simRadio) setLinkFault(open bool) { r.txPin.setOpen(open) }
func (r *simRadio) linkFault() bool        { return r.txPin.isOpen() }

func (r *simRadio) sentFrames() []SentFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentFrame(nil), r.sent...)
}

type simReceiver struct{ r *simRadio }

func (s simReceiver) Available() bool {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.r.pending
}

func (s simReceiver) Take() Capture {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.r.last
}

func (s simReceiver) Reset() {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.pending = false
}

type simTransmitter struct{ r *simRadio }

func (s simTransmitter) Configure(protocol uint8, pulseLength uint16) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.protocol = protocol
	s.r.pulse = pulseLength
}

func (s simTransmitter) Send(value uint64, bits uint8) {
	lost := s.r.txPin.isOpen()

	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	f := SentFrame{
		Capture: Capture{
			Value:       value,
			BitLength:   bits,
			Protocol:    s.r.protocol,
			PulseLength: s.r.pulse,
		},
		Lost: lost,
	}
	if p, ok := ook.Lookup(s.r.protocol); ok {
		f.AirtimeMicros = ook.Airtime(p, s.r.pulse, value, bits, ook.DefaultRepeats)
	}
	s.r.sent = append(s.r.sent, f)
}
