//go:build !tinygo && linux

package hal

import (
	"fmt"
	"sync"
	"time"

	"rfpocket/firmware/ook"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

func newPeriphDevice(names PeriphPins) (GPIO, Radio, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host init: %w", err)
	}
	names = names.withDefaults()

	order := [PinCount]string{
		PinButtonUp:     names.Up,
		PinButtonDown:   names.Down,
		PinButtonSelect: names.Select,
		PinButtonBack:   names.Back,
		PinRadioTX:      names.TX,
		PinRadioRX:      names.RX,
	}
	pins := make([]GPIOPin, PinCount)
	raw := make([]gpio.PinIO, PinCount)
	for id, name := range order {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, nil, fmt.Errorf("pin %q not found", name)
		}
		raw[id] = p
		pins[id] = &periphPin{p: p}
	}

	r := &periphRadio{tx: raw[PinRadioTX], rx: raw[PinRadioRX], protocol: 1}
	return newVirtualGPIO(pins), r, nil
}

type periphPin struct {
	p gpio.PinIO
}

func (p *periphPin) Name() string { return p.p.Name() }

func (p *periphPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *periphPin) Configure(mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeInput:
		pp := gpio.Float
		switch pull {
		case GPIOPullUp:
			pp = gpio.PullUp
		case GPIOPullDown:
			pp = gpio.PullDown
		}
		if err := p.p.In(pp, gpio.NoEdge); err != nil {
			return fmt.Errorf("gpio: pin %s: %w", p.p.Name(), err)
		}
	case GPIOModeOutput:
		if err := p.p.Out(gpio.Low); err != nil {
			return fmt.Errorf("gpio: pin %s: %w", p.p.Name(), err)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.p.Name())
	}
	return nil
}

func (p *periphPin) Read() (bool, error) {
	return p.p.Read() == gpio.High, nil
}

func (p *periphPin) Write(level bool) error {
	if err := p.p.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("gpio: pin %s: %w", p.p.Name(), err)
	}
	return nil
}

// periphRadio decodes RX edges in a goroutine and bit-bangs TX frames.
type periphRadio struct {
	tx gpio.PinIO
	rx gpio.PinIO

	mu      sync.Mutex
	pending bool
	last    Capture

	protocol uint8
	pulse    uint16
	buf      []uint32

	once sync.Once
}

func (r *periphRadio) Enable() error {
	if err := r.tx.Out(gpio.Low); err != nil {
		return fmt.Errorf("radio tx: %w", err)
	}
	if err := r.rx.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return fmt.Errorf("radio rx: %w", err)
	}
	r.once.Do(func() { go r.listen() })
	return nil
}

func (r *periphRadio) listen() {
	var dec ook.Decoder
	last := time.Now()
	for {
		if !r.rx.WaitForEdge(time.Second) {
			dec.Reset()
			last = time.Now()
			continue
		}
		now := time.Now()
		us := now.Sub(last) / time.Microsecond
		last = now
		if res, ok := dec.Edge(uint32(us)); ok {
			r.mu.Lock()
			r.last = Capture{
				Value:       res.Value,
				BitLength:   res.BitLength,
				Protocol:    res.Protocol,
				PulseLength: res.PulseLength,
			}
			r.pending = true
			r.mu.Unlock()
		}
	}
}

func (r *periphRadio) Receiver() Receiver       { return periphReceiver{r} }
func (r *periphRadio) Transmitter() Transmitter { return periphTransmitter{r} }

type periphReceiver struct{ r *periphRadio }

func (s periphReceiver) Available() bool {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.r.pending
}

func (s periphReceiver) Take() Capture {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.r.last
}

func (s periphReceiver) Reset() {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.pending = false
}

type periphTransmitter struct{ r *periphRadio }

func (s periphTransmitter) Configure(protocol uint8, pulseLength uint16) {
	s.r.protocol = protocol
	s.r.pulse = pulseLength
}

func (s periphTransmitter) Send(value uint64, bits uint8) {
	p, ok := ook.Lookup(s.r.protocol)
	if !ok {
		return
	}
	s.r.buf = s.r.buf[:0]
	for i := 0; i < ook.DefaultRepeats; i++ {
		s.r.buf = ook.Encode(s.r.buf, p, s.r.pulse, value, bits)
	}
	level := gpio.High
	for _, us := range s.r.buf {
		_ = s.r.tx.Out(level)
		spin(time.Duration(us) * time.Microsecond)
		level = !level
	}
	_ = s.r.tx.Out(gpio.Low)
}

// spin busy-waits; the scheduler's sleep granularity is far coarser than
// a 100µs pulse.
func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
