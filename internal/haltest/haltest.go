// Package haltest provides scripted in-memory HAL parts for tests.
package haltest

import (
	"errors"
	"fmt"
	"strings"

	"rfpocket/hal"
)

// Clock only moves when slept on, one millisecond at a time.
type Clock struct {
	Now uint32
	// OnSleep runs after every simulated millisecond.
	OnSleep func(now uint32)
}

func (c *Clock) Millis() uint32 { return c.Now }

func (c *Clock) Sleep(ms uint32) {
	for i := uint32(0); i < ms; i++ {
		c.Now++
		if c.OnSleep != nil {
			c.OnSleep(c.Now)
		}
	}
}

// Pin is a scripted GPIO line. Outputs read back Level unless Open.
type Pin struct {
	ID   string
	Mode hal.GPIOMode
	Pull hal.GPIOPull

	Level bool
	Open  bool

	Writes       []bool
	ReadErr      error
	ConfigureErr error
}

func (p *Pin) Name() string { return p.ID }

func (p *Pin) Caps() hal.GPIOCaps {
	return hal.GPIOCapInput | hal.GPIOCapOutput | hal.GPIOCapPullUp | hal.GPIOCapPullDown
}

func (p *Pin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.Mode = mode
	p.Pull = pull
	return nil
}

func (p *Pin) Read() (bool, error) {
	if p.ReadErr != nil {
		return false, p.ReadErr
	}
	if p.Mode == hal.GPIOModeOutput && p.Open {
		return false, nil
	}
	return p.Level, nil
}

func (p *Pin) Write(level bool) error {
	if p.Mode != hal.GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.ID)
	}
	p.Level = level
	p.Writes = append(p.Writes, level)
	return nil
}

// GPIO holds one Pin per hal pin ID. Buttons start released (high).
type GPIO struct {
	Pins [hal.PinCount]*Pin
}

func NewGPIO() *GPIO {
	g := &GPIO{}
	names := [hal.PinCount]string{"UP", "DOWN", "SELECT", "BACK", "RFTX", "RFRX"}
	for i := range g.Pins {
		g.Pins[i] = &Pin{ID: names[i], Level: i <= hal.PinButtonBack}
	}
	return g
}

func (g *GPIO) PinCount() int { return len(g.Pins) }

func (g *GPIO) Pin(id int) hal.GPIOPin {
	if id < 0 || id >= len(g.Pins) {
		return nil
	}
	return g.Pins[id]
}

// Press holds (or releases) an active-low button.
func (g *GPIO) Press(id int, down bool) {
	g.Pins[id].Level = !down
}

type timedCapture struct {
	at uint32
	c  hal.Capture
}

// Receiver delivers queued captures in order, each once its time comes.
type Receiver struct {
	Clock *Clock

	queue  []timedCapture
	Takes  int
	Resets int
}

// Push queues a capture available immediately.
func (r *Receiver) Push(c hal.Capture) {
	var at uint32
	if r.Clock != nil {
		at = r.Clock.Now
	}
	r.queue = append(r.queue, timedCapture{at: at, c: c})
}

// PushAt queues a capture that becomes available at clock time at.
func (r *Receiver) PushAt(at uint32, c hal.Capture) {
	r.queue = append(r.queue, timedCapture{at: at, c: c})
}

func (r *Receiver) Pending() int { return len(r.queue) }

func (r *Receiver) Available() bool {
	if len(r.queue) == 0 {
		return false
	}
	if r.Clock == nil {
		return true
	}
	return r.Clock.Now-r.queue[0].at < 1<<31
}

func (r *Receiver) Take() hal.Capture {
	r.Takes++
	if len(r.queue) == 0 {
		return hal.Capture{}
	}
	return r.queue[0].c
}

func (r *Receiver) Reset() {
	r.Resets++
	if r.Available() {
		r.queue = r.queue[1:]
	}
}

// Sent is one frame handed to the Transmitter.
type Sent struct {
	hal.Capture
	At uint32
}

// Transmitter records every Send with its configured protocol.
type Transmitter struct {
	Clock *Clock

	protocol uint8
	pulse    uint16
	Sent     []Sent
}

func (t *Transmitter) Configure(protocol uint8, pulseLength uint16) {
	t.protocol = protocol
	t.pulse = pulseLength
}

func (t *Transmitter) Send(value uint64, bits uint8) {
	s := Sent{Capture: hal.Capture{Value: value, BitLength: bits, Protocol: t.protocol, PulseLength: t.pulse}}
	if t.Clock != nil {
		s.At = t.Clock.Now
	}
	t.Sent = append(t.Sent, s)
}

// Radio pairs a Receiver and Transmitter.
type Radio struct {
	Rx *Receiver
	Tx *Transmitter

	EnableErr error
	Enabled   bool
}

func (r *Radio) Enable() error {
	if r.EnableErr != nil {
		return r.EnableErr
	}
	r.Enabled = true
	return nil
}

func (r *Radio) Receiver() hal.Receiver       { return r.Rx }
func (r *Radio) Transmitter() hal.Transmitter { return r.Tx }

// Framebuffer is a 1bpp page-layout buffer that counts presents.
type Framebuffer struct {
	W, H       int
	Buf        []byte
	Presents   int
	PresentErr error
}

func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, Buf: make([]byte, w*h/8)}
}

func (f *Framebuffer) Width() int              { return f.W }
func (f *Framebuffer) Height() int             { return f.H }
func (f *Framebuffer) Format() hal.PixelFormat { return hal.PixelFormatMonoVLSB }
func (f *Framebuffer) StrideBytes() int        { return f.W }
func (f *Framebuffer) Buffer() []byte          { return f.Buf }

func (f *Framebuffer) ClearRGB(r, g, b uint8) {
	var v byte
	if hal.MonoLit(r, g, b) {
		v = 0xFF
	}
	for i := range f.Buf {
		f.Buf[i] = v
	}
}

func (f *Framebuffer) Present() error {
	f.Presents++
	return f.PresentErr
}

// Snapshot copies the current pixels.
func (f *Framebuffer) Snapshot() []byte {
	return append([]byte(nil), f.Buf...)
}

// Display wraps a Framebuffer; InitErr makes Init fail.
type Display struct {
	FB      *Framebuffer
	InitErr error
	Inits   int
}

func (d *Display) Init() error {
	d.Inits++
	return d.InitErr
}

func (d *Display) Framebuffer() hal.Framebuffer { return d.FB }

// Logger keeps every line.
type Logger struct {
	Lines []string
}

func (l *Logger) WriteLineString(s string) { l.Lines = append(l.Lines, s) }
func (l *Logger) WriteLineBytes(b []byte)  { l.Lines = append(l.Lines, string(b)) }

// Contains reports whether any line contains substr.
func (l *Logger) Contains(substr string) bool {
	return l.Count(substr) > 0
}

// Count returns how many lines contain substr.
func (l *Logger) Count(substr string) int {
	n := 0
	for _, line := range l.Lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// HAL is a complete scripted device.
type HAL struct {
	Log  *Logger
	Pins *GPIO
	Disp *Display
	Clk  *Clock
	Rad  *Radio
}

// New returns a HAL with a 128x64 panel, released buttons, a connected
// radio line and the clock at start.
func New(start uint32) *HAL {
	clk := &Clock{Now: start}
	return &HAL{
		Log:  &Logger{},
		Pins: NewGPIO(),
		Disp: &Display{FB: NewFramebuffer(128, 64)},
		Clk:  clk,
		Rad: &Radio{
			Rx: &Receiver{Clock: clk},
			Tx: &Transmitter{Clock: clk},
		},
	}
}

func (h *HAL) Logger() hal.Logger   { return h.Log }
func (h *HAL) GPIO() hal.GPIO       { return h.Pins }
func (h *HAL) Display() hal.Display { return h.Disp }
func (h *HAL) Clock() hal.Clock     { return h.Clk }
func (h *HAL) Radio() hal.Radio     { return h.Rad }

// ErrInjected is a generic failure for scripted error paths.
var ErrInjected = errors.New("haltest: injected failure")
