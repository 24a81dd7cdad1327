//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// HostConfig selects how the desktop build simulates (or reaches) hardware.
type HostConfig struct {
	Width  int
	Height int
	Scale  int

	// LinkFault starts with the radio TX readback disconnected.
	LinkFault bool
	// NoDisplay makes Display().Init fail, exercising the fatal boot path.
	NoDisplay bool
	// ClockStart offsets the millisecond clock, e.g. close to the 2^32 wrap.
	ClockStart uint32

	LogPath string

	// GPIO is "virtual" (default) or "periph" for real pins on Linux.
	GPIO   string
	Periph PeriphPins

	virtualClock bool
}

// Simulator is implemented by host HALs that can be driven from outside:
// the window key map and headless scenarios use it.
type Simulator interface {
	PressButton(id int, down bool)
	InjectCapture(c Capture)
	SetLinkFault(open bool)
	LinkFault() bool
	SentFrames() []SentFrame
}

type hostHAL struct {
	cfg    HostConfig
	logger *hostLogger
	gpio   GPIO
	pins   []*virtualPin
	disp   *hostDisplay
	clock  hostClock
	radio  Radio
	sim    *simRadio
	closer io.Closer
}

// New returns a host HAL with simulated pins and radio.
func New() HAL {
	h, err := NewHost(HostConfig{})
	if err != nil {
		panic(err)
	}
	return h
}

// NewHost returns a host HAL for cfg.
func NewHost(cfg HostConfig) (HAL, error) {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) (*hostHAL, error) {
	if cfg.Width <= 0 {
		cfg.Width = 128
	}
	if cfg.Height <= 0 {
		cfg.Height = 64
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}

	var out io.Writer = os.Stdout
	var closer io.Closer
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		out = f
		closer = f
	}
	logger := newHostLogger(out)

	h := &hostHAL{
		cfg:    cfg,
		logger: logger,
		disp:   &hostDisplay{fb: newHostFramebuffer(cfg.Width, cfg.Height), missing: cfg.NoDisplay},
		closer: closer,
	}
	if cfg.virtualClock {
		h.clock = newVirtualClock(cfg.ClockStart)
	} else {
		h.clock = newRealClock(cfg.ClockStart)
	}

	switch cfg.GPIO {
	case "", "virtual":
		pins := newVirtualDevicePins()
		gpioPins := make([]GPIOPin, len(pins))
		for i, p := range pins {
			gpioPins[i] = p
		}
		h.pins = pins
		h.gpio = newVirtualGPIO(gpioPins)
		h.sim = newSimRadio(pins[PinRadioTX], pins[PinRadioRX])
		h.radio = h.sim
		if cfg.LinkFault {
			h.sim.setLinkFault(true)
		}
	case "periph":
		g, r, err := newPeriphDevice(cfg.Periph)
		if err != nil {
			return nil, fmt.Errorf("periph gpio: %w", err)
		}
		h.gpio = g
		h.radio = r
	default:
		return nil, fmt.Errorf("unknown gpio backend %q", cfg.GPIO)
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return h.disp }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Radio() Radio     { return h.radio }

func (h *hostHAL) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// PressButton drives a virtual button. Buttons are active-low.
func (h *hostHAL) PressButton(id int, down bool) {
	if id < 0 || id >= len(h.pins) || id > PinButtonBack {
		return
	}
	h.pins[id].drive(!down)
}

func (h *hostHAL) InjectCapture(c Capture) {
	if h.sim == nil {
		return
	}
	h.sim.inject(c)
}

func (h *hostHAL) SetLinkFault(open bool) {
	if h.sim == nil {
		return
	}
	h.sim.setLinkFault(open)
}

func (h *hostHAL) LinkFault() bool {
	if h.sim == nil {
		return false
	}
	return h.sim.linkFault()
}

func (h *hostHAL) SentFrames() []SentFrame {
	if h.sim == nil {
		return nil
	}
	return h.sim.sentFrames()
}

type hostDisplay struct {
	fb      *hostFramebuffer
	missing bool
}

var errNoPanel = errors.New("display: panel not responding")

func (d *hostDisplay) Init() error {
	if d.missing {
		return errNoPanel
	}
	return nil
}

func (d *hostDisplay) Framebuffer() Framebuffer { return d.fb }
