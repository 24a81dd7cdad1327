//go:build tinygo && !baremetal

package hal

import "time"

type tinyGoHostHAL struct {
	logger tinyGoHostLogger
	gpio   GPIO
	disp   tinyGoHostDisplay
	clock  *tinyGoHostClock
	radio  *simRadio
}

// New returns a TinyGo-on-host HAL for targets like linux or wasm where
// there is no pin mapping. Buttons stay released and the receiver stays quiet.
func New() HAL {
	pins := newVirtualDevicePins()
	gpioPins := make([]GPIOPin, len(pins))
	for i, p := range pins {
		gpioPins[i] = p
	}
	return &tinyGoHostHAL{
		gpio:  newVirtualGPIO(gpioPins),
		disp:  tinyGoHostDisplay{fb: newTinyGoHostFramebuffer(128, 64)},
		clock: &tinyGoHostClock{t0: time.Now()},
		radio: newSimRadio(pins[PinRadioTX], pins[PinRadioRX]),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHostHAL) Display() Display { return h.disp }
func (h *tinyGoHostHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHostHAL) Radio() Radio     { return h.radio }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Init() error              { return nil }
func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostClock struct {
	t0 time.Time
}

func (c *tinyGoHostClock) Millis() uint32 {
	return uint32(time.Since(c.t0) / time.Millisecond)
}

func (c *tinyGoHostClock) Sleep(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}
