package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp little-endian: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
	// PixelFormatMonoVLSB is 1bpp in 8-row pages, LSB at the top
	// (SSD1306 layout): byte x + (y/8)*width, bit y%8.
	PixelFormatMonoVLSB
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display owns the panel. Init must succeed before the framebuffer is used.
type Display interface {
	Init() error
	Framebuffer() Framebuffer
}

// Clock is the monotonic millisecond clock. Millis wraps at 2^32.
type Clock interface {
	Millis() uint32
	Sleep(ms uint32)
}

// Capture is one decoded fixed-code transmission.
type Capture struct {
	Value       uint64
	BitLength   uint8
	Protocol    uint8
	PulseLength uint16
}

// Receiver is the decoded-capture side of the radio.
//
// Available reports a pending capture; Take returns it without clearing and
// Reset discards it.
type Receiver interface {
	Available() bool
	Take() Capture
	Reset()
}

// Transmitter sends fixed-code frames. Send blocks until the frame is out.
type Transmitter interface {
	Configure(protocol uint8, pulseLength uint16)
	Send(value uint64, bits uint8)
}

// Radio binds the receive and transmit primitives to their pins.
type Radio interface {
	Enable() error
	Receiver() Receiver
	Transmitter() Transmitter
}

// Pin IDs every platform GPIO exposes, in this order.
const (
	PinButtonUp = iota
	PinButtonDown
	PinButtonSelect
	PinButtonBack
	PinRadioTX
	PinRadioRX
	PinCount
)

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	GPIO() GPIO
	Display() Display
	Clock() Clock
	Radio() Radio
}
