//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

// oledDisplay is an SSD1306 over I2C0. The framebuffer uses the panel's own
// page layout so Present hands it over unchanged.
type oledDisplay struct {
	fb *monoFramebuffer
}

func newOLEDDisplay() *oledDisplay {
	return &oledDisplay{fb: newMonoFramebuffer(oledWidth, oledHeight)}
}

func (d *oledDisplay) Init() error {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400000,
		SDA:       oledSDA,
		SCL:       oledSCL,
	}); err != nil {
		return fmt.Errorf("display: i2c: %w", err)
	}
	// The driver never reports a missing panel, so probe for an ACK first.
	if err := i2c.Tx(oledAddress, []byte{0x00, 0xAE}, nil); err != nil {
		return fmt.Errorf("display: no ssd1306 at %#x: %w", oledAddress, err)
	}

	dev := ssd1306.NewI2C(i2c)
	dev.Configure(ssd1306.Config{
		Address: oledAddress,
		Width:   oledWidth,
		Height:  oledHeight,
	})
	dev.ClearDisplay()

	d.fb.present = func(buf []byte) error {
		if err := dev.SetBuffer(buf); err != nil {
			return err
		}
		return dev.Display()
	}
	return nil
}

func (d *oledDisplay) Framebuffer() Framebuffer { return d.fb }

var errPanelDown = errors.New("display: not initialized")

// monoFramebuffer is 1bpp, 8-row pages, LSB at the top.
type monoFramebuffer struct {
	w, h    int
	buf     []byte
	present func(buf []byte) error
}

func newMonoFramebuffer(w, h int) *monoFramebuffer {
	return &monoFramebuffer{w: w, h: h, buf: make([]byte, w*h/8)}
}

func (f *monoFramebuffer) Width() int          { return f.w }
func (f *monoFramebuffer) Height() int         { return f.h }
func (f *monoFramebuffer) Format() PixelFormat { return PixelFormatMonoVLSB }
func (f *monoFramebuffer) StrideBytes() int    { return f.w }
func (f *monoFramebuffer) Buffer() []byte      { return f.buf }

func (f *monoFramebuffer) ClearRGB(r, g, b uint8) {
	var v byte
	if MonoLit(r, g, b) {
		v = 0xFF
	}
	for i := range f.buf {
		f.buf[i] = v
	}
}

func (f *monoFramebuffer) Present() error {
	if f.present == nil {
		return errPanelDown
	}
	return f.present(f.buf)
}
