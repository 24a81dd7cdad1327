// Package gfx draws on a hal.Framebuffer through the drivers.Displayer
// interface so tinydraw shapes and tinyfont text can target any panel the
// HAL exposes.
package gfx

import (
	"errors"
	"image/color"

	"rfpocket/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// The handheld panel is monochrome; everything is drawn in these two.
var (
	Background = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Face is a font plus the cell metrics tinyfont does not expose directly.
type Face struct {
	Font tinyfont.Fonter
	// Height is the line pitch, Ascent the baseline offset from the top.
	Height int16
	Ascent int16
}

var (
	Regular = Face{Font: &proggy.TinySZ8pt7b, Height: 10, Ascent: 8}
	Small   = Face{Font: &tinyfont.TomThumb, Height: 6, Ascent: 5}
)

var errNoFramebuffer = errors.New("gfx: no framebuffer")

// Surface adapts a framebuffer to drivers.Displayer.
type Surface struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*Surface)(nil)

func New(fb hal.Framebuffer) *Surface {
	return &Surface{fb: fb}
}

func (s *Surface) Size() (x, y int16) {
	if s.fb == nil {
		return 0, 0
	}
	return int16(s.fb.Width()), int16(s.fb.Height())
}

func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	if s.fb == nil {
		return
	}
	buf := s.fb.Buffer()
	w, h := s.fb.Width(), s.fb.Height()
	ix, iy := int(x), int(y)
	if buf == nil || ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	switch s.fb.Format() {
	case hal.PixelFormatRGB565:
		off := iy*s.fb.StrideBytes() + ix*2
		if off+1 >= len(buf) {
			return
		}
		pixel := hal.RGB565(c.R, c.G, c.B)
		buf[off] = byte(pixel)
		buf[off+1] = byte(pixel >> 8)
	case hal.PixelFormatMonoVLSB:
		off := ix + (iy/8)*s.fb.StrideBytes()
		if off >= len(buf) {
			return
		}
		bit := byte(1) << uint(iy%8)
		if hal.MonoLit(c.R, c.G, c.B) {
			buf[off] |= bit
		} else {
			buf[off] &^= bit
		}
	}
}

// Display presents the framebuffer.
func (s *Surface) Display() error {
	if s.fb == nil {
		return errNoFramebuffer
	}
	return s.fb.Present()
}

// FillRectangle fills w*h pixels at (x, y), clipped to the surface.
func (s *Surface) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if w <= 0 || h <= 0 {
		return errors.New("gfx: empty rectangle")
	}
	sw, sh := s.Size()
	x0, y0 := max16(x, 0), max16(y, 0)
	x1, y1 := min16(x+w, sw), min16(y+h, sh)
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			s.SetPixel(xx, yy, c)
		}
	}
	return nil
}

// SetRotation only accepts the panel's native orientation.
func (s *Surface) SetRotation(rotation drivers.Rotation) error {
	if rotation != 0 {
		return hal.ErrNotImplemented
	}
	return nil
}

// Clear fills the whole surface with the background color.
func (s *Surface) Clear() {
	if s.fb == nil {
		return
	}
	s.fb.ClearRGB(Background.R, Background.G, Background.B)
}

// Lit reports whether the pixel at (x, y) is drawn in a light color.
func (s *Surface) Lit(x, y int16) bool {
	if s.fb == nil {
		return false
	}
	buf := s.fb.Buffer()
	w, h := s.fb.Width(), s.fb.Height()
	ix, iy := int(x), int(y)
	if buf == nil || ix < 0 || ix >= w || iy < 0 || iy >= h {
		return false
	}
	switch s.fb.Format() {
	case hal.PixelFormatRGB565:
		off := iy*s.fb.StrideBytes() + ix*2
		p := uint16(buf[off]) | uint16(buf[off+1])<<8
		return p != 0
	case hal.PixelFormatMonoVLSB:
		return buf[ix+(iy/8)*s.fb.StrideBytes()]&(1<<uint(iy%8)) != 0
	}
	return false
}

// Text draws s with its top-left corner at (x, y).
func (s *Surface) Text(face Face, x, y int16, str string, c color.RGBA) {
	tinyfont.WriteLine(s, face.Font, x, y+face.Ascent, str, c)
}

// TextWidth returns the drawn width of str in pixels.
func TextWidth(face Face, str string) int16 {
	_, outbox := tinyfont.LineWidth(face.Font, str)
	return int16(outbox)
}

// CenteredText draws str horizontally centered with its top at y.
func (s *Surface) CenteredText(face Face, y int16, str string, c color.RGBA) {
	w, _ := s.Size()
	x := (w - TextWidth(face, str)) / 2
	if x < 0 {
		x = 0
	}
	s.Text(face, x, y, str, c)
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
