package render

import (
	"rfpocket/firmware/gfx"

	"tinygo.org/x/tinydraw"
)

// warning draws a hazard triangle of height h with its apex at (cx, top).
func warning(s *gfx.Surface, cx, top, h int16) {
	tinydraw.Triangle(s, cx, top, cx-h, top+h, cx+h, top+h, fg)
	tinydraw.Line(s, cx, top+4, cx, top+h-5, fg)
	s.SetPixel(cx, top+h-3, fg)
}

// antenna draws a mast with its tip at (x, y) and up to three rings that
// grow with the animation frame.
func antenna(s *gfx.Surface, x, y int16, frame uint32) {
	tinydraw.FilledTriangle(s, x, y, x-4, y+10, x+4, y+10, fg)
	tinydraw.FilledCircle(s, x, y, 1, fg)
	rings := int16(frame % 4)
	for i := int16(1); i <= rings; i++ {
		tinydraw.Circle(s, x, y, 2+i*3, fg)
	}
}

// noise is a stateless integer hash used for jam static, so rendering
// does not advance the jam generator.
func noise(frame, i uint32) uint32 {
	h := frame*0x9E3779B1 + i*0x85EBCA77
	h ^= h >> 15
	h *= 0x2C1B3C6D
	h ^= h >> 12
	return h
}
