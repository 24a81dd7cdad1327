//go:build !tinygo && cgo

package hal

import (
	"math/rand"

	"rfpocket/firmware/ook"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key map:
//
//	Up / W          button Up
//	Down / S        button Down
//	Enter / Space   button Select
//	Escape / Bksp   button Back
//	C               inject a random 24-bit capture
//	L               toggle a radio link fault
var buttonKeys = [...][]ebiten.Key{
	PinButtonUp:     {ebiten.KeyArrowUp, ebiten.KeyW},
	PinButtonDown:   {ebiten.KeyArrowDown, ebiten.KeyS},
	PinButtonSelect: {ebiten.KeyEnter, ebiten.KeySpace},
	PinButtonBack:   {ebiten.KeyEscape, ebiten.KeyBackspace},
}

// pollButtons mirrors key levels onto the virtual buttons. The firmware
// samples levels, so holding a key holds the button.
func pollButtons(h *hostHAL, rng *rand.Rand) {
	for id, keys := range buttonKeys {
		down := false
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				down = true
				break
			}
		}
		h.PressButton(id, down)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		protocol := uint8(1 + rng.Intn(ook.Protocols))
		prof, _ := ook.Lookup(protocol)
		h.InjectCapture(Capture{
			Value:       uint64(rng.Uint32()&0xFFFFFF) | 1,
			BitLength:   24,
			Protocol:    protocol,
			PulseLength: prof.PulseLength,
		})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		h.SetLinkFault(!h.LinkFault())
	}
}
