package app

import (
	"errors"
	"fmt"

	"rfpocket/internal/buildinfo"
)

const (
	bootFrames     = 5
	bootFrameDelay = 120
)

// ErrDisplay is returned by Boot when the panel cannot be initialized.
var ErrDisplay = errors.New("display init failed")

// Boot brings the device up: buttons, panel, splash, radio, first link
// check. Only a display failure is fatal.
func (d *Device) Boot() error {
	log := d.log.With("boot")
	bootDiagStart(d.h)
	log.Printf("rfpocket %s", buildinfo.String())

	bootStep("input")
	if err := d.input.Configure(); err != nil {
		log.Printf("%v", err)
	}
	d.input.Snapshot(&d.st.Buttons)

	bootStep("display")
	disp := d.h.Display()
	if disp == nil {
		return ErrDisplay
	}
	if err := disp.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrDisplay, err)
	}

	bootStep("splash")
	for i := 1; i <= bootFrames; i++ {
		if err := d.render.Boot(i, bootFrames, buildinfo.Short()); err != nil {
			log.Printf("splash: %v", err)
		}
		d.clock.Sleep(bootFrameDelay)
	}

	bootStep("radio")
	if r := d.h.Radio(); r != nil {
		if err := r.Enable(); err != nil {
			log.Printf("radio: %v", err)
		}
	}

	bootStep("link")
	d.link.Update(d.st, d.clock.Millis())

	bootStep("ready")
	log.Printf("ready, link %s", linkWord(d.st.Link.Connected))
	return nil
}

func linkWord(ok bool) string {
	if ok {
		return "up"
	}
	return "down"
}
