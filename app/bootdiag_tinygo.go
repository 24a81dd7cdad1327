//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"rfpocket/hal"
)

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
	bootDiagOnce sync.Once
)

func bootStep(msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()
}

// bootDiagStart repeats the current boot step on the logger and USB CDC
// every 250ms, so a board that hangs during boot still says where.
func bootDiagStart(h hal.HAL) {
	l := h.Logger()
	bootDiagOnce.Do(func() {
		go func() {
			for {
				bootDiagMu.Lock()
				step := bootDiagStep
				bootDiagMu.Unlock()

				if step == "" {
					step = "<empty>"
				}
				line := "bootdiag: " + step

				if l != nil {
					l.WriteLineString(line)
				}
				if usb := machine.USBCDC; usb != nil {
					_, _ = usb.Write([]byte(line + "\r\n"))
				}

				time.Sleep(250 * time.Millisecond)
			}
		}()
	})
}
