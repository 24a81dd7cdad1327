//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoHAL struct {
	logger *uartLogger
	gpio   GPIO
	disp   *oledDisplay
	clock  *deviceClock
	radio  *ookRadio
}

// New returns the handheld's HAL.
//
// Nothing here talks to the panel or the radio yet; Display().Init and
// Radio().Enable do that so the boot sequence controls the order.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       uartTX,
		RX:       uartRX,
	})

	pins := []GPIOPin{
		PinButtonUp:     &machinePin{name: "UP", pin: buttonUpPin},
		PinButtonDown:   &machinePin{name: "DOWN", pin: buttonDownPin},
		PinButtonSelect: &machinePin{name: "SELECT", pin: buttonSelectPin},
		PinButtonBack:   &machinePin{name: "BACK", pin: buttonBackPin},
		PinRadioTX:      &machinePin{name: "RFTX", pin: radioTXPin},
		PinRadioRX:      &machinePin{name: "RFRX", pin: radioRXPin},
	}

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		gpio:   newVirtualGPIO(pins),
		disp:   newOLEDDisplay(),
		clock:  newDeviceClock(),
		radio:  newOOKRadio(radioTXPin, radioRXPin),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Display() Display { return h.disp }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHAL) Radio() Radio     { return h.radio }
