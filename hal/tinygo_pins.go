//go:build tinygo && baremetal

package hal

import "machine"

// Board wiring (Raspberry Pi Pico).
//
//	GP0/GP1    UART0 TX/RX, 115200 8N1 diagnostics
//	GP4/GP5    I2C0 SDA/SCL, SSD1306 at 0x3C
//	GP10..13   buttons Up, Down, Select, Back to ground
//	GP16       OOK transmitter data
//	GP17       OOK receiver data
const (
	uartTX = machine.GP0
	uartRX = machine.GP1

	oledSDA     = machine.GP4
	oledSCL     = machine.GP5
	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64

	buttonUpPin     = machine.GP10
	buttonDownPin   = machine.GP11
	buttonSelectPin = machine.GP12
	buttonBackPin   = machine.GP13

	radioTXPin = machine.GP16
	radioRXPin = machine.GP17
)
