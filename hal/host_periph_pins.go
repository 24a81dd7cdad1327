//go:build !tinygo

package hal

// PeriphPins names the Linux GPIO lines (as known to periph's gpioreg) for
// each device pin. Empty fields take the defaults below.
type PeriphPins struct {
	Up     string
	Down   string
	Select string
	Back   string
	TX     string
	RX     string
}

func (p PeriphPins) withDefaults() PeriphPins {
	def := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return PeriphPins{
		Up:     def(p.Up, "GPIO5"),
		Down:   def(p.Down, "GPIO6"),
		Select: def(p.Select, "GPIO13"),
		Back:   def(p.Back, "GPIO19"),
		TX:     def(p.TX, "GPIO17"),
		RX:     def(p.RX, "GPIO27"),
	}
}
