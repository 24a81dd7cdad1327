package state

import "fmt"

// MenuItems is the number of entries in the main menu.
const MenuItems = 3

// Mode is the active controller state. It is implemented only by the four
// types in this file; code that switches on Mode should call Unreachable in
// its default branch.
type Mode interface {
	Name() string
	isMode()
}

// Menu lists the three radio modes.
type Menu struct{}

// Read listens for captures.
type Read struct{}

// Emulate replays the stored capture while Transmitting.
type Emulate struct {
	Transmitting bool
	Count        int
}

// Jam sends random bursts while Jamming.
type Jam struct {
	Jamming bool
}

func (*Menu) Name() string    { return "menu" }
func (*Read) Name() string    { return "read" }
func (*Emulate) Name() string { return "emulate" }
func (*Jam) Name() string     { return "jam" }

func (*Menu) isMode()    {}
func (*Read) isMode()    {}
func (*Emulate) isMode() {}
func (*Jam) isMode()     {}

// MenuTarget returns a fresh mode for the menu entry at sel.
func MenuTarget(sel int) Mode {
	switch sel {
	case 0:
		return &Read{}
	case 1:
		return &Emulate{}
	default:
		return &Jam{}
	}
}

// MenuLabel returns the display label for the menu entry at sel.
func MenuLabel(sel int) string {
	switch sel {
	case 0:
		return "Read Signal"
	case 1:
		return "Emulate"
	case 2:
		return "Jammer"
	default:
		return "?"
	}
}

// WrapSelection maps sel onto [0, MenuItems).
func WrapSelection(sel int) int {
	sel %= MenuItems
	if sel < 0 {
		sel += MenuItems
	}
	return sel
}

// Unreachable panics for a Mode implementation this package does not know.
func Unreachable(m Mode) {
	panic(fmt.Sprintf("state: unknown mode %T", m))
}
