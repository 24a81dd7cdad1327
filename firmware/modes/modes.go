// Package modes is the button-driven controller state machine.
package modes

import (
	"rfpocket/firmware/diag"
	"rfpocket/firmware/state"
)

// Machine applies debounced presses to SystemState.
type Machine struct {
	log diag.Log
}

func New(log diag.Log) *Machine {
	return &Machine{log: log}
}

// Handle applies press b at time now and reports whether it changed state.
func (m *Machine) Handle(st *state.SystemState, b state.Button, now uint32) bool {
	switch mode := st.Mode.(type) {
	case *state.Menu:
		return m.menu(st, b)
	case *state.Read:
		if b == state.ButtonBack {
			m.enter(st, &state.Menu{})
			return true
		}
		return false
	case *state.Emulate:
		return m.emulate(st, mode, b)
	case *state.Jam:
		return m.jam(st, mode, b)
	default:
		state.Unreachable(mode)
		return false
	}
}

func (m *Machine) menu(st *state.SystemState, b state.Button) bool {
	switch b {
	case state.ButtonUp:
		st.MenuSelection = state.WrapSelection(st.MenuSelection - 1)
	case state.ButtonDown:
		st.MenuSelection = state.WrapSelection(st.MenuSelection + 1)
	case state.ButtonSelect:
		m.enter(st, state.MenuTarget(st.MenuSelection))
		return true
	default:
		return false
	}
	m.log.Printf("menu -> %s", state.MenuLabel(st.MenuSelection))
	return true
}

func (m *Machine) emulate(st *state.SystemState, mode *state.Emulate, b state.Button) bool {
	switch b {
	case state.ButtonBack:
		m.enter(st, &state.Menu{})
		return true
	case state.ButtonSelect:
		if !st.Signal.Valid {
			m.log.Printf("no signal captured, nothing to emulate")
			return false
		}
		mode.Transmitting = !mode.Transmitting
		mode.Count = 0
		st.ReplayGate.Reset()
		if mode.Transmitting {
			m.log.Printf("emulate start: %#x/%d bits", st.Signal.Value, st.Signal.BitLength)
		} else {
			m.log.Printf("emulate stop")
		}
		return true
	default:
		return false
	}
}

func (m *Machine) jam(st *state.SystemState, mode *state.Jam, b state.Button) bool {
	switch b {
	case state.ButtonBack:
		m.enter(st, &state.Menu{})
		return true
	case state.ButtonSelect:
		mode.Jamming = !mode.Jamming
		st.JamGate.Reset()
		if mode.Jamming {
			m.log.Printf("jam start")
		} else {
			m.log.Printf("jam stop")
		}
		return true
	default:
		return false
	}
}

// enter switches to next. Every mode is constructed fresh, so transmit
// and jam flags and the transmit count start cleared.
func (m *Machine) enter(st *state.SystemState, next state.Mode) {
	m.log.Printf("%s -> %s", st.Mode.Name(), next.Name())
	st.Mode = next
	st.ReplayGate.Reset()
	st.JamGate.Reset()
}
