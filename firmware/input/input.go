// Package input samples the four active-low buttons and turns rising edges
// into debounced presses.
package input

import (
	"fmt"

	"rfpocket/firmware/diag"
	"rfpocket/firmware/state"
	"rfpocket/hal"
)

var buttonPins = [state.ButtonCount]int{
	state.ButtonUp:     hal.PinButtonUp,
	state.ButtonDown:   hal.PinButtonDown,
	state.ButtonSelect: hal.PinButtonSelect,
	state.ButtonBack:   hal.PinButtonBack,
}

// Handler receives debounced presses. Handle reports whether the press
// changed anything.
type Handler interface {
	Handle(st *state.SystemState, b state.Button, now uint32) bool
}

// Sampler reads button levels from GPIO.
type Sampler struct {
	pins [state.ButtonCount]hal.GPIOPin
	log  diag.Log
}

// New binds a sampler to the button pins of g. Missing pins read as
// released.
func New(g hal.GPIO, log diag.Log) *Sampler {
	s := &Sampler{log: log}
	if g == nil {
		return s
	}
	for b, id := range buttonPins {
		s.pins[b] = g.Pin(id)
	}
	return s
}

// Configure sets every button pin to input with pull-up.
func (s *Sampler) Configure() error {
	for b, p := range s.pins {
		if p == nil {
			return fmt.Errorf("input: no pin for %s", state.Button(b))
		}
		if err := p.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return fmt.Errorf("input: %s: %w", state.Button(b), err)
		}
	}
	return nil
}

// Sample returns the pressed state of every button. Buttons pull to ground
// when pressed; a pin that cannot be read counts as released.
func (s *Sampler) Sample() [state.ButtonCount]bool {
	var out [state.ButtonCount]bool
	for b, p := range s.pins {
		if p == nil {
			continue
		}
		level, err := p.Read()
		out[b] = err == nil && !level
	}
	return out
}

// Snapshot loads the current levels into both snapshots so a button held
// through boot does not produce an edge.
func (s *Sampler) Snapshot(btn *state.Buttons) {
	cur := s.Sample()
	btn.Current = cur
	btn.Previous = cur
}

// RiseEdge reports a press that started since the previous sample.
func RiseEdge(current, previous bool) bool {
	return current && !previous
}

// Poll samples the buttons and, unless the shared debounce window is still
// running, dispatches each rising edge to h in Up, Down, Select, Back order.
//
// Edges seen inside the window are dropped. Any dispatched edge restarts
// the window.
func (s *Sampler) Poll(st *state.SystemState, h Handler, now uint32) {
	btn := &st.Buttons
	btn.Previous = btn.Current
	btn.Current = s.Sample()

	if !btn.Debounce.Ready(now) {
		return
	}

	dispatched := false
	for b := state.Button(0); b < state.ButtonCount; b++ {
		if !RiseEdge(btn.Current[b], btn.Previous[b]) {
			continue
		}
		dispatched = true
		if !h.Handle(st, b, now) {
			s.log.Printf("%s ignored in %s", b, st.Mode.Name())
		}
	}
	if dispatched {
		btn.Debounce.Stamp(now)
	}
}
