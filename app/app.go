// Package app wires the firmware components to a HAL and runs the control
// loop.
package app

import (
	"context"

	"rfpocket/firmware/diag"
	"rfpocket/firmware/gfx"
	"rfpocket/firmware/input"
	"rfpocket/firmware/link"
	"rfpocket/firmware/modes"
	"rfpocket/firmware/radio"
	"rfpocket/firmware/render"
	"rfpocket/firmware/state"
	"rfpocket/hal"
)

// Device is the handheld: one SystemState and the components that act on
// it, all driven from a single goroutine.
type Device struct {
	h     hal.HAL
	clock hal.Clock
	log   diag.Log
	st    *state.SystemState

	input   *input.Sampler
	machine *modes.Machine
	link    *link.Monitor
	radio   *radio.Scheduler
	render  *render.Renderer

	presentFailed bool
}

// New binds a Device to h. Nothing touches hardware until Boot.
func New(h hal.HAL) *Device {
	log := diag.New(h.Logger(), "")
	d := &Device{
		h:       h,
		clock:   h.Clock(),
		log:     log,
		st:      state.New(),
		input:   input.New(h.GPIO(), log.With("input")),
		machine: modes.New(log.With("mode")),
	}

	var rx hal.Receiver
	var tx hal.Transmitter
	if r := h.Radio(); r != nil {
		rx, tx = r.Receiver(), r.Transmitter()
	}
	var txPin hal.GPIOPin
	if g := h.GPIO(); g != nil {
		txPin = g.Pin(hal.PinRadioTX)
	}
	d.link = link.New(rx, txPin, d.clock, log.With("link"))
	d.radio = radio.New(rx, tx, log)

	var fb hal.Framebuffer
	if disp := h.Display(); disp != nil {
		fb = disp.Framebuffer()
	}
	d.render = render.New(gfx.New(fb))
	return d
}

// State exposes the live state for inspection. Callers must not mutate it
// while the loop runs.
func (d *Device) State() *state.SystemState { return d.st }

// Tick runs one loop iteration: link refresh, animation, input, radio
// action, render. It does not sleep.
func (d *Device) Tick() {
	st := d.st
	now := d.clock.Millis()
	if d.link.Refresh(st, now) {
		now = d.clock.Millis()
	}
	st.Anim.Advance(now)
	d.input.Poll(st, d.machine, now)
	if st.Link.Connected {
		d.radio.Run(st, now)
	}
	if err := d.render.Frame(st, now); err != nil {
		if !d.presentFailed {
			d.log.With("render").Printf("present: %v", err)
		}
		d.presentFailed = true
	} else {
		d.presentFailed = false
	}
}

// Run boots and then ticks every TickDelay ms until ctx is done. A failed
// boot halts in an idle loop, which also ends with ctx.
func (d *Device) Run(ctx context.Context) error {
	if err := d.Boot(); err != nil {
		return d.halt(ctx, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		d.Tick()
		d.clock.Sleep(state.TickDelay)
	}
}

// Run is the entry point the platform runners call.
func Run(ctx context.Context, h hal.HAL) error {
	return New(h).Run(ctx)
}
