// Package state defines SystemState, the single aggregate owned by the
// control loop, and the timing constants every subsystem agrees on.
package state

import "rfpocket/firmware/clock"

// Loop timing, in milliseconds.
const (
	DebounceWindow      uint32 = 200
	LinkRecheckInterval uint32 = 3000
	AnimationInterval   uint32 = 100
	ReplayInterval      uint32 = 500
	JamInterval         uint32 = 50
	TickDelay           uint32 = 30
	ListenTimeout       uint32 = 100
	ProbeSettle         uint32 = 10
)

// FrameModulus bounds the animation frame counter.
const FrameModulus uint32 = 1_000_000

// Button is one of the four logical inputs.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonSelect
	ButtonBack
	ButtonCount
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonSelect:
		return "select"
	case ButtonBack:
		return "back"
	default:
		return "?"
	}
}

// Buttons is the per-tick input snapshot.
//
// Debounce is shared by all four buttons; its last stamp is the time of the
// last accepted press.
type Buttons struct {
	Current  [ButtonCount]bool
	Previous [ButtonCount]bool
	Debounce clock.Gate
}

// LastPress returns the time of the last accepted press, if any.
func (b *Buttons) LastPress() (uint32, bool) {
	return b.Debounce.Last()
}

// CapturedSignal is the most recent RF capture.
type CapturedSignal struct {
	Value       uint64
	BitLength   uint8
	Protocol    uint8
	PulseLength uint16
	Valid       bool
	CaptureTime uint32
}

// Record overwrites the capture. A zero value is noise and leaves the
// record untouched; Record reports whether it stored anything.
func (c *CapturedSignal) Record(value uint64, bits, protocol uint8, pulse uint16, now uint32) bool {
	if value == 0 {
		return false
	}
	*c = CapturedSignal{
		Value:       value,
		BitLength:   bits,
		Protocol:    protocol,
		PulseLength: pulse,
		Valid:       true,
		CaptureTime: now,
	}
	return true
}

// LinkStatus is the last radio link health assessment.
type LinkStatus struct {
	Connected bool
	Recheck   clock.Gate
}

// LastCheck returns the time of the last link check, if any.
func (l *LinkStatus) LastCheck() (uint32, bool) {
	return l.Recheck.Last()
}

// AnimationClock advances Frame once per AnimationInterval.
type AnimationClock struct {
	Frame uint32
	Gate  clock.Gate
}

// Advance steps the frame counter if the interval elapsed.
func (a *AnimationClock) Advance(now uint32) bool {
	if !a.Gate.Take(now) {
		return false
	}
	a.Frame = (a.Frame + 1) % FrameModulus
	return true
}

// SystemState is everything the control loop mutates.
type SystemState struct {
	Mode          Mode
	MenuSelection int

	Buttons Buttons
	Signal  CapturedSignal
	Link    LinkStatus
	Anim    AnimationClock

	ReplayGate clock.Gate
	JamGate    clock.Gate

	// Rand is the xorshift32 state used for jam values.
	Rand uint32
}

// New returns the boot-time state: Menu mode, nothing captured, link unknown.
func New() *SystemState {
	return &SystemState{
		Mode: &Menu{},
		Buttons: Buttons{
			Debounce: clock.NewGate(DebounceWindow),
		},
		Link: LinkStatus{
			Recheck: clock.NewGate(LinkRecheckInterval),
		},
		Anim: AnimationClock{
			Gate: clock.NewGate(AnimationInterval),
		},
		ReplayGate: clock.NewGate(ReplayInterval),
		JamGate:    clock.NewGate(JamInterval),
		Rand:       0xA341316C,
	}
}

// NextRand advances the xorshift32 generator.
func (s *SystemState) NextRand() uint32 {
	x := s.Rand
	if x == 0 {
		x = 0xA341316C
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.Rand = x
	return x
}
