// Package ook encodes and decodes fixed-code on-off-keyed frames as used by
// cheap 315/433MHz remotes.
//
// A frame is a run of bits, MSB first, each sent as a high pulse followed by
// a low pulse, then a sync pair. Pulse widths are multiples of the
// protocol's base pulse length.
package ook

// Pulse is a high/low pair in multiples of the base pulse length.
type Pulse struct {
	High uint8
	Low  uint8
}

// Profile is one timing profile.
type Profile struct {
	PulseLength uint16
	Sync        Pulse
	Zero        Pulse
	One         Pulse
}

// MaxBits is the longest frame the codec handles.
const MaxBits = 64

// DefaultRepeats is how many times a frame is sent back to back.
const DefaultRepeats = 10

var profiles = [...]Profile{
	1: {PulseLength: 350, Sync: Pulse{1, 31}, Zero: Pulse{1, 3}, One: Pulse{3, 1}},
	2: {PulseLength: 650, Sync: Pulse{1, 10}, Zero: Pulse{1, 2}, One: Pulse{2, 1}},
	3: {PulseLength: 100, Sync: Pulse{30, 71}, Zero: Pulse{4, 11}, One: Pulse{9, 6}},
}

// Protocols is the number of known protocol ids; valid ids are 1..Protocols.
const Protocols = len(profiles) - 1

// Lookup returns the profile for a protocol id.
func Lookup(protocol uint8) (Profile, bool) {
	if protocol == 0 || int(protocol) > Protocols {
		return Profile{}, false
	}
	return profiles[protocol], true
}

// Encode appends the alternating high/low durations (µs) of one frame to
// dst. pulseLength overrides the profile default when nonzero.
func Encode(dst []uint32, p Profile, pulseLength uint16, value uint64, bits uint8) []uint32 {
	if pulseLength == 0 {
		pulseLength = p.PulseLength
	}
	if bits > MaxBits {
		bits = MaxBits
	}
	base := uint32(pulseLength)
	for i := int(bits) - 1; i >= 0; i-- {
		pulse := p.Zero
		if value&(1<<uint(i)) != 0 {
			pulse = p.One
		}
		dst = append(dst, base*uint32(pulse.High), base*uint32(pulse.Low))
	}
	return append(dst, base*uint32(p.Sync.High), base*uint32(p.Sync.Low))
}

// Airtime returns the duration in µs of repeats back-to-back frames.
func Airtime(p Profile, pulseLength uint16, value uint64, bits uint8, repeats int) uint32 {
	if pulseLength == 0 {
		pulseLength = p.PulseLength
	}
	if bits > MaxBits {
		bits = MaxBits
	}
	var units uint32
	for i := int(bits) - 1; i >= 0; i-- {
		pulse := p.Zero
		if value&(1<<uint(i)) != 0 {
			pulse = p.One
		}
		units += uint32(pulse.High) + uint32(pulse.Low)
	}
	units += uint32(p.Sync.High) + uint32(p.Sync.Low)
	return units * uint32(pulseLength) * uint32(repeats)
}
