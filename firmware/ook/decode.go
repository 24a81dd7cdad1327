package ook

// separationLimit is the shortest gap (µs) treated as a frame separator.
const separationLimit = 4300

// maxChanges holds a sync gap, 64 bit pairs and the trailing sync high.
const maxChanges = 2*MaxBits + 2

// tolerance is the accepted deviation from a nominal pulse, in percent.
const tolerance = 60

// Result is a decoded frame.
type Result struct {
	Value       uint64
	BitLength   uint8
	Protocol    uint8
	PulseLength uint16
}

// Decoder turns the durations between successive edges on the receive pin
// into frames. A frame is accepted once it has been seen twice in a row.
//
// Edge does not allocate and may be called from an interrupt handler.
type Decoder struct {
	timings     [maxChanges]uint32
	changeCount int
	repeatCount int
}

// Edge feeds the time since the previous edge. It returns a frame when one
// completes.
func (d *Decoder) Edge(duration uint32) (Result, bool) {
	var res Result
	var ok bool

	if duration > separationLimit {
		// A long gap starts or ends a frame; the first gap of a repeat must
		// match the one recorded before it.
		if d.repeatCount == 0 || diff(duration, d.timings[0]) < 200 {
			d.repeatCount++
			if d.repeatCount == 2 {
				for p := uint8(1); int(p) <= Protocols; p++ {
					if res, ok = d.decode(p); ok {
						break
					}
				}
				d.repeatCount = 0
			}
		}
		d.changeCount = 0
	}

	if d.changeCount >= maxChanges {
		d.changeCount = 0
		d.repeatCount = 0
	}
	d.timings[d.changeCount] = duration
	d.changeCount++
	return res, ok
}

// Reset drops any partial frame.
func (d *Decoder) Reset() {
	d.changeCount = 0
	d.repeatCount = 0
}

func (d *Decoder) decode(protocol uint8) (Result, bool) {
	p, ok := Lookup(protocol)
	if !ok || p.Sync.Low == 0 {
		return Result{}, false
	}
	// Need at least 4 bits, plus the gap and the trailing sync high.
	if d.changeCount <= 7 {
		return Result{}, false
	}

	delay := d.timings[0] / uint32(p.Sync.Low)
	tol := delay * tolerance / 100

	var code uint64
	for i := 1; i < d.changeCount-1; i += 2 {
		code <<= 1
		hi, lo := d.timings[i], d.timings[i+1]
		switch {
		case diff(hi, delay*uint32(p.Zero.High)) < tol && diff(lo, delay*uint32(p.Zero.Low)) < tol:
		case diff(hi, delay*uint32(p.One.High)) < tol && diff(lo, delay*uint32(p.One.Low)) < tol:
			code |= 1
		default:
			return Result{}, false
		}
	}

	return Result{
		Value:       code,
		BitLength:   uint8((d.changeCount - 1) / 2),
		Protocol:    protocol,
		PulseLength: uint16(delay),
	}, true
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
