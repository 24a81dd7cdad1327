// Package clock holds the millisecond arithmetic shared by every timed
// subsystem of the control loop.
//
// Timestamps are uint32 milliseconds since boot and wrap at 2^32. All
// comparisons are done on the difference now-last, which stays correct
// across the wrap as long as the real gap is below 2^32 ms.
package clock

// Elapsed returns the number of milliseconds from last to now.
func Elapsed(now, last uint32) uint32 {
	return now - last
}

// Due reports whether at least interval ms passed between last and now.
func Due(now, last, interval uint32) bool {
	return Elapsed(now, last) >= interval
}

// Gate enforces a minimum spacing between runs of a repeating action.
//
// A zero Gate (or one that was Reset) is open: the next Ready call returns
// true regardless of the clock value.
type Gate struct {
	Interval uint32

	last    uint32
	stamped bool
}

// NewGate returns an open gate with the given interval.
func NewGate(interval uint32) Gate {
	return Gate{Interval: interval}
}

// Ready reports whether the action may run at now.
func (g *Gate) Ready(now uint32) bool {
	if !g.stamped {
		return true
	}
	return Due(now, g.last, g.Interval)
}

// Stamp records a run at now.
func (g *Gate) Stamp(now uint32) {
	g.last = now
	g.stamped = true
}

// Reset reopens the gate so the next Ready call passes.
func (g *Gate) Reset() {
	g.last = 0
	g.stamped = false
}

// Last returns the time of the last recorded run and whether there was one.
func (g *Gate) Last() (uint32, bool) {
	return g.last, g.stamped
}

// Take stamps and returns true if the gate is ready at now.
func (g *Gate) Take(now uint32) bool {
	if !g.Ready(now) {
		return false
	}
	g.Stamp(now)
	return true
}
