//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

// hostClock is a Clock whose Sleep can notify the simulator.
type hostClock interface {
	Clock
	onSleep(fn func(now uint32))
}

type realClock struct {
	t0    time.Time
	start uint32
	hook  func(now uint32)
}

func newRealClock(start uint32) *realClock {
	return &realClock{t0: time.Now(), start: start}
}

func (c *realClock) Millis() uint32 {
	return c.start + uint32(time.Since(c.t0)/time.Millisecond)
}

func (c *realClock) Sleep(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	if c.hook != nil {
		c.hook(c.Millis())
	}
}

func (c *realClock) onSleep(fn func(now uint32)) { c.hook = fn }

// virtualClock only moves when slept on, one millisecond at a time, so
// headless runs are deterministic and faster than real time.
type virtualClock struct {
	mu   sync.Mutex
	now  uint32
	hook func(now uint32)
}

func newVirtualClock(start uint32) *virtualClock {
	return &virtualClock{now: start}
}

func (c *virtualClock) Millis() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Sleep(ms uint32) {
	for i := uint32(0); i < ms; i++ {
		c.mu.Lock()
		c.now++
		now := c.now
		hook := c.hook
		c.mu.Unlock()
		if hook != nil {
			hook(now)
		}
	}
}

func (c *virtualClock) onSleep(fn func(now uint32)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = fn
}
