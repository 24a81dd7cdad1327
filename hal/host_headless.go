//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Scenario is an optional YAML script path.
	Scenario string
	// Duration stops the run after this many ms of simulated time
	// (0 = scenario end, or forever without a scenario).
	Duration uint32
	// Realtime uses the wall clock instead of the stepped virtual clock.
	Realtime bool
}

// HeadlessResult summarizes a finished headless run.
type HeadlessResult struct {
	ElapsedMillis uint32
	Frames        uint64
	Sent          []SentFrame
}

// RunHeadless runs the firmware loop without opening a window.
//
// run must return when its context is done.
func RunHeadless(ctx context.Context, run func(context.Context, HAL) error, hc HostConfig, cfg HeadlessConfig) (HeadlessResult, error) {
	var sc *Scenario
	if cfg.Scenario != "" {
		var err error
		if sc, err = LoadScenario(cfg.Scenario); err != nil {
			return HeadlessResult{}, err
		}
	}

	hc.virtualClock = !cfg.Realtime
	h, err := newHostHAL(hc)
	if err != nil {
		return HeadlessResult{}, err
	}
	defer h.Close()

	until := cfg.Duration
	if until == 0 && sc != nil {
		until = sc.End()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var player *ScenarioPlayer
	if sc != nil {
		player = NewScenarioPlayer(sc)
	}
	start := h.clock.Millis()
	h.clock.onSleep(func(now uint32) {
		elapsed := now - start
		if player != nil {
			player.Advance(elapsed, h)
		}
		if until > 0 && elapsed >= until {
			cancel()
		}
	})

	err = run(ctx, h)
	res := HeadlessResult{
		ElapsedMillis: h.clock.Millis() - start,
		Frames:        h.disp.fb.presented(),
		Sent:          h.SentFrames(),
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return res, fmt.Errorf("headless: %w", err)
	}
	h.logger.WriteLineString(fmt.Sprintf("headless: %dms simulated, %d frames rendered, %d radio frames sent",
		res.ElapsedMillis, res.Frames, len(res.Sent)))
	return res, nil
}
