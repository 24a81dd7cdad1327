//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"rfpocket/app"
	"rfpocket/hal"
)

func main() {
	var hc hal.HostConfig
	var cfg hal.HeadlessConfig
	var pins string
	var clockStart, duration uint64
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.StringVar(&cfg.Scenario, "scenario", "", "YAML scenario to play in headless mode.")
	flag.Uint64Var(&duration, "duration", 0, "Stop after N ms of simulated time in headless mode (0 = scenario end, or forever).")
	flag.BoolVar(&cfg.Realtime, "realtime", false, "Use the wall clock in headless mode.")
	flag.BoolVar(&hc.LinkFault, "link-fault", false, "Start with the radio TX line disconnected.")
	flag.BoolVar(&hc.NoDisplay, "no-display", false, "Fail display init to exercise the fatal boot path.")
	flag.Uint64Var(&clockStart, "clock-start", 0, "Initial millisecond clock value (try 4294960000 to cross the wrap).")
	flag.IntVar(&hc.Scale, "scale", 4, "Window pixel scale.")
	flag.StringVar(&hc.LogPath, "log", "", "Append diagnostics to this file instead of stdout.")
	flag.StringVar(&hc.GPIO, "gpio", "virtual", "Pin backend: virtual or periph.")
	flag.StringVar(&pins, "pins", "", "periph pin names, e.g. up=GPIO5,down=GPIO6,select=GPIO13,back=GPIO19,tx=GPIO17,rx=GPIO27")
	flag.Parse()

	hc.ClockStart = uint32(clockStart)
	cfg.Duration = uint32(duration)
	if pins != "" {
		p, err := parsePins(pins)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		hc.Periph = p
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err := hal.RunHeadless(ctx, app.Run, hc, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(app.Run, hc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parsePins(s string) (hal.PeriphPins, error) {
	var p hal.PeriphPins
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok || v == "" {
			return p, fmt.Errorf("pins: bad entry %q", kv)
		}
		switch strings.ToLower(k) {
		case "up":
			p.Up = v
		case "down":
			p.Down = v
		case "select", "ok":
			p.Select = v
		case "back":
			p.Back = v
		case "tx":
			p.TX = v
		case "rx":
			p.RX = v
		default:
			return p, fmt.Errorf("pins: unknown pin %q", k)
		}
	}
	return p, nil
}
