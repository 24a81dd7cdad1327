//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultHold is how long a scripted press keeps the button down, in ms.
const defaultHold = 80

// Scenario is a timed script of simulator inputs for headless runs.
//
//	duration: 6000
//	events:
//	  - {at: 800, press: select}
//	  - {at: 1500, capture: {value: 0xABCD12, bits: 24, protocol: 1, pulse: 350}}
//	  - {at: 4000, link_fault: true}
type Scenario struct {
	// Duration is the run length in ms; 0 runs until the last event plus one
	// link recheck interval.
	Duration uint32          `yaml:"duration"`
	Events   []ScenarioEvent `yaml:"events"`
}

// ScenarioEvent fires at At ms after the simulation starts.
type ScenarioEvent struct {
	At        uint32           `yaml:"at"`
	Press     string           `yaml:"press,omitempty"`
	Hold      uint32           `yaml:"hold,omitempty"`
	Capture   *ScenarioCapture `yaml:"capture,omitempty"`
	LinkFault *bool            `yaml:"link_fault,omitempty"`
}

// ScenarioCapture is injected into the simulated receiver.
type ScenarioCapture struct {
	Value    uint64 `yaml:"value"`
	Bits     uint8  `yaml:"bits"`
	Protocol uint8  `yaml:"protocol"`
	Pulse    uint16 `yaml:"pulse"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i, ev := range sc.Events {
		n := 0
		if ev.Press != "" {
			n++
			if _, ok := buttonPinByName(ev.Press); !ok {
				return nil, fmt.Errorf("event %d: unknown button %q", i, ev.Press)
			}
		}
		if ev.Capture != nil {
			n++
			if ev.Capture.Bits == 0 || ev.Capture.Bits > 64 {
				return nil, fmt.Errorf("event %d: capture bits %d out of range", i, ev.Capture.Bits)
			}
		}
		if ev.LinkFault != nil {
			n++
		}
		if n != 1 {
			return nil, fmt.Errorf("event %d: want exactly one of press, capture, link_fault", i)
		}
	}
	return &sc, nil
}

// End returns the time the scenario stops, relative to its start.
func (sc *Scenario) End() uint32 {
	if sc.Duration > 0 {
		return sc.Duration
	}
	var last uint32
	for _, ev := range sc.Events {
		end := ev.At + ev.Hold
		if ev.Press != "" && ev.Hold == 0 {
			end += defaultHold
		}
		if end > last {
			last = end
		}
	}
	return last + 3000
}

func buttonPinByName(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "up":
		return PinButtonUp, true
	case "down":
		return PinButtonDown, true
	case "select", "ok":
		return PinButtonSelect, true
	case "back":
		return PinButtonBack, true
	default:
		return 0, false
	}
}

type scenarioAction struct {
	at    uint32
	apply func(sim Simulator)
}

// ScenarioPlayer applies a scenario's actions as simulated time passes.
type ScenarioPlayer struct {
	actions []scenarioAction
	next    int
}

// NewScenarioPlayer expands presses into down/up actions ordered by time.
func NewScenarioPlayer(sc *Scenario) *ScenarioPlayer {
	p := &ScenarioPlayer{}
	for _, ev := range sc.Events {
		ev := ev
		switch {
		case ev.Press != "":
			pin, _ := buttonPinByName(ev.Press)
			hold := ev.Hold
			if hold == 0 {
				hold = defaultHold
			}
			p.actions = append(p.actions,
				scenarioAction{at: ev.At, apply: func(sim Simulator) { sim.PressButton(pin, true) }},
				scenarioAction{at: ev.At + hold, apply: func(sim Simulator) { sim.PressButton(pin, false) }},
			)
		case ev.Capture != nil:
			c := Capture{
				Value:       ev.Capture.Value,
				BitLength:   ev.Capture.Bits,
				Protocol:    ev.Capture.Protocol,
				PulseLength: ev.Capture.Pulse,
			}
			p.actions = append(p.actions, scenarioAction{at: ev.At, apply: func(sim Simulator) { sim.InjectCapture(c) }})
		case ev.LinkFault != nil:
			open := *ev.LinkFault
			p.actions = append(p.actions, scenarioAction{at: ev.At, apply: func(sim Simulator) { sim.SetLinkFault(open) }})
		}
	}
	sort.SliceStable(p.actions, func(i, j int) bool { return p.actions[i].at < p.actions[j].at })
	return p
}

// Advance applies every action due at or before elapsed ms.
func (p *ScenarioPlayer) Advance(elapsed uint32, sim Simulator) int {
	n := 0
	for p.next < len(p.actions) && p.actions[p.next].at <= elapsed {
		p.actions[p.next].apply(sim)
		p.next++
		n++
	}
	return n
}

// Done reports whether every action has been applied.
func (p *ScenarioPlayer) Done() bool {
	return p.next >= len(p.actions)
}
