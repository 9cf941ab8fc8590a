package panel

import "time"

// Coordinates is a target position in the device's frame, in lightyears.
type Coordinates struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Equal reports whether c and other match exactly on all three axes.
// No tolerance is applied.
func (c Coordinates) Equal(other Coordinates) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// ParameterSet is one validated submission of the control form.
type ParameterSet struct {
	// Coordinates is where the blaster is aimed.
	Coordinates Coordinates
	// CoreHeat is the requested core temperature in kelvin.
	CoreHeat float64
	// DetonationPressure is the requested chamber pressure in GPa.
	DetonationPressure float64
}

// SafetyCeilings are the limits whose breach destroys the device.
type SafetyCeilings struct {
	// MaxCoreHeat is the temperature the ramp must never meet.
	MaxCoreHeat float64 `yaml:"max_core_heat"`
	// MaxDetonationPressure is the pressure a launch must not exceed.
	MaxDetonationPressure float64 `yaml:"max_detonation_pressure"`
}

// Settings is the immutable configuration of one control panel.
type Settings struct {
	// Ceilings holds the safety limits.
	Ceilings SafetyCeilings
	// HiddenTarget is the exact coordinate triple that strikes the planet.
	HiddenTarget Coordinates
	// BaselineReading is the core temperature before any heating.
	BaselineReading float64
	// RampStep is the temperature increase applied on each tick.
	RampStep float64
	// TickInterval is the delay between two ramp ticks.
	TickInterval time.Duration
	// ActionDuration is how long the firing phase lasts.
	ActionDuration time.Duration
	// SettledDwell is how long the success status stays up before reset.
	SettledDwell time.Duration
}

// Outcome names how a firing cycle (or a heating run) ended.
type Outcome string

const (
	// OutcomeNone means no outcome has been resolved yet.
	OutcomeNone Outcome = ""
	// OutcomeSettled is a clean shot; the panel resets for another cycle.
	OutcomeSettled Outcome = "settled"
	// OutcomeOverheat is a core temperature breach during heating.
	OutcomeOverheat Outcome = "overheat"
	// OutcomeOverpressure is a pressure breach at launch resolution.
	OutcomeOverpressure Outcome = "overpressure"
	// OutcomeTargetStruck means the hidden target was hit.
	OutcomeTargetStruck Outcome = "target-struck"
)

// Navigation is the outcome signal understood by the router.
type Navigation string

const (
	// NavigateSettled keeps the operator on the control panel.
	NavigateSettled Navigation = "settled-default"
	// NavigateOverheat replaces the panel with the system failure screen.
	NavigateOverheat Navigation = "overheat-failure"
	// NavigateTargetStruck replaces the panel with the planet destroyed screen.
	NavigateTargetStruck Navigation = "target-struck-failure"
)

// Navigation returns the router request that corresponds to o.
// Overpressure shares the overheat failure path.
func (o Outcome) Navigation() Navigation {
	switch o {
	case OutcomeOverheat, OutcomeOverpressure:
		return NavigateOverheat
	case OutcomeTargetStruck:
		return NavigateTargetStruck
	default:
		return NavigateSettled
	}
}

// Terminal reports whether o ends the lifetime of the sequencer instance.
func (o Outcome) Terminal() bool {
	return o == OutcomeOverheat || o == OutcomeOverpressure || o == OutcomeTargetStruck
}
