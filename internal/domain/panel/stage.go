package panel

// Stage is a state of the detonation control sequencer.
type Stage int

const (
	// StageIdle waits for heating parameters.
	StageIdle Stage = iota
	// StageWarming ramps the core toward the target temperature.
	StageWarming
	// StageArmed waits for the launch submit.
	StageArmed
	// StageActing runs the firing phase.
	StageActing
	// StageSettled shows the success status before resetting to idle.
	StageSettled
)

// String returns the upper-case stage name used in logs and the monitor API.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "IDLE"
	case StageWarming:
		return "WARMING"
	case StageArmed:
		return "ARMED"
	case StageActing:
		return "ACTING"
	case StageSettled:
		return "SETTLED"
	default:
		return "UNKNOWN"
	}
}

// ParseStage converts a name produced by String back into a Stage.
func ParseStage(name string) (Stage, bool) {
	for stage := StageIdle; stage <= StageSettled; stage++ {
		if stage.String() == name {
			return stage, true
		}
	}

	return StageIdle, false
}

// Status returns the operator-facing status line for the stage.
func (s Stage) Status() string {
	switch s {
	case StageIdle:
		return "AWAITING INPUT"
	case StageWarming:
		return "HEATING CORE"
	case StageArmed:
		return "CORE AT TEMPERATURE - READY TO FIRE"
	case StageActing:
		return "FIRING"
	case StageSettled:
		return "SYSTEM NOMINAL"
	default:
		return ""
	}
}

// AcceptsSubmit reports whether a form submit is handled in this stage.
// Submits during heating or firing are dropped, never queued.
func (s Stage) AcceptsSubmit() bool {
	return s != StageWarming && s != StageActing
}
