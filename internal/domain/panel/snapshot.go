package panel

import "time"

// Snapshot is a point-in-time copy of everything a renderer may show.
type Snapshot struct {
	// SessionID identifies the panel visit that produced the snapshot.
	SessionID string
	// Screen is the router path displayed when the snapshot was taken.
	Screen string
	// Stage is the sequencer stage.
	Stage Stage
	// CurrentReading is the simulated core temperature.
	CurrentReading float64
	// TargetReading is the heating target, or nil outside a heating cycle.
	TargetReading *float64
	// Status is the operator-facing status line.
	Status string
	// Outcome is the last resolved outcome of this visit.
	Outcome Outcome
	// UpdatedAt is when the snapshot was taken.
	UpdatedAt time.Time
}

// Clone returns a copy of the snapshot that shares no pointers with s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s

	if s.TargetReading != nil {
		target := *s.TargetReading
		cloned.TargetReading = &target
	}

	return &cloned
}
