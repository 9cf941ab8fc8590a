// Package panel contains the core domain types of the control panel.
//
// It defines the submitted ParameterSet, the Stage of the sequencer, the
// immutable Settings (safety ceilings, hidden target, ramp pacing) and the
// Snapshot value that renderers and the monitor API read.
package panel
