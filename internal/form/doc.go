// Package form validates the control panel form.
//
// Raw field values arrive as strings keyed by field name; Validate either
// returns a ParameterSet or a map of per-field error messages. The ranges
// enforced here are the form's own limits. Safety ceilings are checked at
// runtime by the sequencer, not here.
package form
