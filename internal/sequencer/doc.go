// Package sequencer implements the detonation control sequencer, the stage
// machine behind the control panel screen.
//
// A Sequencer validates the form, heats the core with a timer.Ramp, arms the
// launch, runs the firing phase with a timer.Delay and resolves the outcome:
// a clean shot settles and resets, an overheat or overpressure escapes to the
// system failure screen, and an exact hit on the hidden target escapes to the
// planet destroyed screen. Escapes are reported through a Navigator and end
// the instance; each panel visit gets a new Sequencer.
//
// Every method must be called on the goroutine behind the Dispatch function
// the Sequencer was built with, normally the kiosk's event loop.
package sequencer
