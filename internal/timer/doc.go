// Package timer provides the cancellable timers owned by a panel visit.
//
// Ramp drives a reading toward a target in fixed steps; Delay fires once
// after a fixed dwell. Both deliver callbacks through a Dispatch function
// (normally eventloop.Loop.Post) and stamp every scheduled callback with a
// generation number, so a callback that was already in flight when the
// timer was cancelled or restarted does nothing.
package timer
