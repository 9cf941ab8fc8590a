package timer

import "time"

// Delay fires a callback once after a fixed duration.
// All methods must be called from the owner's goroutine.
type Delay struct {
	// dispatch moves timer expiry onto the owner's goroutine.
	dispatch Dispatch
	// pending is the runtime timer of the current run.
	pending *time.Timer
	// generation identifies the current run; stale expiries compare unequal.
	generation uint64
	// active is true between Start and expiry or Cancel.
	active bool
}

// NewDelay creates an idle delay.
func NewDelay(dispatch Dispatch) *Delay {
	return &Delay{dispatch: dispatch}
}

// Start schedules fn to run after d, cancelling any earlier run first.
func (d *Delay) Start(after time.Duration, fn func()) {
	d.Cancel()

	d.active = true
	generation := d.generation

	d.pending = time.AfterFunc(after, func() {
		d.dispatch(func() {
			if generation != d.generation || !d.active {
				return
			}

			d.active = false
			d.pending = nil

			fn()
		})
	})
}

// Cancel stops the current run. Calling it on an idle delay is a no-op.
func (d *Delay) Cancel() {
	d.generation++

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}

	d.active = false
}

// Active reports whether a run is pending.
func (d *Delay) Active() bool {
	return d.active
}
