package timer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidStep is returned for a non-positive or non-finite step.
	ErrInvalidStep = errors.New("ramp step must be a positive number")
	// ErrInvalidInterval is returned for a non-positive tick interval.
	ErrInvalidInterval = errors.New("ramp tick interval must be positive")
)

// RampSpec describes one ramp run.
type RampSpec struct {
	// From is the reading before the first tick.
	From float64
	// To is the reading the ramp settles on.
	To float64
	// Step is added on every tick.
	Step float64
	// Interval is the delay between ticks.
	Interval time.Duration
	// Ceiling is the safety limit; a tick reaching it aborts the run.
	Ceiling float64
}

// Validate checks that the spec can make progress.
func (s RampSpec) Validate() error {
	if !(s.Step > 0) || math.IsInf(s.Step, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, s.Step)
	}

	if s.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, s.Interval)
	}

	return nil
}

// RampCallbacks receive the progress of a run. Nil callbacks are skipped.
type RampCallbacks struct {
	// OnTick receives every new value, including the final one.
	OnTick func(value float64)
	// OnComplete fires once when the value reaches To.
	OnComplete func(value float64)
	// OnCeilingExceeded fires once when a tick meets or exceeds Ceiling.
	OnCeilingExceeded func(value float64)
}

// Ramp moves a reading toward a target in fixed steps on a fixed interval.
// All methods must be called from the owner's goroutine.
type Ramp struct {
	// dispatch moves ticks onto the owner's goroutine.
	dispatch Dispatch
	// spec is the current run.
	spec RampSpec
	// callbacks are the listeners of the current run.
	callbacks RampCallbacks
	// pending is the runtime timer for the next tick.
	pending *time.Timer
	// value is the latest reading.
	value float64
	// ticks counts ticks of the current run.
	ticks int
	// generation identifies the current run; stale ticks compare unequal.
	generation uint64
	// active is true between Start and the run's end or Cancel.
	active bool
}

// NewRamp creates an idle ramp.
func NewRamp(dispatch Dispatch) *Ramp {
	return &Ramp{dispatch: dispatch}
}

// Start begins a new run, cancelling any earlier one first.
func (r *Ramp) Start(spec RampSpec, callbacks RampCallbacks) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	r.Cancel()

	r.spec = spec
	r.callbacks = callbacks
	r.value = spec.From
	r.ticks = 0
	r.active = true

	r.schedule()

	return nil
}

// Cancel stops the current run; no callback of that run fires afterwards.
// Calling it on an idle ramp is a no-op.
func (r *Ramp) Cancel() {
	r.generation++

	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}

	r.active = false
}

// Active reports whether a run is in progress.
func (r *Ramp) Active() bool {
	return r.active
}

// Value returns the latest reading. It is frozen while the ramp is idle.
func (r *Ramp) Value() float64 {
	return r.value
}

// schedule arms the runtime timer for the next tick of the current run.
func (r *Ramp) schedule() {
	generation := r.generation

	r.pending = time.AfterFunc(r.spec.Interval, func() {
		r.dispatch(func() { r.tick(generation) })
	})
}

// tick advances the run by one step.
func (r *Ramp) tick(generation uint64) {
	if generation != r.generation || !r.active {
		return
	}

	r.pending = nil
	r.ticks++

	next := r.spec.From + float64(r.ticks)*r.spec.Step
	if next >= r.spec.To {
		next = math.Max(r.spec.To, r.spec.From)
	}

	if next >= r.spec.Ceiling {
		r.active = false
		r.value = next

		if r.callbacks.OnCeilingExceeded != nil {
			r.callbacks.OnCeilingExceeded(next)
		}

		return
	}

	r.value = next

	if r.callbacks.OnTick != nil {
		r.callbacks.OnTick(next)
	}

	// OnTick may have cancelled or restarted the ramp.
	if generation != r.generation {
		return
	}

	if next >= r.spec.To || r.spec.To <= r.spec.From {
		r.active = false

		if r.callbacks.OnComplete != nil {
			r.callbacks.OnComplete(next)
		}

		return
	}

	r.schedule()
}
