package gate

import "time"

// Result is the answer to a press.
type Result int

const (
	// Started means the press started the countdown.
	Started Result = iota
	// Waiting means the countdown is still running.
	Waiting
	// Accepted means the press was accepted; it happens exactly once.
	Accepted
	// Closed means the gate already accepted a press.
	Closed
)

// String returns a lower-case name for logs.
func (r Result) String() string {
	switch r {
	case Started:
		return "started"
	case Waiting:
		return "waiting"
	case Accepted:
		return "accepted"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Gate accepts a press only after a dwell started by the first press.
// A zero dwell accepts the first press. Gate is not safe for concurrent use.
type Gate struct {
	dwell     time.Duration
	startedAt time.Time
	started   bool
	accepted  bool
}

// New creates a gate with the given dwell. Negative dwells count as zero.
func New(dwell time.Duration) *Gate {
	return &Gate{dwell: max(dwell, 0)}
}

// Press registers a press at now.
func (g *Gate) Press(now time.Time) Result {
	switch {
	case g.accepted:
		return Closed
	case g.dwell == 0:
		g.accepted = true

		return Accepted
	case !g.started:
		g.started = true
		g.startedAt = now

		return Started
	case g.Remaining(now) > 0:
		return Waiting
	}

	g.accepted = true

	return Accepted
}

// Remaining returns the time left before a press is accepted.
// Before the first press it returns the full dwell.
func (g *Gate) Remaining(now time.Time) time.Duration {
	if !g.started {
		return g.dwell
	}

	return max(g.dwell-now.Sub(g.startedAt), 0)
}

// Started reports whether the countdown has begun.
func (g *Gate) Started() bool {
	return g.started
}

// Accepted reports whether a press was accepted.
func (g *Gate) Accepted() bool {
	return g.accepted
}

// Dwell returns the configured dwell.
func (g *Gate) Dwell() time.Duration {
	return g.dwell
}
