package timer

// Dispatch hands a callback to the goroutine that owns the timer state.
// It reports whether the callback was accepted.
type Dispatch func(task func()) bool
