// Package eventloop implements the single-threaded host loop of the kiosk.
//
// Every timer callback, input event and sequencer transition runs as a task
// on one goroutine, so the panel state needs no locks. Other goroutines
// hand work to the loop with Post, or with Do when they need to wait.
package eventloop
