// Package narrative plays the typed failure screens of the kiosk.
//
// A Script is typed one character at a time; every finished line is held on
// screen before it is committed and the next one starts. All timing goes
// through timer.Delay, so a Typewriter must be driven from the event loop.
package narrative
