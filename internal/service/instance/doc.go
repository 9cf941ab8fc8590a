// Package instance keeps a second kiosk from starting on the same machine.
//
// The running kiosk records its PID in a marker file. A new kiosk refuses to
// start while that PID belongs to a live process with the same executable
// name, and takes the marker over when it is stale.
package instance
