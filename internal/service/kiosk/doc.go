// Package kiosk runs the Brie Blaster terminal kiosk.
//
// Run loads the settings, takes the single-instance marker, and then runs
// three things under one errgroup: the event loop owning all kiosk state,
// the monitor gRPC server and the terminal UI. The first of them to fail or
// quit stops the others; the loop tears down every live timer before it exits.
package kiosk
