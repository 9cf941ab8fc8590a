// Package watcher implements the "monitor" command: it follows the snapshots
// of a running kiosk over the monitor gRPC API and prints them, reconnecting
// while the kiosk is restarted.
package watcher
