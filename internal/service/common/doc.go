// Package common holds helpers shared by several services.
//
// It provides a lightweight client of the panel monitor API with call
// timeouts, and detects the current system actor (hostname/username) that a
// monitor announces to the kiosk.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
