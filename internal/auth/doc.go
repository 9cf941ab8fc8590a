// Package auth implements the offline login check of the kiosk.
//
// The check compares a password and the device coordinates against the
// configured credentials. It never talks to the network.
package auth
