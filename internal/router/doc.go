// Package router holds the screen table of the kiosk, the login gate in front
// of the control screens and the mapping of panel outcomes to screens.
package router
