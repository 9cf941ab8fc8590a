// Package ui is the kiosk terminal front end.
//
// The kiosk pushes a View after every state change and the program renders
// it. Operator input goes back through a Controller; every controller call is
// issued from a tea.Cmd so a slow kiosk never stalls the render loop.
package ui
