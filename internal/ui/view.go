package ui

import (
	"time"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
	"github.com/oshokin/brie-blaster/internal/narrative"
	"github.com/oshokin/brie-blaster/internal/router"
)

// View is everything the terminal shows. The kiosk sends a fresh copy after
// every change; the UI never reads kiosk state directly.
type View struct {
	Screen    router.Screen
	Antenna   GateView
	Safety    GateView
	Login     LoginView
	Panel     PanelView
	Narrative narrative.Frame
}

// GateView describes a press-to-continue button.
type GateView struct {
	Started   bool
	Accepted  bool
	Remaining time.Duration
}

// LoginView describes the login form.
type LoginView struct {
	// Pending is set while the authentication delay runs.
	Pending bool
	Status  auth.Status
	Errors  form.FieldErrors
	Banner  string
}

// PanelView describes the control panel.
type PanelView struct {
	Snapshot panel.Snapshot
	// Errors are the field errors of the last rejected submit.
	Errors   form.FieldErrors
	Rules    form.Rules
	Ceilings panel.SafetyCeilings
}

// Controller receives operator input. Implementations must be safe to call
// from the UI goroutine and must not block on kiosk work.
type Controller interface {
	PressAntenna()
	SubmitLogin(in auth.Input)
	PressSafety()
	SubmitPanel(in form.Input)
}

// viewMsg carries a View into the bubbletea program.
type viewMsg View
