package auth

import (
	"errors"
	"time"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
)

// FieldPassword is the name of the password field.
const FieldPassword = "password"

// Messages shown by the login screen.
const (
	MsgAuthorizationRequired = "AUTHORIZATION REQUIRED"
	MsgAccessDenied          = "ACCESS DENIED"
	MsgNoDevice              = "NO DEVICE FOUND"
)

// DefaultDelay is the "authenticating" pause before a result is shown.
const DefaultDelay = 1500 * time.Millisecond

// ErrEmptyPassword is returned by NewChecker when no password is configured.
var ErrEmptyPassword = errors.New("auth password must not be empty")

// Status is the outcome of a login attempt.
type Status int

const (
	// Invalid means the form itself had errors; no check was made.
	Invalid Status = iota
	// Granted means both the password and the coordinates match.
	Granted
	// Denied means the coordinates match but the password does not.
	Denied
	// NoDevice means the coordinates do not match.
	NoDevice
)

// String returns a lower-case name for logs.
func (s Status) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case NoDevice:
		return "no-device"
	default:
		return "unknown"
	}
}

// Credentials are the expected login values.
type Credentials struct {
	Password    string            `yaml:"password"`
	Coordinates panel.Coordinates `yaml:"device_coordinates"`
}

// Input is the raw login form.
type Input struct {
	Password string
	X        string
	Y        string
	Z        string
}

// Result is the answer of Check.
type Result struct {
	// Status is the outcome.
	Status Status
	// Errors holds field messages; the password field carries the denial text.
	Errors form.FieldErrors
}

// Banner returns the line shown under the form for the result.
func (r Result) Banner() string {
	switch r.Status {
	case Granted:
		return "SUCCESSFULLY AUTHENTICATED"
	case Denied:
		return "CONNECTION ESTABLISHED - UNAUTHORIZED CREDENTIALS DETECTED"
	case NoDevice:
		return "NO DEVICE FOUND AT GIVEN COORDINATES"
	case Invalid:
	}

	return ""
}

// Checker validates login attempts.
type Checker struct {
	credentials Credentials
}

// NewChecker creates a checker for credentials.
func NewChecker(credentials Credentials) (*Checker, error) {
	if credentials.Password == "" {
		return nil, ErrEmptyPassword
	}

	return &Checker{credentials: credentials}, nil
}

// Check validates the form and compares it against the credentials.
// Coordinates are compared exactly.
func (c *Checker) Check(in Input) Result {
	errs := make(form.FieldErrors)

	if in.Password == "" {
		errs[FieldPassword] = MsgAuthorizationRequired
	}

	axis := func(field, raw string) float64 {
		value, ok := form.ParseNumber(raw)
		if !ok || value < 0 {
			errs[field] = form.MsgInvalidCoordinate
		}

		return value
	}

	coordinates := panel.Coordinates{
		X: axis(form.FieldX, in.X),
		Y: axis(form.FieldY, in.Y),
		Z: axis(form.FieldZ, in.Z),
	}

	if len(errs) > 0 {
		return Result{Status: Invalid, Errors: errs}
	}

	switch {
	case !coordinates.Equal(c.credentials.Coordinates):
		return Result{Status: NoDevice, Errors: form.FieldErrors{FieldPassword: MsgNoDevice}}
	case in.Password != c.credentials.Password:
		return Result{Status: Denied, Errors: form.FieldErrors{FieldPassword: MsgAccessDenied}}
	}

	return Result{Status: Granted}
}
