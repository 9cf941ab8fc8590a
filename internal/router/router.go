package router

import (
	"errors"
	"fmt"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

// Screen is a kiosk screen path.
type Screen string

// Known screens.
const (
	ScreenAntenna         Screen = "/antenna"
	ScreenLogin           Screen = "/login"
	ScreenWarn            Screen = "/warn"
	ScreenPanel           Screen = "/panel"
	ScreenSystemDestroyed Screen = "/system-destroyed"
	ScreenEarthDestroyed  Screen = "/earth-destroyed"
)

// ErrUnknownNavigation is returned for a navigation request no screen is mapped to.
var ErrUnknownNavigation = errors.New("unknown navigation request")

// screens is the static screen table; the value tells whether login is required.
var screens = map[Screen]bool{
	ScreenAntenna:         false,
	ScreenLogin:           false,
	ScreenWarn:            true,
	ScreenPanel:           true,
	ScreenSystemDestroyed: false,
	ScreenEarthDestroyed:  false,
}

// outcomes maps panel navigation requests to screens.
var outcomes = map[panel.Navigation]Screen{
	panel.NavigateSettled:      ScreenPanel,
	panel.NavigateOverheat:     ScreenSystemDestroyed,
	panel.NavigateTargetStruck: ScreenEarthDestroyed,
}

// Observer is notified after the current screen changed.
type Observer func(from, to Screen)

// Router tracks the current screen. It is owned by the event loop and
// is not safe for concurrent use.
type Router struct {
	current       Screen
	authenticated bool
	observers     []Observer
}

// New creates a router showing the antenna warning.
func New() *Router {
	return &Router{current: ScreenAntenna}
}

// Known reports whether path is in the screen table.
func Known(path string) bool {
	_, ok := screens[Screen(path)]

	return ok
}

// Subscribe registers an observer of screen changes.
func (r *Router) Subscribe(observer Observer) {
	r.observers = append(r.observers, observer)
}

// Current returns the screen being shown.
func (r *Router) Current() Screen {
	return r.current
}

// Authenticate opens the login gate for the rest of the process lifetime.
func (r *Router) Authenticate() {
	r.authenticated = true
}

// Authenticated reports whether the login gate is open.
func (r *Router) Authenticated() bool {
	return r.authenticated
}

// Resolve returns the screen path leads to. Unknown paths lead to the
// antenna warning and protected screens lead to the login while the gate is closed.
func (r *Router) Resolve(path string) Screen {
	protected, ok := screens[Screen(path)]

	switch {
	case !ok:
		return ScreenAntenna
	case protected && !r.authenticated:
		return ScreenLogin
	}

	return Screen(path)
}

// Navigate switches to the screen path resolves to and returns it.
// Observers are only notified when the screen actually changes.
func (r *Router) Navigate(path string) Screen {
	next := r.Resolve(path)
	if next == r.current {
		return next
	}

	previous := r.current
	r.current = next

	for _, observer := range r.observers {
		observer(previous, next)
	}

	return next
}

// RequestNavigation maps a panel outcome to its screen and navigates there.
func (r *Router) RequestNavigation(nav panel.Navigation) error {
	screen, ok := outcomes[nav]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNavigation, nav)
	}

	r.Navigate(string(screen))

	return nil
}
