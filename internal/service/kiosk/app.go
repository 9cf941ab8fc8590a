package kiosk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/config"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/eventloop"
	"github.com/oshokin/brie-blaster/internal/form"
	"github.com/oshokin/brie-blaster/internal/gate"
	"github.com/oshokin/brie-blaster/internal/logger"
	"github.com/oshokin/brie-blaster/internal/narrative"
	"github.com/oshokin/brie-blaster/internal/router"
	"github.com/oshokin/brie-blaster/internal/sequencer"
	"github.com/oshokin/brie-blaster/internal/timer"
	"github.com/oshokin/brie-blaster/internal/ui"
)

// countdownRefresh is how often a running warning countdown is redrawn.
const countdownRefresh = time.Second

// app is the kiosk state. Every method except the controller wrappers must
// run on the event loop.
type app struct {
	ctx  context.Context
	loop *eventloop.Loop
	cfg  *config.Config

	router     *router.Router
	antenna    *gate.Gate
	safety     *gate.Gate
	checker    *auth.Checker
	validator  *form.Validator
	sequencer  *sequencer.Sequencer
	typewriter *narrative.Typewriter

	// countdown redraws the antenna countdown.
	countdown *timer.Delay
	// authenticating runs the login delay.
	authenticating *timer.Delay

	broadcaster *broadcaster
	// snapshot is the latest panel snapshot, kept after the visit ends.
	snapshot panel.Snapshot
	// view is the last rendered view.
	view ui.View
	// render receives every new view; may be nil.
	render func(ui.View)
	// newSessionID names panel visits.
	newSessionID func() string
}

// newApp builds the kiosk state from a validated configuration.
func newApp(ctx context.Context, cfg *config.Config, loop *eventloop.Loop) (*app, error) {
	checker, err := auth.NewChecker(cfg.Credentials())
	if err != nil {
		return nil, fmt.Errorf("create auth checker: %w", err)
	}

	if err = sequencer.ValidateSettings(cfg.PanelSettings()); err != nil {
		return nil, err
	}

	settings := cfg.PanelSettings()
	initial := panel.Snapshot{
		Stage:          panel.StageIdle,
		CurrentReading: settings.BaselineReading,
		Status:         panel.StageIdle.Status(),
		Screen:         string(router.ScreenAntenna),
		UpdatedAt:      time.Now(),
	}

	a := &app{
		ctx:            ctx,
		loop:           loop,
		cfg:            cfg,
		router:         router.New(),
		antenna:        gate.New(cfg.Gates.AntennaDwell),
		safety:         gate.New(cfg.Gates.SafetyDwell),
		checker:        checker,
		validator:      form.NewValidator(cfg.FormRules()),
		typewriter:     narrative.NewTypewriter(loop.Post),
		countdown:      timer.NewDelay(loop.Post),
		authenticating: timer.NewDelay(loop.Post),
		broadcaster:    newBroadcaster(initial),
		snapshot:       initial,
		newSessionID:   uuid.NewString,
	}

	a.router.Subscribe(a.onScreenChange)

	a.view = ui.View{
		Screen: a.router.Current(),
		Panel: ui.PanelView{
			Snapshot: initial,
			Rules:    cfg.FormRules(),
			Ceilings: settings.Ceilings,
		},
	}

	return a, nil
}

// start renders the first screen.
func (a *app) start() {
	logger.InfoKV(a.ctx, "Kiosk started", "screen", string(a.router.Current()))
	a.publish()
}

// stop cancels every live timer and closes the monitor streams.
func (a *app) stop() {
	a.countdown.Cancel()
	a.authenticating.Cancel()
	a.typewriter.Cancel()
	a.leavePanel()
	a.broadcaster.Close()

	logger.Info(a.ctx, "Kiosk stopped")
}

// pressAntenna handles the antenna warning button.
func (a *app) pressAntenna() {
	if a.router.Current() != router.ScreenAntenna {
		return
	}

	result := a.antenna.Press(time.Now())
	logger.DebugKV(a.ctx, "Antenna warning pressed", "result", result.String())

	switch result {
	case gate.Started, gate.Waiting:
		a.tickCountdown()
	case gate.Accepted:
		a.countdown.Cancel()
		a.refreshGates()
		a.router.Navigate(string(router.ScreenLogin))
	case gate.Closed:
	}
}

// tickCountdown redraws the countdown and re-arms itself while it runs.
func (a *app) tickCountdown() {
	a.refreshGates()
	a.publish()

	if remaining := a.antenna.Remaining(time.Now()); remaining > 0 {
		a.countdown.Start(min(remaining, countdownRefresh), a.tickCountdown)
	}
}

// submitLogin starts the authentication delay.
func (a *app) submitLogin(in auth.Input) {
	if a.router.Current() != router.ScreenLogin || a.authenticating.Active() {
		return
	}

	a.view.Login = ui.LoginView{Pending: true}
	a.publish()

	a.authenticating.Start(a.cfg.Auth.Delay, func() {
		a.finishLogin(in)
	})
}

// finishLogin checks the credentials once the delay elapsed.
func (a *app) finishLogin(in auth.Input) {
	result := a.checker.Check(in)

	logger.InfoKV(a.ctx, "Login attempt", "status", result.Status.String())

	a.view.Login = ui.LoginView{
		Status: result.Status,
		Errors: result.Errors,
		Banner: result.Banner(),
	}

	if result.Status != auth.Granted {
		a.publish()

		return
	}

	a.router.Authenticate()
	a.router.Navigate(string(router.ScreenWarn))
}

// pressSafety handles the safety warning button.
func (a *app) pressSafety() {
	if a.router.Current() != router.ScreenWarn {
		return
	}

	if a.safety.Press(time.Now()) != gate.Accepted {
		a.refreshGates()
		a.publish()

		return
	}

	a.router.Navigate(string(router.ScreenPanel))
}

// submitPanel forwards the control form to the sequencer of the visit.
func (a *app) submitPanel(in form.Input) {
	if a.router.Current() != router.ScreenPanel || a.sequencer == nil {
		return
	}

	result := a.sequencer.Submit(in)

	switch result.Status {
	case sequencer.SubmitRejected:
		a.view.Panel.Errors = result.Errors
		a.publish()
	case sequencer.SubmitAccepted:
		a.view.Panel.Errors = nil
		a.publish()
	case sequencer.SubmitIgnored:
	}
}

// onScreenChange tears down the screen being left and prepares the next one.
func (a *app) onScreenChange(from, to router.Screen) {
	logger.InfoKV(a.ctx, "Screen changed", "from", string(from), "to", string(to))

	switch from {
	case router.ScreenPanel:
		a.leavePanel()
	case router.ScreenLogin:
		a.authenticating.Cancel()
	case router.ScreenSystemDestroyed, router.ScreenEarthDestroyed:
		a.typewriter.Cancel()
	case router.ScreenAntenna, router.ScreenWarn:
	}

	switch to {
	case router.ScreenPanel:
		a.enterPanel()
	case router.ScreenSystemDestroyed:
		a.typewriter.Play(narrative.SystemDestroyed(), a.onFrame)
	case router.ScreenEarthDestroyed:
		a.typewriter.Play(narrative.EarthDestroyed(), a.onFrame)
	case router.ScreenAntenna, router.ScreenLogin, router.ScreenWarn:
	}

	a.view.Screen = to
	a.snapshot.Screen = string(to)
	a.snapshot.UpdatedAt = time.Now()
	a.broadcaster.Publish(a.snapshot)
	a.publish()
}

// enterPanel creates the sequencer of a new visit.
func (a *app) enterPanel() {
	sessionID := a.newSessionID()

	seq, err := sequencer.New(a.ctx, a.loop.Post, a.cfg.PanelSettings(), a.validator, a.router,
		sequencer.WithSessionID(sessionID),
		sequencer.WithListener(a.onSnapshot),
	)
	if err != nil {
		// Settings were validated in newApp.
		logger.ErrorKV(a.ctx, "Unable to create sequencer", "error", err)

		return
	}

	a.sequencer = seq
	a.view.Panel.Errors = nil
	a.snapshot = seq.Snapshot()
	a.snapshot.Screen = string(router.ScreenPanel)
	a.view.Panel.Snapshot = a.snapshot

	logger.InfoKV(a.ctx, "Panel visit started", "session_id", sessionID)
}

// leavePanel discards the sequencer of the visit.
func (a *app) leavePanel() {
	if a.sequencer == nil {
		return
	}

	a.sequencer.Teardown()
	a.sequencer = nil
}

// onSnapshot receives sequencer snapshots.
func (a *app) onSnapshot(s panel.Snapshot) {
	s.Screen = string(a.router.Current())
	a.snapshot = s
	a.view.Panel.Snapshot = s
	a.broadcaster.Publish(s)
	a.publish()
}

// onFrame receives typewriter frames.
func (a *app) onFrame(frame narrative.Frame) {
	a.view.Narrative = frame
	a.publish()
}

// refreshGates copies the gate state into the view.
func (a *app) refreshGates() {
	now := time.Now()

	a.view.Antenna = ui.GateView{
		Started:   a.antenna.Started(),
		Accepted:  a.antenna.Accepted(),
		Remaining: a.antenna.Remaining(now),
	}

	a.view.Safety = ui.GateView{
		Started:   a.safety.Started(),
		Accepted:  a.safety.Accepted(),
		Remaining: a.safety.Remaining(now),
	}
}

// publish hands a copy of the view to the renderer.
func (a *app) publish() {
	if a.render == nil {
		return
	}

	view := a.view
	view.Panel.Snapshot = *a.view.Panel.Snapshot.Clone()
	view.Narrative.Lines = append([]string(nil), a.view.Narrative.Lines...)

	a.render(view)
}

// controller posts operator input onto the event loop.
type controller struct {
	app *app
}

var _ ui.Controller = controller{}

// PressAntenna posts an antenna warning press.
func (c controller) PressAntenna() {
	c.app.loop.Post(c.app.pressAntenna)
}

// SubmitLogin posts a login submit.
func (c controller) SubmitLogin(in auth.Input) {
	c.app.loop.Post(func() { c.app.submitLogin(in) })
}

// PressSafety posts a safety warning press.
func (c controller) PressSafety() {
	c.app.loop.Post(c.app.pressSafety)
}

// SubmitPanel posts a control form submit.
func (c controller) SubmitPanel(in form.Input) {
	c.app.loop.Post(func() { c.app.submitPanel(in) })
}
