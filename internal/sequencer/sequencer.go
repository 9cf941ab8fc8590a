package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
	"github.com/oshokin/brie-blaster/internal/logger"
	"github.com/oshokin/brie-blaster/internal/timer"
)

var (
	// errNilDispatch is returned when no dispatch function is provided.
	errNilDispatch = errors.New("dispatch function is required")
	// errNilValidator is returned when no form validator is provided.
	errNilValidator = errors.New("form validator is required")
	// errNilNavigator is returned when no navigator is provided.
	errNilNavigator = errors.New("navigator is required")
	// errInvalidSettings is returned for settings the sequencer cannot run with.
	errInvalidSettings = errors.New("invalid panel settings")
)

// Navigator receives the outcome navigation requests.
type Navigator interface {
	RequestNavigation(nav panel.Navigation) error
}

// SubmitStatus tells how a submit was handled.
type SubmitStatus int

const (
	// SubmitAccepted means the submit started heating or firing.
	SubmitAccepted SubmitStatus = iota
	// SubmitRejected means the form had field errors; the stage is unchanged.
	SubmitRejected
	// SubmitIgnored means the panel was busy or discarded; nothing happened.
	SubmitIgnored
)

// SubmitResult is the answer to a form submit.
type SubmitResult struct {
	// Status tells how the submit was handled.
	Status SubmitStatus
	// Errors holds the field errors of a rejected submit.
	Errors form.FieldErrors
	// Stage is the stage after the submit was handled.
	Stage panel.Stage
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithSessionID sets the id reported in snapshots and logs.
func WithSessionID(id string) Option {
	return func(s *Sequencer) {
		s.sessionID = id
	}
}

// WithListener registers a function receiving a snapshot after every change.
func WithListener(listener func(panel.Snapshot)) Option {
	return func(s *Sequencer) {
		s.listener = listener
	}
}

// Sequencer is the stage machine of one control panel visit.
type Sequencer struct {
	// ctx carries the logger of the visit.
	ctx context.Context
	// settings are the immutable ceilings, target and pacing.
	settings panel.Settings
	// validator checks submitted forms.
	validator *form.Validator
	// navigator receives outcome navigations.
	navigator Navigator
	// listener receives snapshots; may be nil.
	listener func(panel.Snapshot)
	// sessionID identifies the visit.
	sessionID string

	// ramp heats the core during StageWarming.
	ramp *timer.Ramp
	// delay paces StageActing and StageSettled.
	delay *timer.Delay

	// stage is the current stage.
	stage panel.Stage
	// current is the simulated core temperature.
	current float64
	// target is the heating target of the cycle, nil when idle.
	target *float64
	// launch holds the parameters of the pending or last launch.
	launch panel.ParameterSet
	// outcome is the last resolved outcome.
	outcome panel.Outcome
	// discarded is set once the instance was torn down.
	discarded bool
}

// New creates a Sequencer in StageIdle with the reading at the baseline.
func New(
	ctx context.Context,
	dispatch timer.Dispatch,
	settings panel.Settings,
	validator *form.Validator,
	navigator Navigator,
	opts ...Option,
) (*Sequencer, error) {
	switch {
	case dispatch == nil:
		return nil, errNilDispatch
	case validator == nil:
		return nil, errNilValidator
	case navigator == nil:
		return nil, errNilNavigator
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	s := &Sequencer{
		settings:  settings,
		validator: validator,
		navigator: navigator,
		ramp:      timer.NewRamp(dispatch),
		delay:     timer.NewDelay(dispatch),
		stage:     panel.StageIdle,
		current:   settings.BaselineReading,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.ctx = logger.WithFields(logger.WithName(ctx, "sequencer"), "session_id", s.sessionID)

	return s, nil
}

// ValidateSettings checks that the ramp and the dwell timers can run.
func ValidateSettings(settings panel.Settings) error {
	spec := timer.RampSpec{Step: settings.RampStep, Interval: settings.TickInterval}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidSettings, err)
	}

	if settings.ActionDuration < 0 || settings.SettledDwell < 0 {
		return fmt.Errorf("%w: negative dwell", errInvalidSettings)
	}

	return nil
}

// Submit handles a form submit according to the current stage.
// In StageIdle it starts heating; in StageArmed and StageSettled it fires.
// Submits while heating or firing are ignored.
func (s *Sequencer) Submit(in form.Input) SubmitResult {
	if s.discarded {
		return SubmitResult{Status: SubmitIgnored, Stage: s.stage}
	}

	switch s.stage {
	case panel.StageIdle:
		return s.beginWarming(in)
	case panel.StageArmed, panel.StageSettled:
		return s.beginLaunch(in)
	case panel.StageWarming, panel.StageActing:
		logger.DebugKV(s.ctx, "Submit ignored while busy", "stage", s.stage.String())
	}

	return SubmitResult{Status: SubmitIgnored, Stage: s.stage}
}

// Snapshot returns the data a renderer needs.
func (s *Sequencer) Snapshot() panel.Snapshot {
	snapshot := panel.Snapshot{
		SessionID:      s.sessionID,
		Stage:          s.stage,
		CurrentReading: s.current,
		Status:         s.stage.Status(),
		Outcome:        s.outcome,
		UpdatedAt:      time.Now(),
	}

	if s.target != nil {
		target := *s.target
		snapshot.TargetReading = &target
	}

	switch s.outcome {
	case panel.OutcomeOverheat:
		snapshot.Status = "CORE OVERHEATED"
	case panel.OutcomeOverpressure:
		snapshot.Status = "PRESSURE CRITICAL"
	case panel.OutcomeTargetStruck:
		snapshot.Status = "TARGET STRUCK"
	case panel.OutcomeNone, panel.OutcomeSettled:
	}

	return snapshot
}

// Stage returns the current stage.
func (s *Sequencer) Stage() panel.Stage {
	return s.stage
}

// Discarded reports whether the instance was torn down.
func (s *Sequencer) Discarded() bool {
	return s.discarded
}

// Teardown cancels every live timer and discards the instance.
// It is idempotent; later submits are ignored and no callback fires.
func (s *Sequencer) Teardown() {
	if s.discarded {
		return
	}

	s.ramp.Cancel()
	s.delay.Cancel()
	s.discarded = true

	logger.DebugKV(s.ctx, "Sequencer torn down", "stage", s.stage.String())
}

// beginWarming validates the heating form and starts the ramp.
func (s *Sequencer) beginWarming(in form.Input) SubmitResult {
	params, errs := s.validator.Validate(in)
	if len(errs) > 0 {
		return SubmitResult{Status: SubmitRejected, Errors: errs, Stage: s.stage}
	}

	target := params.CoreHeat
	s.target = &target
	s.outcome = panel.OutcomeNone
	s.delay.Cancel()

	spec := timer.RampSpec{
		From:     s.current,
		To:       target,
		Step:     s.settings.RampStep,
		Interval: s.settings.TickInterval,
		Ceiling:  s.settings.Ceilings.MaxCoreHeat,
	}

	callbacks := timer.RampCallbacks{
		OnTick:            s.onHeatTick,
		OnComplete:        s.onHeated,
		OnCeilingExceeded: s.onOverheat,
	}

	if err := s.ramp.Start(spec, callbacks); err != nil {
		// Settings were validated in New, so this only happens on a programming error.
		logger.ErrorKV(s.ctx, "Ramp refused to start", "error", err)

		s.target = nil

		return SubmitResult{Status: SubmitIgnored, Stage: s.stage}
	}

	s.enter(panel.StageWarming)

	return SubmitResult{Status: SubmitAccepted, Stage: s.stage}
}

// beginLaunch validates the launch form and starts the firing phase.
func (s *Sequencer) beginLaunch(in form.Input) SubmitResult {
	params, errs := s.validator.Validate(in)
	if len(errs) > 0 {
		return SubmitResult{Status: SubmitRejected, Errors: errs, Stage: s.stage}
	}

	s.launch = params
	s.outcome = panel.OutcomeNone
	s.ramp.Cancel()
	s.delay.Start(s.settings.ActionDuration, s.resolve)

	s.enter(panel.StageActing)

	return SubmitResult{Status: SubmitAccepted, Stage: s.stage}
}

// onHeatTick publishes a ramp step.
func (s *Sequencer) onHeatTick(value float64) {
	s.current = value
	s.publish()
}

// onHeated arms the launch once the target temperature is reached.
func (s *Sequencer) onHeated(value float64) {
	s.current = value
	s.enter(panel.StageArmed)
}

// onOverheat escapes when the ramp meets the heat ceiling.
func (s *Sequencer) onOverheat(value float64) {
	s.current = value
	s.escape(panel.OutcomeOverheat)
}

// resolve evaluates the launch once the firing phase has elapsed.
// Pressure is checked before the target so an overpressure shot never lands.
func (s *Sequencer) resolve() {
	switch {
	case s.launch.DetonationPressure > s.settings.Ceilings.MaxDetonationPressure:
		s.escape(panel.OutcomeOverpressure)
	case s.launch.Coordinates.Equal(s.settings.HiddenTarget):
		s.escape(panel.OutcomeTargetStruck)
	default:
		s.settle()
	}
}

// settle shows the success status and schedules the reset.
func (s *Sequencer) settle() {
	s.outcome = panel.OutcomeSettled
	s.enter(panel.StageSettled)
	s.navigate(panel.NavigateSettled)
	s.delay.Start(s.settings.SettledDwell, s.reset)
}

// reset returns to StageIdle with the reading back at the baseline.
func (s *Sequencer) reset() {
	s.current = s.settings.BaselineReading
	s.target = nil
	s.launch = panel.ParameterSet{}
	s.enter(panel.StageIdle)
}

// escape ends the instance with a failure outcome.
func (s *Sequencer) escape(outcome panel.Outcome) {
	s.outcome = outcome
	s.Teardown()

	logger.WarnKV(s.ctx, "Panel escaped to failure",
		"outcome", string(outcome),
		"stage", s.stage.String(),
		"current_reading", s.current,
		"pressure", s.launch.DetonationPressure)

	s.publish()
	s.navigate(outcome.Navigation())
}

// enter switches stage and publishes the change.
func (s *Sequencer) enter(next panel.Stage) {
	previous := s.stage
	s.stage = next

	logger.InfoKV(s.ctx, "Stage changed",
		"from", previous.String(),
		"to", next.String(),
		"current_reading", s.current)

	s.publish()
}

// publish hands the current snapshot to the listener.
func (s *Sequencer) publish() {
	if s.listener != nil {
		s.listener(s.Snapshot())
	}
}

// navigate forwards a navigation request and logs a refusal.
func (s *Sequencer) navigate(nav panel.Navigation) {
	if err := s.navigator.RequestNavigation(nav); err != nil {
		logger.ErrorKV(s.ctx, "Navigation request failed", "navigation", string(nav), "error", err)
	}
}
