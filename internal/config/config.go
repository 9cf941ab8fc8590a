package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
	"github.com/oshokin/brie-blaster/internal/logger"
)

// Config holds every setting of the kiosk.
type Config struct {
	// Panel holds the control panel pacing, ceilings and hidden target.
	Panel PanelConfig `yaml:"panel" envPrefix:"PANEL_"`
	// Form holds the slider ranges of the control form.
	Form FormConfig `yaml:"form"`
	// Auth holds the login credentials.
	Auth AuthConfig `yaml:"auth" envPrefix:"AUTH_"`
	// Gates holds the warning screen countdowns.
	Gates GatesConfig `yaml:"gates" envPrefix:"GATES_"`
	// MonitorAddress is the listen address of the monitor gRPC API; "off" disables it.
	MonitorAddress string `yaml:"monitor_addr" env:"MONITOR_ADDR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// LogFile receives the kiosk logs while the terminal UI owns stdout.
	LogFile string `yaml:"log_file" env:"LOG_FILE"`
	// InstanceMarker is the file recording the PID of the running kiosk.
	InstanceMarker string `yaml:"instance_marker" env:"INSTANCE_MARKER"`
}

// PanelConfig holds the control panel settings.
type PanelConfig struct {
	Baseline              float64           `yaml:"baseline" env:"BASELINE"`
	RampStep              float64           `yaml:"ramp_step" env:"RAMP_STEP"`
	TickInterval          time.Duration     `yaml:"tick_interval" env:"TICK_INTERVAL"`
	ActionDuration        time.Duration     `yaml:"action_duration" env:"ACTION_DURATION"`
	SettledDwell          time.Duration     `yaml:"settled_dwell" env:"SETTLED_DWELL"`
	MaxCoreHeat           float64           `yaml:"max_core_heat" env:"MAX_CORE_HEAT"`
	MaxDetonationPressure float64           `yaml:"max_detonation_pressure" env:"MAX_DETONATION_PRESSURE"`
	HiddenTarget          panel.Coordinates `yaml:"hidden_target"`
}

// FormConfig holds the ranges enforced by the control form.
type FormConfig struct {
	CoreHeat           form.Range `yaml:"core_heat"`
	DetonationPressure form.Range `yaml:"detonation_pressure"`
}

// AuthConfig holds the login settings.
type AuthConfig struct {
	Password          string            `yaml:"password" env:"PASSWORD"`
	DeviceCoordinates panel.Coordinates `yaml:"device_coordinates"`
	// Delay is the "authenticating" pause before the result is shown.
	Delay time.Duration `yaml:"delay" env:"DELAY"`
}

// GatesConfig holds the warning screen countdowns.
type GatesConfig struct {
	AntennaDwell time.Duration `yaml:"antenna_dwell" env:"ANTENNA_DWELL"`
	SafetyDwell  time.Duration `yaml:"safety_dwell" env:"SAFETY_DWELL"`
}

const (
	// DefaultConfigFilename is the default filename for kiosk settings.
	DefaultConfigFilename = "brie-blaster-settings.yaml"
	// DefaultLogFilename is the default kiosk log file.
	DefaultLogFilename = "brie-blaster.log"
	// DefaultInstanceMarker is the default PID marker file.
	DefaultInstanceMarker = "brie-blaster.pid"
	// DefaultMonitorAddress is the default monitor listen address.
	DefaultMonitorAddress = "127.0.0.1:50551"
	// MonitorDisabled turns the monitor API off.
	MonitorDisabled = "off"
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultBaseline is the core temperature at rest, in kelvin.
	DefaultBaseline = 310
	// DefaultRampStep is the heating increment per tick, in kelvin.
	DefaultRampStep = 10
	// DefaultTickInterval is the heating tick period.
	DefaultTickInterval = 100 * time.Millisecond
	// DefaultActionDuration is the length of the firing phase.
	DefaultActionDuration = time.Second
	// DefaultSettledDwell is how long the success status stays before the reset.
	DefaultSettledDwell = 5 * time.Second
	// DefaultMaxCoreHeat is the core heat safety ceiling, in kelvin.
	DefaultMaxCoreHeat = 1200
	// DefaultMaxDetonationPressure is the pressure safety ceiling, in GPa.
	DefaultMaxDetonationPressure = 5000

	// DefaultCoreHeatMax is the upper end of the temperature slider.
	DefaultCoreHeatMax = 10000
	// DefaultPressureMin is the lower end of the pressure slider.
	DefaultPressureMin = 0.1
	// DefaultPressureMax is the upper end of the pressure slider.
	DefaultPressureMax = 10000

	// DefaultPassword is the stock login password.
	DefaultPassword = "brie"
	// DefaultAntennaDwell is the countdown of the antenna warning.
	DefaultAntennaDwell = 20 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// envPrefix prefixes every environment override.
	envPrefix = "BRIE_BLASTER_"
)

var (
	// DefaultHiddenTarget is the stock hidden target.
	//nolint:gochecknoglobals // Composite defaults cannot be constants.
	DefaultHiddenTarget = panel.Coordinates{X: 1350, Y: 4562, Z: 9313}
	// DefaultDeviceCoordinates are the stock login coordinates.
	//nolint:gochecknoglobals // Composite defaults cannot be constants.
	DefaultDeviceCoordinates = panel.Coordinates{X: 1, Y: 2, Z: 3}
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidPanel is returned for panel settings the sequencer cannot run with.
	errInvalidPanel = errors.New("invalid panel settings")
	// errInvalidForm is returned for unusable form ranges.
	errInvalidForm = errors.New("invalid form settings")
	// errInvalidLogLevel is returned for an unknown log level.
	errInvalidLogLevel = errors.New("invalid log level")
	// errNegativeDuration is returned for a negative dwell or delay.
	errNegativeDuration = errors.New("duration must not be negative")
)

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // An empty configuration always validates.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path, applies environment
// overrides and validates the result. A missing default settings file is not
// an error: the kiosk then runs on defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := new(Config)

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigFilename:
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides settings from BRIE_BLASTER_* environment variables.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file holds the login password.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for unset fields and rejects inconsistent settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	fillDefaults(cfg)

	if err := validatePanel(&cfg.Panel); err != nil {
		return err
	}

	if err := validateForm(&cfg.Form, cfg.Panel.Baseline); err != nil {
		return err
	}

	if cfg.Auth.Delay < 0 || cfg.Gates.AntennaDwell < 0 || cfg.Gates.SafetyDwell < 0 {
		return errNegativeDuration
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	if cfg.MonitorEnabled() {
		if _, err := net.ResolveTCPAddr("tcp", cfg.MonitorAddress); err != nil {
			return fmt.Errorf("invalid monitor address: %w", err)
		}
	}

	return nil
}

// MonitorEnabled reports whether the monitor API should be served.
func (c *Config) MonitorEnabled() bool {
	return c.MonitorAddress != MonitorDisabled
}

// PanelSettings converts the panel section into sequencer settings.
func (c *Config) PanelSettings() panel.Settings {
	return panel.Settings{
		Ceilings: panel.SafetyCeilings{
			MaxCoreHeat:           c.Panel.MaxCoreHeat,
			MaxDetonationPressure: c.Panel.MaxDetonationPressure,
		},
		HiddenTarget:    c.Panel.HiddenTarget,
		BaselineReading: c.Panel.Baseline,
		RampStep:        c.Panel.RampStep,
		TickInterval:    c.Panel.TickInterval,
		ActionDuration:  c.Panel.ActionDuration,
		SettledDwell:    c.Panel.SettledDwell,
	}
}

// FormRules converts the form section into validator rules.
func (c *Config) FormRules() form.Rules {
	return form.Rules{
		CoreHeat:           c.Form.CoreHeat,
		DetonationPressure: c.Form.DetonationPressure,
	}
}

// Credentials converts the auth section into login credentials.
func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{
		Password:    c.Auth.Password,
		Coordinates: c.Auth.DeviceCoordinates,
	}
}

// fillDefaults replaces zero values with the defaults.
func fillDefaults(cfg *Config) {
	p := &cfg.Panel

	setDefault(&p.Baseline, DefaultBaseline)
	setDefault(&p.RampStep, DefaultRampStep)
	setDefault(&p.TickInterval, DefaultTickInterval)
	setDefault(&p.ActionDuration, DefaultActionDuration)
	setDefault(&p.SettledDwell, DefaultSettledDwell)
	setDefault(&p.MaxCoreHeat, DefaultMaxCoreHeat)
	setDefault(&p.MaxDetonationPressure, DefaultMaxDetonationPressure)
	setDefault(&p.HiddenTarget, DefaultHiddenTarget)

	f := &cfg.Form

	// The temperature slider starts at the baseline unless configured.
	if f.CoreHeat == (form.Range{}) {
		f.CoreHeat = form.Range{Min: p.Baseline, Max: DefaultCoreHeatMax}
	}

	if f.DetonationPressure == (form.Range{}) {
		f.DetonationPressure = form.Range{Min: DefaultPressureMin, Max: DefaultPressureMax}
	}

	a := &cfg.Auth

	setDefault(&a.Password, DefaultPassword)
	setDefault(&a.DeviceCoordinates, DefaultDeviceCoordinates)
	setDefault(&a.Delay, auth.DefaultDelay)

	setDefault(&cfg.Gates.AntennaDwell, DefaultAntennaDwell)
	setDefault(&cfg.MonitorAddress, DefaultMonitorAddress)
	setDefault(&cfg.LogLevel, DefaultLogLevel)
	setDefault(&cfg.LogFile, DefaultLogFilename)
	setDefault(&cfg.InstanceMarker, DefaultInstanceMarker)
}

// setDefault stores value into target when target holds the zero value.
func setDefault[T comparable](target *T, value T) {
	var zero T
	if *target == zero {
		*target = value
	}
}

// validatePanel checks the pacing and the ceilings.
func validatePanel(p *PanelConfig) error {
	switch {
	case p.RampStep <= 0:
		return fmt.Errorf("%w: ramp_step must be positive", errInvalidPanel)
	case p.TickInterval <= 0:
		return fmt.Errorf("%w: tick_interval must be positive", errInvalidPanel)
	case p.ActionDuration < 0 || p.SettledDwell < 0:
		return fmt.Errorf("%w: %w", errInvalidPanel, errNegativeDuration)
	case p.MaxCoreHeat <= p.Baseline:
		return fmt.Errorf("%w: max_core_heat %v must be above baseline %v",
			errInvalidPanel, p.MaxCoreHeat, p.Baseline)
	case p.MaxDetonationPressure <= 0:
		return fmt.Errorf("%w: max_detonation_pressure must be positive", errInvalidPanel)
	}

	return nil
}

// validateForm checks the slider ranges against the baseline.
func validateForm(f *FormConfig, baseline float64) error {
	if err := f.CoreHeat.Validate(); err != nil {
		return fmt.Errorf("%w: core_heat: %w", errInvalidForm, err)
	}

	if err := f.DetonationPressure.Validate(); err != nil {
		return fmt.Errorf("%w: detonation_pressure: %w", errInvalidForm, err)
	}

	if f.CoreHeat.Min < baseline {
		return fmt.Errorf("%w: core_heat min %v is below baseline %v", errInvalidForm, f.CoreHeat.Min, baseline)
	}

	return nil
}
