package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
)

// TestValidate_FillsDefaults checks the stock kiosk settings.
func TestValidate_FillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))

	settings := cfg.PanelSettings()
	require.InDelta(t, 310, settings.BaselineReading, 0)
	require.InDelta(t, 10, settings.RampStep, 0)
	require.Equal(t, 100*time.Millisecond, settings.TickInterval)
	require.Equal(t, time.Second, settings.ActionDuration)
	require.Equal(t, 5*time.Second, settings.SettledDwell)
	require.Equal(t, panel.SafetyCeilings{MaxCoreHeat: 1200, MaxDetonationPressure: 5000}, settings.Ceilings)
	require.Equal(t, panel.Coordinates{X: 1350, Y: 4562, Z: 9313}, settings.HiddenTarget)

	require.Equal(t, form.Rules{
		CoreHeat:           form.Range{Min: 310, Max: 10000},
		DetonationPressure: form.Range{Min: 0.1, Max: 10000},
	}, cfg.FormRules())

	credentials := cfg.Credentials()
	require.Equal(t, "brie", credentials.Password)
	require.Equal(t, panel.Coordinates{X: 1, Y: 2, Z: 3}, credentials.Coordinates)
	require.Equal(t, 1500*time.Millisecond, cfg.Auth.Delay)
	require.Equal(t, 20*time.Second, cfg.Gates.AntennaDwell)
	require.Zero(t, cfg.Gates.SafetyDwell)

	require.Equal(t, DefaultMonitorAddress, cfg.MonitorAddress)
	require.True(t, cfg.MonitorEnabled())
	require.Equal(t, DefaultLogFilename, cfg.LogFile)
	require.Equal(t, DefaultInstanceMarker, cfg.InstanceMarker)
}

// TestValidate_RejectsInconsistentSettings covers the consistency checks.
func TestValidate_RejectsInconsistentSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{
			name:   "negative ramp step",
			mutate: func(cfg *Config) { cfg.Panel.RampStep = -1 },
		},
		{
			name:   "ceiling below baseline",
			mutate: func(cfg *Config) { cfg.Panel.MaxCoreHeat = 300 },
		},
		{
			name: "slider starts below baseline",
			mutate: func(cfg *Config) {
				cfg.Form.CoreHeat = form.Range{Min: 100, Max: 10000}
			},
		},
		{
			name: "empty pressure range",
			mutate: func(cfg *Config) {
				cfg.Form.DetonationPressure = form.Range{Min: 10, Max: 1}
			},
		},
		{
			name:   "negative gate",
			mutate: func(cfg *Config) { cfg.Gates.SafetyDwell = -time.Second },
		},
		{
			name:   "unknown log level",
			mutate: func(cfg *Config) { cfg.LogLevel = "loud" },
		},
		{
			name:   "bad monitor address",
			mutate: func(cfg *Config) { cfg.MonitorAddress = "bad:address" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := new(Config)
			tt.mutate(cfg)
			require.Error(t, Validate(cfg))
		})
	}

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestValidate_MonitorCanBeDisabled accepts the "off" address.
func TestValidate_MonitorCanBeDisabled(t *testing.T) {
	t.Parallel()

	cfg := &Config{MonitorAddress: MonitorDisabled}
	require.NoError(t, Validate(cfg))
	require.False(t, cfg.MonitorEnabled())
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		Panel: PanelConfig{
			TickInterval: 50 * time.Millisecond,
			HiddenTarget: panel.Coordinates{X: 7, Y: 8, Z: 9},
		},
		Auth:           AuthConfig{Password: "camembert"},
		MonitorAddress: "127.0.0.1:0",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoad_MissingExplicitFile fails for a path the user asked for.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestLoad_ReadsYAML parses durations and nested sections.
func TestLoad_ReadsYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := []byte(`
panel:
  tick_interval: 20ms
  max_core_heat: 900
  hidden_target: {x: 1, y: 1, z: 1}
form:
  core_heat: {min: 400, max: 800}
gates:
  antenna_dwell: 3s
monitor_addr: "off"
log_level: debug
`)

	require.NoError(t, os.WriteFile(path, contents, DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 20*time.Millisecond, cfg.Panel.TickInterval)
	require.InDelta(t, 900, cfg.Panel.MaxCoreHeat, 0)
	require.Equal(t, panel.Coordinates{X: 1, Y: 1, Z: 1}, cfg.Panel.HiddenTarget)
	require.Equal(t, form.Range{Min: 400, Max: 800}, cfg.Form.CoreHeat)
	require.Equal(t, 3*time.Second, cfg.Gates.AntennaDwell)
	require.False(t, cfg.MonitorEnabled())
	require.Equal(t, "debug", cfg.LogLevel)
}

// TestApplyEnv overrides file values from the environment.
func TestApplyEnv(t *testing.T) {
	t.Setenv("BRIE_BLASTER_PANEL_TICK_INTERVAL", "250ms")
	t.Setenv("BRIE_BLASTER_AUTH_PASSWORD", "emmental")
	t.Setenv("BRIE_BLASTER_GATES_ANTENNA_DWELL", "1s")
	t.Setenv("BRIE_BLASTER_MONITOR_ADDR", "off")

	cfg := &Config{Auth: AuthConfig{Password: "brie"}}
	require.NoError(t, ApplyEnv(cfg))
	require.NoError(t, Validate(cfg))

	require.Equal(t, 250*time.Millisecond, cfg.Panel.TickInterval)
	require.Equal(t, "emmental", cfg.Auth.Password)
	require.Equal(t, time.Second, cfg.Gates.AntennaDwell)
	require.False(t, cfg.MonitorEnabled())

	require.ErrorIs(t, ApplyEnv(nil), errConfigIsNotSet)
}

// TestApplyEnv_RejectsGarbage surfaces unparsable overrides.
func TestApplyEnv_RejectsGarbage(t *testing.T) {
	t.Setenv("BRIE_BLASTER_PANEL_RAMP_STEP", "ten")

	require.Error(t, ApplyEnv(new(Config)))
}
