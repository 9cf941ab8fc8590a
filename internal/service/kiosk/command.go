package kiosk

import (
	"context"
	"errors"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/brie-blaster/internal/config"
	"github.com/oshokin/brie-blaster/internal/eventloop"
	"github.com/oshokin/brie-blaster/internal/logger"
	"github.com/oshokin/brie-blaster/internal/service/instance"
	"github.com/oshokin/brie-blaster/internal/ui"
	"github.com/oshokin/brie-blaster/internal/version"
)

// Options controls the kiosk process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// MonitorAddress overrides the monitor listen address; "off" disables it.
	MonitorAddress string
	// LogLevel overrides the configured log level.
	LogLevel string
	// ProgramOptions are passed to the terminal UI program.
	ProgramOptions []tea.ProgramOption
}

// errOperatorQuit stops the errgroup when the operator leaves the UI.
var errOperatorQuit = errors.New("operator quit")

// Run starts the kiosk and blocks until the operator quits, ctx is canceled
// or one of its parts fails.
//
//nolint:funlen // Startup wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	// The terminal UI owns stdout, so logs go to a file.
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}

	defer func() {
		_ = logFile.Close()
	}()

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)
	logger.SetLogger(logger.New(logFile))

	defer logger.Sync()

	// Set context with logger name for tracking.
	ctx = logger.WithName(logger.ToContext(ctx, logger.Logger()), "kiosk")

	guard, err := instance.Acquire(ctx, cfg.InstanceMarker)
	if err != nil {
		return fmt.Errorf("acquire instance marker: %w", err)
	}

	defer func() {
		if err := guard.Release(); err != nil {
			logger.ErrorKV(ctx, "Failed to release instance marker", "error", err)
		}
	}()

	loop := eventloop.New(0)

	a, err := newApp(ctx, cfg, loop)
	if err != nil {
		return fmt.Errorf("initialise kiosk: %w", err)
	}

	var lis net.Listener

	if cfg.MonitorEnabled() {
		if lis, err = listenMonitor(ctx, cfg.MonitorAddress); err != nil {
			return err
		}
	}

	program := ui.NewProgram(controller{app: a}, opts.ProgramOptions...)
	a.render = program.Render

	// The loop outlives ctx long enough to tear down its timers.
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loop.Run(loopCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()

		err := loop.Do(loopCtx, a.stop)
		stopLoop()

		if errors.Is(err, eventloop.ErrStopped) {
			return nil
		}

		return err
	})

	if lis != nil {
		group.Go(func() error {
			return serveMonitor(groupCtx, lis, a.broadcaster)
		})
	}

	group.Go(func() error {
		if err := program.Run(groupCtx); err != nil {
			return fmt.Errorf("terminal UI: %w", err)
		}

		return errOperatorQuit
	})

	loop.Post(a.start)

	logger.InfoKV(ctx, "Kiosk running",
		append([]any{"monitor_address", cfg.MonitorAddress, "log_level", cfg.LogLevel}, version.Fields()...)...)

	if err := group.Wait(); err != nil && !errors.Is(err, errOperatorQuit) {
		return err
	}

	return nil
}

// loadSettings loads the configuration and applies the command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.MonitorAddress != "" {
		cfg.MonitorAddress = opts.MonitorAddress
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}
