package instance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/brie-blaster/internal/logger"
)

// markerPermissions restricts the marker file to its owner.
const markerPermissions = 0o600

var (
	// ErrAlreadyRunning is returned when another kiosk owns the marker.
	ErrAlreadyRunning = errors.New("another kiosk is already running")
	// errMarkerRequired is returned when no marker path is configured.
	errMarkerRequired = errors.New("instance marker path must be provided")
)

// Guard owns the marker file of the running kiosk.
type Guard struct {
	path string
	pid  int
}

// Option configures Acquire.
type Option func(*settings)

type settings struct {
	// executable is the process name a live owner must have.
	executable string
}

// WithExecutable overrides the process name compared against the marker's owner.
func WithExecutable(name string) Option {
	return func(s *settings) {
		s.executable = name
	}
}

// Acquire takes the marker at path for the current process.
// It fails with ErrAlreadyRunning while a live kiosk owns it.
func Acquire(ctx context.Context, path string, opts ...Option) (*Guard, error) {
	if path == "" {
		return nil, errMarkerRequired
	}

	s := settings{executable: currentExecutable()}
	for _, opt := range opts {
		opt(&s)
	}

	path = filepath.Clean(path)
	pid := os.Getpid()

	owner, err := readMarker(path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug(ctx, "Instance marker not found, continuing")
	case err != nil:
		logger.WarnKV(ctx, "Unable to read instance marker, taking it over", "path", path, "error", err)
	case owner != pid:
		running, err := isRunning(owner, s.executable)
		if err != nil {
			return nil, fmt.Errorf("inspect process %d: %w", owner, err)
		}

		if running {
			return nil, fmt.Errorf("%w: pid %d (%s)", ErrAlreadyRunning, owner, path)
		}

		logger.InfoKV(ctx, "Instance marker is stale, taking it over", "path", path, "stale_pid", owner)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), markerPermissions); err != nil {
		return nil, fmt.Errorf("write instance marker: %w", err)
	}

	return &Guard{path: path, pid: pid}, nil
}

// Release removes the marker if it still names this process.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}

	owner, err := readMarker(g.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	if owner != g.pid {
		return nil
	}

	if err := os.Remove(g.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove instance marker: %w", err)
	}

	return nil
}

// Path returns the marker path.
func (g *Guard) Path() string {
	return g.path
}

// readMarker returns the PID stored at path.
func readMarker(path string) (int, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return 0, fmt.Errorf("parse instance marker: %w", err)
	}

	return pid, nil
}

// isRunning reports whether pid is a live process named executable.
func isRunning(pid int, executable string) (bool, error) {
	if pid <= 0 {
		return false, nil
	}

	process, err := ps.FindProcess(pid)
	if err != nil {
		return false, err
	}

	if process == nil {
		return false, nil
	}

	return sameExecutable(process.Executable(), executable), nil
}

// sameExecutable compares process names, ignoring case and a Windows extension.
func sameExecutable(a, b string) bool {
	trim := func(name string) string {
		return strings.TrimSuffix(strings.ToLower(filepath.Base(name)), ".exe")
	}

	return trim(a) == trim(b)
}

// currentExecutable returns the name of the running binary.
func currentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		return filepath.Base(os.Args[0])
	}

	return filepath.Base(path)
}
