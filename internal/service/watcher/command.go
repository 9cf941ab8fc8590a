package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/brie-blaster/internal/api/grpc/monitor"
	"github.com/oshokin/brie-blaster/internal/config"
	"github.com/oshokin/brie-blaster/internal/logger"
	"github.com/oshokin/brie-blaster/internal/service/common"
)

// Options configures the monitor command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Address overrides the monitor address from config when specified.
	Address string
	// JSON prints every snapshot as protojson instead of a text line.
	JSON bool
	// Once prints the current snapshot and exits.
	Once bool
	// Output receives the printed snapshots; os.Stdout when nil.
	Output io.Writer
}

// defaultRetryInterval defines the delay between reconnection attempts.
const defaultRetryInterval = 1 * time.Second

// ErrMonitorDisabled is returned when the configuration turns the monitor API off.
var ErrMonitorDisabled = errors.New("monitor API is disabled in the configuration")

// Run prints kiosk snapshots until ctx is cancelled. With Once it prints a
// single snapshot and returns.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "monitor")

	address, err := resolveAddress(opts)
	if err != nil {
		return err
	}

	// Announce who is watching; the kiosk logs it.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	ctx = common.WithActor(ctx, actor)

	client, err := common.Dial(ctx, address)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	printer := newPrinter(opts)

	if opts.Once {
		snapshot, err := client.GetSnapshot(ctx)
		if err != nil {
			return err
		}

		return printer.print(snapshot)
	}

	logger.InfoKV(ctx, "Watching kiosk", "address", address, "actor", actor.String())

	// attempt follows one stream until it ends.
	attempt := func() {
		if err := client.Watch(ctx, printer.print); err != nil && ctx.Err() == nil {
			// Log error but keep retrying while the kiosk is away.
			logger.ErrorKV(ctx, "Snapshot stream failed", "error", err)
		}
	}

	attempt()

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(defaultRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			attempt()
		}
	}
}

// resolveAddress picks the command line address or the configured one.
func resolveAddress(opts *Options) (string, error) {
	if opts.Address != "" {
		return opts.Address, nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	if !cfg.MonitorEnabled() {
		return "", ErrMonitorDisabled
	}

	return cfg.MonitorAddress, nil
}

// printer writes snapshots in the selected format.
type printer struct {
	out  io.Writer
	json bool
}

// newPrinter creates a printer for opts.
func newPrinter(opts *Options) *printer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return &printer{out: out, json: opts.JSON}
}

// print writes one snapshot.
func (p *printer) print(message *structpb.Struct) error {
	if p.json {
		data, err := protojson.Marshal(message)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}

		_, err = fmt.Fprintln(p.out, string(data))

		return err
	}

	line, err := formatSnapshot(message)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(p.out, line)

	return err
}

// formatSnapshot converts a snapshot to a readable line.
func formatSnapshot(message *structpb.Struct) (string, error) {
	snapshot, err := monitor.FromStruct(message)
	if err != nil {
		return "", err
	}

	timestamp := "--:--:--"
	if !snapshot.UpdatedAt.IsZero() {
		timestamp = snapshot.UpdatedAt.Local().Format(time.TimeOnly)
	}

	target := "-"
	if snapshot.TargetReading != nil {
		target = strconv.FormatFloat(*snapshot.TargetReading, 'f', 1, 64) + " K"
	}

	line := fmt.Sprintf("%s %-18s %-8s %7.1f K -> %-9s %s",
		timestamp,
		snapshot.Screen,
		snapshot.Stage,
		snapshot.CurrentReading,
		target,
		snapshot.Status,
	)

	if snapshot.Outcome != "" {
		line += " [" + string(snapshot.Outcome) + "]"
	}

	if snapshot.SessionID != "" {
		line += " (" + snapshot.SessionID + ")"
	}

	return line, nil
}
