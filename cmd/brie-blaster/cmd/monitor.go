package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/brie-blaster/internal/service/watcher"
)

// newMonitorCommand creates the `monitor` subcommand that follows a running kiosk.
func newMonitorCommand() *cobra.Command {
	options := new(watcher.Options)

	command := &cobra.Command{
		Use:   "monitor [address]",
		Short: "Follow the control panel of a running kiosk.",
		Long: `Connects to the monitor API of a running kiosk and prints every panel snapshot.

The address can be provided as argument or is loaded from configuration file.
The stream is re-established automatically if the kiosk restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.Address = args[0]
			}

			options.ConfigPath = configPath
			options.Output = cmd.OutOrStdout()

			return watcher.Run(ctx, options)
		},
	}

	command.Flags().BoolVar(&options.JSON, "json", false, "print snapshots as JSON")
	command.Flags().BoolVar(&options.Once, "once", false, "print the current snapshot and exit")

	return command
}
