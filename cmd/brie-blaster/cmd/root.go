package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/brie-blaster/internal/config"
	"github.com/oshokin/brie-blaster/internal/service/kiosk"
	"github.com/oshokin/brie-blaster/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// monitorAddress overrides the monitor listen address.
	monitorAddress string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the kiosk.
	rootCmd = &cobra.Command{
		Use:   "brie-blaster",
		Short: "Run the Brie Blaster control kiosk.",
		Long: `Starts the Brie Blaster control kiosk in the terminal.

The operator walks through the antenna warning, the login, the safety warning
and finally the control panel, where the core is heated and the blaster fired.
Exceeding a safety ceiling or striking the hidden target ends the session on a
failure screen.

A read-only monitor API is served on the configured address so other terminals
can follow the panel with the "monitor" command. Use "off" to disable it.
Logs are written to the configured log file because the terminal is taken.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &kiosk.Options{
				ConfigPath:     configPath,
				MonitorAddress: monitorAddress,
				LogLevel:       logLevel,
			}

			return kiosk.Run(ctx, options)
		},
	}
)

// Execute runs the brie-blaster CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newMonitorCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&monitorAddress, "monitor", "m", "", `monitor API listen address, "off" to disable`)
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}
