// Package cli provides the command-line interface for vidjob.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information, set by main at startup.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// options are the persistent flags shared by every command.
type options struct {
	configDir  string
	serviceURL string
	verbose    bool
}

// NewRootCmd creates the root command. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "vidjob",
		Short: "Combine and overlay video clips on a processing service",
		Long: `vidjob ` + Version + ` - Built: ` + BuildTime + `
Client for a remote video processing service.

Interactive mode (default):
  Full-screen terminal UI with a file list, live preview links,
  the overlay editor and live job progress.

Commands:
  probe     - Show the streams of local clips as the service sees them
  combine   - Concatenate clips into one video
  overlay   - Picture-in-picture one clip over another
  progress  - Follow the service progress stream
  download  - Save a finished artifact
  theme     - Show or change the saved theme`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default $XDG_CONFIG_HOME/vidjob)")
	rootCmd.PersistentFlags().StringVar(&opts.serviceURL, "service-url", "", "Processing service URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	AddCommands(rootCmd, opts)
	return rootCmd
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command, opts *options) {
	rootCmd.AddCommand(newProbeCmd(opts))
	rootCmd.AddCommand(newCombineCmd(opts))
	rootCmd.AddCommand(newOverlayCmd(opts))
	rootCmd.AddCommand(newProgressCmd(opts))
	rootCmd.AddCommand(newDownloadCmd(opts))
	rootCmd.AddCommand(newThemeCmd(opts))
}

// Execute runs the CLI. The first SIGINT or SIGTERM cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "cancelled")
	}
	return err
}
