package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/progress"
)

// newProgressCmd creates the 'progress' command.
func newProgressCmd(opts *options) *cobra.Command {
	var untilDone bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Follow the service progress stream",
		Long: `Subscribe to the service's progress stream and draw it as a bar.

The service reports one job at a time. Without --until-done the command
runs until the service closes the stream or you press Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := opts.getAPIClient(cmd)
			if err != nil {
				return err
			}

			stream, err := client.OpenProgressStream(cmd.Context())
			if err != nil {
				return errors.New(api.Message(err))
			}
			defer stream.Close()

			r := progress.NewReporter(cmd.ErrOrStderr(), "progress")
			last, err := progress.Follow(stream, r, untilDone)
			switch {
			case err == nil, errors.Is(err, io.EOF):
			case cmd.Context().Err() != nil:
				return nil
			default:
				return errors.New(api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.0f%% (eta %s)\n", last.Percent, model.FormatETA(last.EstimatedSecondsLeft))
			return nil
		},
	}

	cmd.Flags().BoolVar(&untilDone, "until-done", false, "Exit once a frame reports 100%")
	return cmd
}
