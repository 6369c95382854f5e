package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/state"
)

// newOverlayCmd creates the 'overlay' command.
func newOverlayCmd(opts *options) *cobra.Command {
	var (
		position  string
		size      int
		mute      bool
		scaleTime bool
		watch     bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "overlay MAIN OVERLAY",
		Short: "Picture-in-picture one clip over another",
		Long: `Composite OVERLAY on top of MAIN.

Positions form a 3x3 grid: top-left, top-center, top-right, left, center,
right, bottom-left, bottom-center, bottom-right. Size is a percentage of
the main clip, clamped to 10..100.`,
		Example: `  vidjob overlay talk.mp4 webcam.mp4 --position bottom-right --size 30 --mute`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := model.ParsePosition(position)
			if err != nil {
				return err
			}
			mainClip, err := model.NewFileEntry(args[0])
			if err != nil {
				return err
			}
			over, err := model.NewFileEntry(args[1])
			if err != nil {
				return err
			}

			client, _, logger, err := opts.getAPIClient(cmd)
			if err != nil {
				return err
			}
			session := newHeadlessSession(client, logger)
			defer session.Close()

			store := session.Store()
			store.Dispatch(state.SetMainVideoFile{File: &mainClip})
			store.Dispatch(state.SetOverlayVideoFile{File: &over})
			store.Dispatch(state.SetOverlayPosition{Position: pos})
			store.Dispatch(state.SetOverlaySize{Size: size})
			store.Dispatch(state.SetMuteOverlayAudio{Mute: mute})
			store.Dispatch(state.SetScaleOverlayTime{Scale: scaleTime})

			var stop func()
			if watch {
				stop = startReporter(cmd, client, "overlaying", logger)
			}
			link, err := session.Overlay(cmd.Context())
			if stop != nil {
				stop()
			}
			if err != nil {
				var ve *jobs.ValidationError
				if errors.As(err, &ve) {
					return ve
				}
				return errors.New(api.Message(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderPairs(overlaySummary(store.State().Overlay, link)))
			if outputDir != "" {
				return saveArtifact(cmd, client, link, outputDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&position, "position", "p", string(model.PositionTopRight), "Overlay anchor on the 3x3 grid")
	cmd.Flags().IntVarP(&size, "size", "s", model.DefaultOverlaySize, "Overlay size in percent of the main clip")
	cmd.Flags().BoolVar(&mute, "mute", false, "Drop the overlay clip's audio")
	cmd.Flags().BoolVar(&scaleTime, "scale-time", false, "Stretch the overlay to the main clip's duration")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Show service progress while the job runs")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Download the result into this directory")

	_ = cmd.RegisterFlagCompletionFunc("position", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(model.Positions))
		for i, p := range model.Positions {
			names[i] = string(p)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func overlaySummary(o state.OverlaySpec, link string) [][2]string {
	name := func(f *model.FileEntry) string {
		if f == nil {
			return ""
		}
		return f.Name
	}
	return [][2]string{
		{"Main", name(o.Main)},
		{"Overlay", name(o.Overlay)},
		{"Position", string(o.Position)},
		{"Size", strconv.Itoa(o.Size) + "%"},
		{"Mute overlay", strconv.FormatBool(o.MuteAudio)},
		{"Scale time", strconv.FormatBool(o.ScaleTime)},
		{"Download", link},
	}
}
