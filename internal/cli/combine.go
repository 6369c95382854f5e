package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/state"
)

type combineFlags struct {
	description string
	audio       bool
	codec       string
	frameRate   string
	width       int
	height      int
	bitrate     string
	watch       bool
	outputDir   string
}

// newCombineCmd creates the 'combine' command.
func newCombineCmd(opts *options) *cobra.Command {
	var f combineFlags

	cmd := &cobra.Command{
		Use:   "combine FILE...",
		Short: "Concatenate clips into one video",
		Long: `Combine the clips in the given order.

The first clip is probed to pre-fill frame rate and resolution; flags
override what the probe found. The clips must already be staged on the
service, only their names are sent.`,
		Example: `  vidjob combine intro.mp4 talk.mp4 -d "conference cut" --audio
  vidjob combine a.mov b.mov -d demo --codec libx265 --bitrate 2M -o ~/Videos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}

			client, _, logger, err := opts.getAPIClient(cmd)
			if err != nil {
				return err
			}
			session := newHeadlessSession(client, logger)
			defer session.Close()

			files := make([]model.FileEntry, 0, len(args))
			for _, path := range args {
				entry, err := model.NewFileEntry(path)
				if err != nil {
					return err
				}
				files = append(files, entry)
			}

			if err := session.AddFiles(cmd.Context(), files); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s, using defaults\n", api.Message(err))
			}
			store := session.Store()
			store.Dispatch(state.SetIncludeAudio{Include: f.audio})
			store.Dispatch(state.SetDescription{Description: f.description})
			if !patch.IsEmpty() {
				store.Dispatch(state.MergeVideoParams{Patch: patch})
			}

			var stop func()
			if f.watch {
				stop = startReporter(cmd, client, "combining", logger)
			}
			link, err := session.Combine(cmd.Context())
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

			fmt.Fprintln(cmd.OutOrStdout(), renderPairs(combineSummary(store.State(), link)))
			if f.outputDir != "" {
				return saveArtifact(cmd, client, link, f.outputDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Job description (required)")
	cmd.Flags().BoolVar(&f.audio, "audio", false, "Keep the audio tracks")
	cmd.Flags().StringVar(&f.codec, "codec", "", "Video codec: libx264, libx265 or mpeg4")
	cmd.Flags().StringVar(&f.frameRate, "fps", "", "Frame rate, e.g. 30 or 30000/1001")
	cmd.Flags().IntVar(&f.width, "width", 0, "Output width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "Output height in pixels")
	cmd.Flags().StringVar(&f.bitrate, "bitrate", "", "Video bitrate, e.g. 1000k or 2M")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Show service progress while the job runs")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "Download the result into this directory")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// patch turns the explicitly set flags into a params update.
func (f combineFlags) patch(cmd *cobra.Command) (model.VideoParamsPatch, error) {
	var p model.VideoParamsPatch
	flags := cmd.Flags()
	if flags.Changed("codec") {
		c, err := model.ParseCodec(f.codec)
		if err != nil {
			return p, err
		}
		p.Codec = &c
	}
	if flags.Changed("fps") {
		p.FrameRate = model.Ptr(strings.TrimSpace(f.frameRate))
	}
	if flags.Changed("width") {
		if f.width < 0 {
			return p, fmt.Errorf("--width must not be negative")
		}
		p.Width = model.Ptr(f.width)
	}
	if flags.Changed("height") {
		if f.height < 0 {
			return p, fmt.Errorf("--height must not be negative")
		}
		p.Height = model.Ptr(f.height)
	}
	if flags.Changed("bitrate") {
		p.Bitrate = model.Ptr(strings.TrimSpace(f.bitrate))
	}
	return p, nil
}

func combineSummary(st state.State, link string) [][2]string {
	p := st.VideoParams
	resolution := "source"
	if p.Width > 0 && p.Height > 0 {
		resolution = strconv.Itoa(p.Width) + "x" + strconv.Itoa(p.Height)
	}
	frameRate := p.FrameRate
	if frameRate == "" {
		frameRate = "source"
	}
	return [][2]string{
		{"Files", strings.Join(model.Names(st.Files), ", ")},
		{"Description", st.Description},
		{"Audio", strconv.FormatBool(st.IncludeAudio)},
		{"Codec", string(p.Codec)},
		{"Frame rate", frameRate},
		{"Resolution", resolution},
		{"Bitrate", p.Bitrate},
		{"Download", link},
	}
}
