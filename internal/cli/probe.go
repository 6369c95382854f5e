package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/model"
)

// newProbeCmd creates the 'probe' command.
func newProbeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "probe FILE...",
		Short: "Show the streams the service finds in local clips",
		Long: `Upload each clip to the service's probe endpoint and print its streams.

The first video stream is what pre-fills the combine parameters.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := opts.getAPIClient(cmd)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, path := range args {
				f, err := model.NewFileEntry(path)
				if err != nil {
					return err
				}
				res, err := client.Probe(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("probe %s: %s", f.Name, api.Message(err))
				}
				rows = append(rows, probeRows(f, res)...)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Size", "#", "Type", "Codec", "Resolution", "Frame rate", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

// probeRows renders one row per stream. A file without streams still gets one row.
func probeRows(f model.FileEntry, res api.ProbeResult) [][]string {
	size := humanize.Bytes(uint64(f.Size))
	if len(res.Streams) == 0 {
		return [][]string{{f.Name, size, "-", "none"}}
	}
	rows := make([][]string, 0, len(res.Streams))
	for i, s := range res.Streams {
		name := f.Name
		if i > 0 {
			name, size = "", ""
		}
		resolution := ""
		if s.Width > 0 && s.Height > 0 {
			resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
		rows = append(rows, []string{
			name,
			size,
			strconv.Itoa(s.Index),
			s.CodecType,
			s.CodecName,
			resolution,
			s.FrameRate(),
			s.Duration,
		})
	}
	return rows
}
