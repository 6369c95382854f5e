package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/progress"
)

// barDownloader shows a byte bar while the artifact is copied.
type barDownloader struct {
	client *api.Client
	out    io.Writer
}

func (d barDownloader) Download(ctx context.Context, artifact string, w io.Writer) (int64, error) {
	body, size, err := d.client.OpenDownload(ctx, artifact)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	bar := progress.NewByteBar(d.out, size, "downloading "+artifact)
	n, err := io.Copy(io.MultiWriter(w, bar), body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", artifact, err)
	}
	_ = bar.Finish()
	return n, nil
}

// saveArtifact downloads link into dir and prints where it went.
func saveArtifact(cmd *cobra.Command, client *api.Client, link, dir string) error {
	d := barDownloader{client: client, out: cmd.ErrOrStderr()}
	path, n, err := jobs.SaveDownload(cmd.Context(), d, link, dir)
	if err != nil {
		return fmt.Errorf("download: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", path, humanize.Bytes(uint64(n)))
	return nil
}

// newDownloadCmd creates the 'download' command.
func newDownloadCmd(opts *options) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download ARTIFACT|LINK",
		Short: "Save a finished artifact",
		Long: `Download a processed video by artifact name or by the link a job printed.

The file keeps the artifact's name. A partial file is removed if the
download fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, _, err := opts.getAPIClient(cmd)
			if err != nil {
				return err
			}
			dir := outputDir
			if dir == "" {
				dir = cfg.DownloadDir
			}
			return saveArtifact(cmd, client, args[0], dir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Destination directory (default: config download_dir or .)")
	return cmd
}
