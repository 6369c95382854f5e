package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

// ArtifactName recovers the artifact name from a download link.
func ArtifactName(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return path.Base(link)
	}
	return path.Base(u.Path)
}

// OpenDownload starts fetching artifact. The caller closes the body.
// size is -1 when the service does not report a length.
func (c *Client) OpenDownload(ctx context.Context, artifact string) (body io.ReadCloser, size int64, err error) {
	p := "/download/" + url.PathEscape(path.Base(artifact))
	resp, err := c.doRequest(ctx, c.streamClient, "download", http.MethodGet, p, "", nil)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

// Download copies artifact into w and returns the number of bytes written.
func (c *Client) Download(ctx context.Context, artifact string, w io.Writer) (int64, error) {
	body, _, err := c.OpenDownload(ctx, artifact)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", path.Base(artifact), err)
	}
	return n, nil
}
