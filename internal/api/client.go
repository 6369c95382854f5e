// Package api is the HTTP client for the remote video processing service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lazyvibe/vidjob/internal/logging"
)

// UploadMode selects how overlay jobs send their inputs.
type UploadMode string

const (
	// UploadMultipart sends both clips as file parts.
	UploadMultipart UploadMode = "multipart"
	// UploadJSON sends only file names; the clips must already be staged.
	UploadJSON UploadMode = "json"
)

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	OverlayUpload UploadMode
	HTTPClient    *http.Client
	Logger        *logging.Logger
}

// Client talks to the processing service. It performs no retries.
type Client struct {
	baseURL       *url.URL
	httpClient    *http.Client
	streamClient  *http.Client
	overlayUpload UploadMode
	logger        *logging.Logger
}

// New creates a client for the service at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse service url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("service url %q must include scheme and host", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	// The progress stream is unbounded, so it never gets a client timeout.
	streamClient := *httpClient
	streamClient.Timeout = 0

	mode := opts.OverlayUpload
	if mode == "" {
		mode = UploadMultipart
	}

	return &Client{
		baseURL:       base,
		httpClient:    httpClient,
		streamClient:  &streamClient,
		overlayUpload: mode,
		logger:        logging.OrNop(opts.Logger).Component("api"),
	}, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// DownloadURL returns where the artifact can be fetched.
// The service reports artifacts as paths; only the base name is addressable.
func (c *Client) DownloadURL(artifact string) string {
	return c.endpoint("/download/" + url.PathEscape(path.Base(artifact)))
}

func (c *Client) endpoint(p string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + p
}

// doRequest sends a request and turns non-2xx responses into *ServiceError.
func (c *Client) doRequest(ctx context.Context, hc *http.Client, op, method, p, contentType string, body io.Reader) (*http.Response, error) {
	target := c.endpoint(p)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Str("url", target).Msg("request failed")
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	return resp, nil
}

// errorMessage extracts {"error": "..."} or falls back to the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// JobResult identifies the artifact produced by a job.
type JobResult struct {
	Artifact string `json:"result"`
}

// decodeResult reads a {result} or {error} body.
func decodeResult(op string, resp *http.Response) (JobResult, error) {
	defer resp.Body.Close()

	var payload struct {
		Result string `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return JobResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	if payload.Error != "" {
		return JobResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: payload.Error}
	}
	if payload.Result == "" {
		return JobResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: "service returned no result"}
	}
	return JobResult{Artifact: payload.Result}, nil
}
