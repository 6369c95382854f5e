package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ProgressEvent is one frame of the progress stream.
type ProgressEvent struct {
	Percent              float64 `json:"progress"`
	EstimatedSecondsLeft float64 `json:"estimated_time_left"`
}

// ProgressStream reads server-sent progress frames.
type ProgressStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	cancel context.CancelFunc
	once   sync.Once
	closed chan struct{}
}

// OpenProgressStream subscribes to GET /progress.
// The stream lives until Close is called, ctx is cancelled or the server hangs up.
func (c *Client) OpenProgressStream(ctx context.Context) (*ProgressStream, error) {
	ctx, cancel := context.WithCancel(ctx)

	target := c.endpoint("/progress")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, &StreamError{Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, &StreamError{Err: &TransportError{Op: "progress", URL: target, Err: err}}
	}
	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, &StreamError{Err: &ServiceError{Op: "progress", Status: resp.StatusCode, Message: msg}}
	}

	c.logger.Debug().Str("url", target).Msg("progress stream open")
	return &ProgressStream{
		body:   resp.Body,
		reader: bufio.NewReader(resp.Body),
		cancel: cancel,
		closed: make(chan struct{}),
	}, nil
}

// Next blocks until the next frame arrives.
// It returns io.EOF when the stream was closed or the server ended it cleanly,
// and a *StreamError when the connection dropped.
func (s *ProgressStream) Next() (ProgressEvent, error) {
	var data []string
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if s.isClosed() {
				return ProgressEvent{}, io.EOF
			}
			if errors.Is(err, io.EOF) {
				if ev, ok := parseFrame(append(data, dataValue(line)...)); ok {
					return ev, nil
				}
				return ProgressEvent{}, io.EOF
			}
			return ProgressEvent{}, &StreamError{Err: err}
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if ev, ok := parseFrame(data); ok {
				return ev, nil
			}
			data = data[:0]
			continue
		}
		data = append(data, dataValue(line)...)
	}
}

// Close ends the stream. It is safe to call more than once.
func (s *ProgressStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closed)
		s.cancel()
		err = s.body.Close()
	})
	return err
}

func (s *ProgressStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// dataValue returns the payload of a "data:" line. Other fields and
// comments are ignored.
func dataValue(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	v, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return nil
	}
	return []string{strings.TrimPrefix(v, " ")}
}

func parseFrame(data []string) (ProgressEvent, bool) {
	if len(data) == 0 {
		return ProgressEvent{}, false
	}
	var ev ProgressEvent
	if err := json.Unmarshal([]byte(strings.Join(data, "\n")), &ev); err != nil {
		return ProgressEvent{}, false
	}
	return ev, true
}
