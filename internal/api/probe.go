package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lazyvibe/vidjob/internal/model"
)

// Stream is one stream descriptor reported by the probe.
type Stream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
	BitRate      string `json:"bit_rate"`
}

// FrameRate returns the average frame rate, falling back to the base rate.
func (s Stream) FrameRate() string {
	if validRate(s.AvgFrameRate) {
		return s.AvgFrameRate
	}
	if validRate(s.RFrameRate) {
		return s.RFrameRate
	}
	return ""
}

func validRate(r string) bool {
	r = strings.TrimSpace(r)
	return r != "" && r != "0/0" && !strings.HasPrefix(r, "0/")
}

// ProbeResult is the parsed description of an uploaded file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
}

// Video returns the first video stream.
func (r ProbeResult) Video() (Stream, bool) {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s, true
		}
	}
	return Stream{}, false
}

// Patch converts the video stream into a params update.
// The patch is empty when there is no video stream.
func (r ProbeResult) Patch() model.VideoParamsPatch {
	v, ok := r.Video()
	if !ok {
		return model.VideoParamsPatch{}
	}
	var p model.VideoParamsPatch
	if rate := v.FrameRate(); rate != "" {
		p.FrameRate = model.Ptr(rate)
	}
	if v.Width > 0 {
		p.Width = model.Ptr(v.Width)
	}
	if v.Height > 0 {
		p.Height = model.Ptr(v.Height)
	}
	return p
}

// Probe uploads file and returns the streams the service found in it.
func (c *Client) Probe(ctx context.Context, file model.FileEntry) (ProbeResult, error) {
	const op = "probe"

	body, contentType := multipartBody(nil, []filePart{{field: "file", file: file}})
	defer body.Close()

	resp, err := c.doRequest(ctx, c.httpClient, op, http.MethodPost, "/evaluate", contentType, body)
	if err != nil {
		return ProbeResult{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Info  string `json:"info"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ProbeResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}
	if payload.Error != "" {
		return ProbeResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: payload.Error}
	}

	var result ProbeResult
	if strings.TrimSpace(payload.Info) == "" {
		return result, nil
	}
	if err := json.Unmarshal([]byte(payload.Info), &result); err != nil {
		return ProbeResult{}, &ServiceError{Op: op, Status: resp.StatusCode, Message: "invalid probe output: " + err.Error()}
	}
	c.logger.Debug().Str("file", file.Name).Int("streams", len(result.Streams)).Msg("probed")
	return result, nil
}
