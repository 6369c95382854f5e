package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lazyvibe/vidjob/internal/model"
)

// CombineRequest is the body of POST /combine.
// Only names are sent; the files must already be staged on the service.
type CombineRequest struct {
	FileNames    []string          `json:"file_names"`
	IncludeAudio bool              `json:"include_audio"`
	Description  string            `json:"description"`
	VideoParams  model.VideoParams `json:"video_params"`
}

// SubmitCombine asks the service to concatenate the named files.
func (c *Client) SubmitCombine(ctx context.Context, req CombineRequest) (JobResult, error) {
	const op = "combine"

	if req.FileNames == nil {
		req.FileNames = []string{}
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return JobResult{}, fmt.Errorf("encode combine request: %w", err)
	}

	resp, err := c.doRequest(ctx, c.httpClient, op, http.MethodPost, "/combine", "application/json", bytes.NewReader(raw))
	if err != nil {
		return JobResult{}, err
	}
	result, err := decodeResult(op, resp)
	if err != nil {
		return JobResult{}, err
	}
	c.logger.Info().Int("files", len(req.FileNames)).Str("artifact", result.Artifact).Msg("combine finished")
	return result, nil
}

// OverlayRequest describes an overlay job.
type OverlayRequest struct {
	Main             model.FileEntry
	Overlay          model.FileEntry
	Position         model.OverlayPosition
	SizePercent      int
	MuteOverlayAudio bool
	ScaleOverlayTime bool
}

type overlayBody struct {
	MainVideoFilename    string                `json:"main_video_filename"`
	OverlayVideoFilename string                `json:"overlay_video_filename"`
	Position             model.OverlayPosition `json:"position"`
	Size                 int                   `json:"size"`
	MuteOverlayAudio     bool                  `json:"mute_overlay_audio"`
	ScaleOverlayTime     bool                  `json:"scale_overlay_time"`
}

func (r OverlayRequest) body() overlayBody {
	return overlayBody{
		MainVideoFilename:    r.Main.Name,
		OverlayVideoFilename: r.Overlay.Name,
		Position:             r.Position,
		Size:                 model.ClampOverlaySize(r.SizePercent),
		MuteOverlayAudio:     r.MuteOverlayAudio,
		ScaleOverlayTime:     r.ScaleOverlayTime,
	}
}

// SubmitOverlay uploads both clips and asks the service to composite them.
// In UploadJSON mode only the names are sent.
func (c *Client) SubmitOverlay(ctx context.Context, req OverlayRequest) (JobResult, error) {
	const op = "overlay"

	b := req.body()
	var (
		resp *http.Response
		err  error
	)
	switch c.overlayUpload {
	case UploadJSON:
		raw, merr := json.Marshal(b)
		if merr != nil {
			return JobResult{}, fmt.Errorf("encode overlay request: %w", merr)
		}
		resp, err = c.doRequest(ctx, c.httpClient, op, http.MethodPost, "/overlay", "application/json", bytes.NewReader(raw))
	default:
		fields := []formField{
			{"main_video_filename", b.MainVideoFilename},
			{"overlay_video_filename", b.OverlayVideoFilename},
			{"position", string(b.Position)},
			{"size", strconv.Itoa(b.Size)},
			{"mute_overlay_audio", strconv.FormatBool(b.MuteOverlayAudio)},
			{"scale_overlay_time", strconv.FormatBool(b.ScaleOverlayTime)},
		}
		files := []filePart{
			{field: "main_video", file: req.Main},
			{field: "overlay_video", file: req.Overlay},
		}
		body, contentType := multipartBody(fields, files)
		defer body.Close()
		resp, err = c.doRequest(ctx, c.httpClient, op, http.MethodPost, "/overlay", contentType, body)
	}
	if err != nil {
		return JobResult{}, err
	}

	result, err := decodeResult(op, resp)
	if err != nil {
		return JobResult{}, err
	}
	c.logger.Info().Str("position", string(b.Position)).Str("artifact", result.Artifact).Msg("overlay finished")
	return result, nil
}
