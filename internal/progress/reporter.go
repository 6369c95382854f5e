package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/model"
)

// Reporter renders progress frames as a terminal bar.
type Reporter struct {
	bar         *progressbar.ProgressBar
	description string
}

// NewReporter creates a 0..100 bar writing to w.
func NewReporter(w io.Writer, description string) *Reporter {
	bar := progressbar.NewOptions64(100,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Reporter{bar: bar, description: description}
}

// Update moves the bar to the frame's percentage and shows the ETA.
func (r *Reporter) Update(ev api.ProgressEvent) {
	pct := int64(ev.Percent)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	r.bar.Describe(fmt.Sprintf("%s (eta %s)", r.description, model.FormatETA(ev.EstimatedSecondsLeft)))
	_ = r.bar.Set64(pct)
}

// Finish completes the bar.
func (r *Reporter) Finish() {
	_ = r.bar.Finish()
}

// Follow reads frames from stream into the bar until the stream ends, or
// until a frame reports 100% when untilDone is set. It returns the last frame.
func Follow(stream *api.ProgressStream, r *Reporter, untilDone bool) (api.ProgressEvent, error) {
	var last api.ProgressEvent
	for {
		ev, err := stream.Next()
		if err != nil {
			return last, err
		}
		last = ev
		r.Update(ev)
		if untilDone && ev.Percent >= 100 {
			r.Finish()
			return last, nil
		}
	}
}

// NewByteBar creates a byte-counting bar for downloads.
// total may be -1 when the size is unknown.
func NewByteBar(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}
