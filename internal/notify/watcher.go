package notify

import (
	"time"

	"github.com/lazyvibe/vidjob/internal/model"
)

const progressCooldown = 30 * time.Second

// ProgressWatcher turns progress snapshots into a one-shot completion event.
type ProgressWatcher struct {
	last      model.ProgressState
	lastFired time.Time
	now       func() time.Time
}

// NewProgressWatcher creates a watcher.
func NewProgressWatcher() *ProgressWatcher {
	return &ProgressWatcher{now: time.Now}
}

// Observe returns an event when progress crosses into 100%.
func (w *ProgressWatcher) Observe(feature model.Feature, p model.ProgressState) (Event, bool) {
	prev := w.last
	w.last = p
	if p.Percent < 100 || prev.Percent >= 100 {
		return Event{}, false
	}
	now := w.now()
	if !w.lastFired.IsZero() && now.Sub(w.lastFired) < progressCooldown {
		return Event{}, false
	}
	w.lastFired = now
	return Event{
		Feature:   feature,
		Type:      EventProgressComplete,
		Message:   "Processing reached 100%",
		Timestamp: now,
	}, true
}
