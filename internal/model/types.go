// Package model defines core data structures for vidjob.
package model

import "fmt"

// Feature identifies a job workflow shown in the sidebar.
type Feature string

const (
	// FeatureCombine concatenates staged files into one output.
	FeatureCombine Feature = "combine"
	// FeatureOverlay composites one clip on top of another.
	FeatureOverlay Feature = "overlay"
)

// Features lists the workflows in sidebar order.
var Features = []Feature{FeatureCombine, FeatureOverlay}

// Title returns the display name of the feature.
func (f Feature) Title() string {
	switch f {
	case FeatureCombine:
		return "Combine"
	case FeatureOverlay:
		return "Overlay"
	default:
		return string(f)
	}
}

// Theme is the persisted display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme converts a string into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
	return t, nil
}

// OverlayPosition is the anchor of the overlay clip inside the main clip.
type OverlayPosition string

const (
	PositionTopLeft      OverlayPosition = "top-left"
	PositionTopCenter    OverlayPosition = "top-center"
	PositionTopRight     OverlayPosition = "top-right"
	PositionLeft         OverlayPosition = "left"
	PositionCenter       OverlayPosition = "center"
	PositionRight        OverlayPosition = "right"
	PositionBottomLeft   OverlayPosition = "bottom-left"
	PositionBottomCenter OverlayPosition = "bottom-center"
	PositionBottomRight  OverlayPosition = "bottom-right"
)

// Positions lists the anchors row by row, as a 3x3 grid.
var Positions = []OverlayPosition{
	PositionTopLeft, PositionTopCenter, PositionTopRight,
	PositionLeft, PositionCenter, PositionRight,
	PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
}

// Valid reports whether p is one of the nine anchors.
func (p OverlayPosition) Valid() bool {
	for _, q := range Positions {
		if p == q {
			return true
		}
	}
	return false
}

// ParsePosition converts a string into an OverlayPosition.
func ParsePosition(s string) (OverlayPosition, error) {
	p := OverlayPosition(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown overlay position %q", s)
	}
	return p, nil
}

// Overlay size bounds, in percent of the main clip.
const (
	MinOverlaySize     = 10
	MaxOverlaySize     = 100
	DefaultOverlaySize = 25
)

// ClampOverlaySize bounds size to the accepted range.
func ClampOverlaySize(size int) int {
	if size < MinOverlaySize {
		return MinOverlaySize
	}
	if size > MaxOverlaySize {
		return MaxOverlaySize
	}
	return size
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	// Desktop enables desktop notifications via system APIs.
	Desktop bool `json:"desktop"`
	// WebhookURL is the optional URL to send webhook notifications.
	WebhookURL string `json:"webhook_url,omitempty"`
}
