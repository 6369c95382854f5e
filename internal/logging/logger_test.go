package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("ParseLevel(nonsense) = %v, want info", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("ParseLevel(\"\") = %v, want info", got)
	}
	if got := ParseLevel("DEBUG"); got != zerolog.DebugLevel {
		t.Fatalf("ParseLevel(DEBUG) = %v, want debug", got)
	}
}

func TestComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info").Component("progress")
	l.Info().Msg("opened")

	if !strings.Contains(buf.String(), "progress") {
		t.Fatalf("component missing from %q", buf.String())
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	l.Error().Msg("discarded")
}
