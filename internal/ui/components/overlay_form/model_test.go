package overlayform

import (
	"testing"

	"github.com/lazyvibe/vidjob/internal/model"
)

func TestMoveStaysOnGrid(t *testing.T) {
	tests := []struct {
		from   model.OverlayPosition
		dx, dy int
		want   model.OverlayPosition
	}{
		{model.PositionCenter, -1, 0, model.PositionLeft},
		{model.PositionCenter, 1, 1, model.PositionBottomRight},
		{model.PositionTopLeft, -1, 0, model.PositionTopLeft},
		{model.PositionTopLeft, 0, -1, model.PositionTopLeft},
		{model.PositionBottomRight, 1, 0, model.PositionBottomRight},
		{model.PositionTopRight, 0, 1, model.PositionRight},
	}
	for _, tt := range tests {
		if got := Move(tt.from, tt.dx, tt.dy); got != tt.want {
			t.Errorf("Move(%s, %d, %d) = %s, want %s", tt.from, tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestStepClamps(t *testing.T) {
	if got := Step(25, 1); got != 30 {
		t.Fatalf("Step(25, 1) = %d", got)
	}
	if got := Step(10, -1); got != model.MinOverlaySize {
		t.Fatalf("Step(10, -1) = %d", got)
	}
	if got := Step(100, 1); got != model.MaxOverlaySize {
		t.Fatalf("Step(100, 1) = %d", got)
	}
}
