package frames

import (
	"errors"
	"testing"

	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

func TestShapeUniform(t *testing.T) {
	seq := New(3, 4, 5, 3)
	shape, err := seq.Shape()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shape != (Shape{Height: 4, Width: 5, Channels: 3}) {
		t.Fatalf("unexpected shape: %v", shape)
	}
}

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		seq       Sequence
		wantIndex int
	}{
		{"empty", Sequence{}, -1},
		{"mismatched width", Sequence{NewFrame(4, 4, 3), NewFrame(4, 5, 3)}, 1},
		{"mismatched channels", Sequence{NewFrame(4, 4, 3), NewFrame(4, 4, 4)}, 1},
		{"bad channel count", Sequence{NewFrame(2, 2, 2)}, 0},
		{"short buffer", Sequence{{Height: 2, Width: 2, Channels: 3, Pix: make([]float32, 5)}}, 0},
		{"zero size", Sequence{NewFrame(0, 2, 3)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.seq.Shape()
			var shapeErr *mediaerr.InvalidShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected InvalidShapeError, got %v", err)
			}
			if shapeErr.Index != tt.wantIndex {
				t.Fatalf("expected index %d, got %d", tt.wantIndex, shapeErr.Index)
			}
		})
	}
}
