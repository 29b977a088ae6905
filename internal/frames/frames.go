// Package frames holds the host-side frame representation exchanged between
// IMAGE nodes: an ordered batch of HWC float32 grids normalized to [0, 1].
package frames

import (
	"fmt"

	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

// Frame is a single color grid stored row-major as height x width x channels.
type Frame struct {
	Height   int
	Width    int
	Channels int
	Pix      []float32
}

// NewFrame allocates a zeroed (black) frame.
func NewFrame(height, width, channels int) Frame {
	return Frame{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]float32, height*width*channels),
	}
}

// Offset returns the index of channel ch of pixel (x, y) in Pix.
func (f Frame) Offset(y, x, ch int) int {
	return (y*f.Width+x)*f.Channels + ch
}

// At returns the value of channel ch at pixel (x, y).
func (f Frame) At(y, x, ch int) float32 {
	return f.Pix[f.Offset(y, x, ch)]
}

// Set stores v into channel ch at pixel (x, y).
func (f Frame) Set(y, x, ch int, v float32) {
	f.Pix[f.Offset(y, x, ch)] = v
}

// Shape returns the frame dimensions.
func (f Frame) Shape() Shape {
	return Shape{Height: f.Height, Width: f.Width, Channels: f.Channels}
}

func (f Frame) validate() string {
	switch {
	case f.Height <= 0 || f.Width <= 0:
		return fmt.Sprintf("non-positive size %dx%d", f.Width, f.Height)
	case f.Channels != 1 && f.Channels != 3 && f.Channels != 4:
		return fmt.Sprintf("unsupported channel count %d", f.Channels)
	case len(f.Pix) != f.Height*f.Width*f.Channels:
		return fmt.Sprintf("pixel buffer has %d values, want %d", len(f.Pix), f.Height*f.Width*f.Channels)
	}
	return ""
}

// Shape is the common geometry of every frame in a sequence.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// Sequence is an ordered batch of frames, the host's IMAGE type.
type Sequence []Frame

// New allocates n black frames of the given shape.
func New(n, height, width, channels int) Sequence {
	seq := make(Sequence, n)
	for i := range seq {
		seq[i] = NewFrame(height, width, channels)
	}
	return seq
}

// Len returns the number of frames.
func (s Sequence) Len() int { return len(s) }

// Shape returns the shared frame shape, or an InvalidShapeError when the
// sequence is empty, a frame is malformed, or frames disagree.
func (s Sequence) Shape() (Shape, error) {
	if len(s) == 0 {
		return Shape{}, &mediaerr.InvalidShapeError{Index: -1, Reason: "sequence is empty"}
	}
	want := s[0].Shape()
	for i, f := range s {
		if reason := f.validate(); reason != "" {
			return Shape{}, &mediaerr.InvalidShapeError{Index: i, Reason: reason}
		}
		if got := f.Shape(); got != want {
			return Shape{}, &mediaerr.InvalidShapeError{
				Index:  i,
				Reason: fmt.Sprintf("shape %s differs from first frame %s", got, want),
			}
		}
	}
	return want, nil
}
