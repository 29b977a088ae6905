// Package transitions joins clips with animated boundaries.
package transitions

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

// Kind names a transition.
type Kind string

// Boundary transitions used when concatenating a list of clips.
const (
	None       Kind = "none"
	Crossfade  Kind = "crossfade"
	FadeBlack  Kind = "fade_black"
	FadeWhite  Kind = "fade_white"
	SlideLeft  Kind = "slide_left"
	SlideRight Kind = "slide_right"
	ZoomIn     Kind = "zoom_in"
	ZoomOut    Kind = "zoom_out"
)

// Two-input transitions.
const (
	FadeIn    Kind = "fadein"
	FadeOut   Kind = "fadeout"
	FadeInOut Kind = "fadeinout"
)

// ConcatKinds lists the boundary transitions in menu order.
func ConcatKinds() []Kind {
	return []Kind{None, Crossfade, FadeBlack, FadeWhite, SlideLeft, SlideRight, ZoomIn, ZoomOut}
}

// PairKinds lists the two-input transitions in menu order.
func PairKinds() []Kind {
	return []Kind{Crossfade, FadeIn, FadeOut, FadeInOut}
}

// Overlaps reports whether the transition consumes frames from both sides of
// a boundary, shortening the result by n frames per boundary.
func (k Kind) Overlaps() bool {
	switch k {
	case Crossfade, SlideLeft, SlideRight, ZoomIn, ZoomOut:
		return true
	}
	return false
}

// FrameCount converts a transition duration in seconds to frames. Any
// positive duration spans at least one frame.
func FrameCount(seconds, fps float64) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return max(1, int(math.Round(seconds*fps)))
}

// Concatenate joins clips applying kind at every boundary. n is the
// transition length in frames and must be shorter than every clip.
func Concatenate(clips []*clip.Clip, kind Kind, n int) (*clip.Clip, error) {
	if err := clip.Compatible(clips...); err != nil {
		return nil, err
	}
	if len(clips) == 1 {
		return clips[0], nil
	}
	if kind == None {
		return clip.Concat(clips...)
	}
	join, ok := boundaries[kind]
	if !ok {
		return nil, mediaerr.Incompatible("unknown transition type %q", kind)
	}
	if err := checkLength(clips, n); err != nil {
		return nil, err
	}

	acc := clips[0].Frames()
	for _, next := range clips[1:] {
		acc = join(acc, next.Frames(), n)
	}
	return joined(clips, kind, n, acc)
}

// Pair joins two clips with a two-input transition.
func Pair(a, b *clip.Clip, kind Kind, n int) (*clip.Clip, error) {
	if err := clip.Compatible(a, b); err != nil {
		return nil, err
	}
	pair := []*clip.Clip{a, b}
	if err := checkLength(pair, n); err != nil {
		return nil, err
	}

	head, tail := a.Frames(), b.Frames()
	var frames []*image.NRGBA
	switch kind {
	case Crossfade:
		frames = crossfade(head, tail, n)
	case FadeIn:
		frames = append(head, fadeInFrom(tail, black, n)...)
	case FadeOut:
		frames = append(fadeOutTo(head, black, n), tail...)
	case FadeInOut:
		frames = append(fadeOutTo(head, black, n), fadeInFrom(tail, black, n)...)
	default:
		return nil, mediaerr.Incompatible("unknown transition type %q", kind)
	}
	return joined(pair, kind, n, frames)
}

// joined wraps frames as a clip carrying the soundtracks of clips. Audio
// crossfades wherever the pictures overlap.
func joined(clips []*clip.Clip, kind Kind, n int, frames []*image.NRGBA) (*clip.Clip, error) {
	out, err := clips[0].WithFrames(frames)
	if err != nil {
		return nil, err
	}
	var overlap time.Duration
	if kind.Overlaps() {
		overlap = clip.Seconds(float64(n) / clips[0].FPS())
	}
	return out.WithAudio(clip.JoinAudio(clips, overlap)...), nil
}

func checkLength(clips []*clip.Clip, n int) error {
	if n < 1 {
		return mediaerr.Incompatible("transition must span at least one frame, got %d", n)
	}
	shortest := clips[0].Len()
	for _, c := range clips[1:] {
		shortest = min(shortest, c.Len())
	}
	if n >= shortest {
		return mediaerr.Incompatible("transition of %d frames does not fit in a clip of %d frames", n, shortest)
	}
	return nil
}

type joinFunc func(head, tail []*image.NRGBA, n int) []*image.NRGBA

var boundaries = map[Kind]joinFunc{
	Crossfade: crossfade,
	FadeBlack: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return fadeThrough(head, tail, black, n)
	},
	FadeWhite: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return fadeThrough(head, tail, white, n)
	},
	SlideLeft: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return overlap(head, tail, n, func(a, b *image.NRGBA, p float64) *image.NRGBA {
			return slide(a, b, p, 1)
		})
	},
	SlideRight: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return overlap(head, tail, n, func(a, b *image.NRGBA, p float64) *image.NRGBA {
			return slide(a, b, p, -1)
		})
	},
	ZoomIn: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return overlap(head, tail, n, func(a, b *image.NRGBA, p float64) *image.NRGBA {
			return blend(zoom(a, 1+p), b, p)
		})
	},
	ZoomOut: func(head, tail []*image.NRGBA, n int) []*image.NRGBA {
		return overlap(head, tail, n, func(a, b *image.NRGBA, p float64) *image.NRGBA {
			return blend(a, zoom(b, 2-p), p)
		})
	},
}

// overlap merges the last n frames of head with the first n frames of tail.
func overlap(head, tail []*image.NRGBA, n int, mix func(a, b *image.NRGBA, p float64) *image.NRGBA) []*image.NRGBA {
	out := make([]*image.NRGBA, 0, len(head)+len(tail)-n)
	out = append(out, head[:len(head)-n]...)
	for k := 0; k < n; k++ {
		out = append(out, mix(head[len(head)-n+k], tail[k], progress(k, n)))
	}
	return append(out, tail[n:]...)
}

func crossfade(head, tail []*image.NRGBA, n int) []*image.NRGBA {
	return overlap(head, tail, n, blend)
}

func fadeThrough(head, tail []*image.NRGBA, c color.NRGBA, n int) []*image.NRGBA {
	return append(fadeOutTo(head, c, n), fadeInFrom(tail, c, n)...)
}

// fadeInFrom ramps the first n frames up from c; frame 0 is solid c.
func fadeInFrom(imgs []*image.NRGBA, c color.NRGBA, n int) []*image.NRGBA {
	out := make([]*image.NRGBA, len(imgs))
	copy(out, imgs)
	for k := 0; k < n && k < len(out); k++ {
		out[k] = fadeTo(out[k], c, 1-float64(k)/float64(n))
	}
	return out
}

// fadeOutTo ramps the last n frames down toward c.
func fadeOutTo(imgs []*image.NRGBA, c color.NRGBA, n int) []*image.NRGBA {
	out := make([]*image.NRGBA, len(imgs))
	copy(out, imgs)
	start := max(len(out)-n, 0)
	for k := start; k < len(out); k++ {
		out[k] = fadeTo(out[k], c, float64(k-start+1)/float64(n))
	}
	return out
}
