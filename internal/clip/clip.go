// Package clip implements the time-indexed clip handle that nodes hand to the
// media backend, and the conversion between clips and host frame sequences.
//
// A Clip treats its frames as immutable: every operation returns a new Clip
// and never writes into pixels it did not allocate.
package clip

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"time"

	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/kikiluvv/reelgraph/pkg/util"
	"github.com/nfnt/resize"
)

// frameEpsilon absorbs nanosecond truncation when mapping times to indices.
const frameEpsilon = 1e-6

// Clip is a sequence of 8-bit frames played back at a fixed rate.
type Clip struct {
	frames   []*image.NRGBA
	fps      float64
	channels int
	audio    []AudioTrack
}

// New builds a clip from decoded frames. channels records the host channel
// count the frames represent (1, 3 or 4); zero means 3.
func New(imgs []*image.NRGBA, fps float64, channels int) (*Clip, error) {
	if len(imgs) == 0 {
		return nil, &mediaerr.InvalidShapeError{Index: -1, Reason: "clip has no frames"}
	}
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, &mediaerr.InvalidShapeError{Index: -1, Reason: fmt.Sprintf("invalid frame rate %v", fps)}
	}
	if channels == 0 {
		channels = 3
	}
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, &mediaerr.InvalidShapeError{Index: -1, Reason: fmt.Sprintf("unsupported channel count %d", channels)}
	}

	size := imgs[0].Bounds().Size()
	out := make([]*image.NRGBA, len(imgs))
	for i, img := range imgs {
		if img == nil {
			return nil, &mediaerr.InvalidShapeError{Index: i, Reason: "nil frame"}
		}
		if got := img.Bounds().Size(); got != size {
			return nil, &mediaerr.InvalidShapeError{
				Index:  i,
				Reason: fmt.Sprintf("size %dx%d differs from first frame %dx%d", got.X, got.Y, size.X, size.Y),
			}
		}
		out[i] = normalize(img)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, &mediaerr.InvalidShapeError{Index: 0, Reason: "empty frame"}
	}

	return &Clip{frames: out, fps: fps, channels: channels}, nil
}

// Len returns the number of frames.
func (c *Clip) Len() int { return len(c.frames) }

// FPS returns the playback rate.
func (c *Clip) FPS() float64 { return c.fps }

// Channels returns the host channel count.
func (c *Clip) Channels() int { return c.channels }

// Size returns the frame width and height.
func (c *Clip) Size() (width, height int) {
	b := c.frames[0].Bounds()
	return b.Dx(), b.Dy()
}

// Duration returns the playback length.
func (c *Clip) Duration() time.Duration {
	return util.SecondsToDuration(float64(len(c.frames)) / c.fps)
}

// Frame returns frame i. Callers must not modify it.
func (c *Clip) Frame(i int) *image.NRGBA {
	return c.frames[i]
}

// Frames returns the frame list. Callers must not modify the images.
func (c *Clip) Frames() []*image.NRGBA {
	out := make([]*image.NRGBA, len(c.frames))
	copy(out, c.frames)
	return out
}

// IndexAt maps a timestamp to the frame shown at that time, clamped to the clip.
func (c *Clip) IndexAt(t time.Duration) int {
	idx := int(math.Floor(t.Seconds()*c.fps + frameEpsilon))
	return clampIndex(idx, len(c.frames))
}

// FrameAt returns the frame shown at time t.
func (c *Clip) FrameAt(t time.Duration) *image.NRGBA {
	return c.frames[c.IndexAt(t)]
}

// WithChannels relabels the clip for a different host channel count.
// Converting to one channel collapses color to Rec. 601 luma; dropping the
// fourth channel makes every pixel opaque.
func (c *Clip) WithChannels(channels int) (*Clip, error) {
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, mediaerr.Incompatible("unsupported channel count %d", channels)
	}
	if channels == c.channels {
		return c, nil
	}
	out := c.Map(func(_ int, img *image.NRGBA) *image.NRGBA {
		dst := image.NewNRGBA(img.Bounds())
		copy(dst.Pix, img.Pix)
		for i := 0; i < len(dst.Pix); i += 4 {
			if channels == 1 {
				y := 0.299*float64(dst.Pix[i]) + 0.587*float64(dst.Pix[i+1]) + 0.114*float64(dst.Pix[i+2])
				g := uint8(math.Round(y))
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = g, g, g
			}
			if channels != 4 {
				dst.Pix[i+3] = 255
			}
		}
		return dst
	})
	out.channels = channels
	return out, nil
}

// WithFrames returns a clip with the same rate and channel count holding
// imgs. The soundtrack is dropped because the timeline changed.
func (c *Clip) WithFrames(imgs []*image.NRGBA) (*Clip, error) {
	return New(imgs, c.fps, c.channels)
}

// Map applies fn to every frame and keeps the timeline (and audio) intact.
func (c *Clip) Map(fn func(i int, img *image.NRGBA) *image.NRGBA) *Clip {
	out := make([]*image.NRGBA, len(c.frames))
	for i, img := range c.frames {
		out[i] = normalize(fn(i, img))
	}
	return &Clip{frames: out, fps: c.fps, channels: c.channels, audio: c.audio}
}

// Subclip returns the frames shown during [start, end), with the matching
// part of the soundtrack.
func (c *Clip) Subclip(start, end time.Duration) (*Clip, error) {
	if end <= start {
		return nil, mediaerr.Incompatible("subclip end %v must be after start %v", end, start)
	}
	first := clampBound(int(math.Floor(start.Seconds()*c.fps+frameEpsilon)), len(c.frames))
	last := clampBound(int(math.Ceil(end.Seconds()*c.fps-frameEpsilon)), len(c.frames))
	if last <= first {
		return nil, mediaerr.Incompatible("subclip %v-%v selects no frames", start, end)
	}

	out := &Clip{frames: c.frames[first:last:last], fps: c.fps, channels: c.channels}
	if len(c.audio) > 0 {
		from := util.SecondsToDuration(float64(first) / c.fps)
		to := util.SecondsToDuration(float64(last) / c.fps)
		out.audio = sliceAudio(c.audio, from, to)
	}
	return out, nil
}

// StartTime returns the timestamp of frame i.
func (c *Clip) StartTime(i int) time.Duration {
	return util.SecondsToDuration(float64(i) / c.fps)
}

// WithFPS resamples the clip to a new rate, keeping its duration, by picking
// the nearest earlier source frame for every output timestamp.
func (c *Clip) WithFPS(fps float64) (*Clip, error) {
	if fps <= 0 {
		return nil, mediaerr.Incompatible("invalid target frame rate %v", fps)
	}
	if fps == c.fps {
		return c, nil
	}
	n := int(math.Round(float64(len(c.frames)) * fps / c.fps))
	if n < 1 {
		n = 1
	}
	out := make([]*image.NRGBA, n)
	for j := range out {
		idx := int(math.Floor(float64(j)*c.fps/fps + frameEpsilon))
		out[j] = c.frames[clampIndex(idx, len(c.frames))]
	}
	return &Clip{frames: out, fps: fps, channels: c.channels, audio: c.audio}, nil
}

// Resize scales every frame to width x height with bilinear filtering.
func (c *Clip) Resize(width, height int) (*Clip, error) {
	if width <= 0 || height <= 0 {
		return nil, mediaerr.Incompatible("invalid target resolution %dx%d", width, height)
	}
	if w, h := c.Size(); w == width && h == height {
		return c, nil
	}
	return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA {
		return ResizeFrame(img, width, height)
	}), nil
}

// ResizeFrame scales a single frame with bilinear filtering.
func ResizeFrame(img *image.NRGBA, width, height int) *image.NRGBA {
	return normalize(resize.Resize(uint(width), uint(height), img, resize.Bilinear))
}

// Compatible reports whether clips can be joined: every clip must be
// non-empty and share the first clip's size, rate and channel count.
func Compatible(clips ...*Clip) error {
	if len(clips) == 0 {
		return mediaerr.Incompatible("no clips to combine")
	}
	for i, cl := range clips {
		if cl == nil || cl.Len() == 0 {
			return mediaerr.Incompatible("clip %d is empty", i)
		}
	}

	first := clips[0]
	w, h := first.Size()
	for i, cl := range clips[1:] {
		if cw, ch := cl.Size(); cw != w || ch != h {
			return mediaerr.Incompatible("clip %d is %dx%d, want %dx%d", i+1, cw, ch, w, h)
		}
		if math.Abs(cl.fps-first.fps) > frameEpsilon {
			return mediaerr.Incompatible("clip %d runs at %v fps, want %v", i+1, cl.fps, first.fps)
		}
		if cl.channels != first.channels {
			return mediaerr.Incompatible("clip %d has %d channels, want %d", i+1, cl.channels, first.channels)
		}
	}
	return nil
}

// Concat joins clips end to end. All clips must share size, rate and channel
// count. Soundtracks are joined in the same order.
func Concat(clips ...*Clip) (*Clip, error) {
	if err := Compatible(clips...); err != nil {
		return nil, err
	}
	if len(clips) == 1 {
		return clips[0], nil
	}

	total := 0
	for _, cl := range clips {
		total += cl.Len()
	}
	out := make([]*image.NRGBA, 0, total)
	for _, cl := range clips {
		out = append(out, cl.frames...)
	}
	return &Clip{frames: out, fps: clips[0].fps, channels: clips[0].channels, audio: JoinAudio(clips, 0)}, nil
}

// normalize returns img as an NRGBA anchored at the origin with a tight stride.
func normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		b := n.Bounds()
		if b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
			return n
		}
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func clampBound(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// Seconds converts a float second count into a time.Duration.
func Seconds(sec float64) time.Duration {
	return util.SecondsToDuration(sec)
}
