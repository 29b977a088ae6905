package clip

import (
	"image"
	"math"

	"github.com/kikiluvv/reelgraph/internal/frames"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

// ToClip converts a host frame sequence into a clip played at fps.
// Values are clamped into [0, 1] and rounded to the nearest 8-bit level.
// Single-channel frames are replicated into gray RGB; a fourth channel is
// kept as alpha.
func ToClip(seq frames.Sequence, fps float64) (*Clip, error) {
	shape, err := seq.Shape()
	if err != nil {
		return nil, err
	}
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, &mediaerr.InvalidShapeError{Index: -1, Reason: "frame rate must be positive"}
	}

	imgs := make([]*image.NRGBA, len(seq))
	for i, f := range seq {
		imgs[i] = frameToImage(f)
	}
	return New(imgs, fps, shape.Channels)
}

// FromClip converts a clip back into host frames with the clip's channel count.
func FromClip(c *Clip) (frames.Sequence, error) {
	if c == nil || c.Len() == 0 {
		return nil, &mediaerr.InvalidShapeError{Index: -1, Reason: "clip has no frames"}
	}
	out := make(frames.Sequence, c.Len())
	for i, img := range c.frames {
		out[i] = imageToFrame(img, c.channels)
	}
	return out, nil
}

// ToByte maps a normalized value to an 8-bit level.
func ToByte(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

func frameToImage(f frames.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	n := f.Width * f.Height
	for p := 0; p < n; p++ {
		src := f.Pix[p*f.Channels : (p+1)*f.Channels]
		dst := img.Pix[p*4 : p*4+4]
		switch f.Channels {
		case 1:
			g := ToByte(src[0])
			dst[0], dst[1], dst[2], dst[3] = g, g, g, 255
		case 3:
			dst[0], dst[1], dst[2], dst[3] = ToByte(src[0]), ToByte(src[1]), ToByte(src[2]), 255
		case 4:
			dst[0], dst[1], dst[2], dst[3] = ToByte(src[0]), ToByte(src[1]), ToByte(src[2]), ToByte(src[3])
		}
	}
	return img
}

func imageToFrame(img *image.NRGBA, channels int) frames.Frame {
	b := img.Bounds()
	f := frames.NewFrame(b.Dy(), b.Dx(), channels)
	n := b.Dx() * b.Dy()
	for p := 0; p < n; p++ {
		src := img.Pix[p*4 : p*4+4]
		dst := f.Pix[p*channels : (p+1)*channels]
		switch channels {
		case 1:
			dst[0] = float32(src[0]) / 255
		case 3:
			dst[0], dst[1], dst[2] = float32(src[0])/255, float32(src[1])/255, float32(src[2])/255
		case 4:
			dst[0], dst[1], dst[2], dst[3] = float32(src[0])/255, float32(src[1])/255, float32(src[2])/255, float32(src[3])/255
		}
	}
	return f
}
