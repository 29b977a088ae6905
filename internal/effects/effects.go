// Package effects implements per-frame pixel transforms and timeline
// effects applied to clips.
package effects

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/kikiluvv/reelgraph/internal/clip"
)

// contrastPivot is the mid-gray level that fixed-pivot contrast scales around.
const contrastPivot = 127.5

// ErrUnknownEffect is returned by Apply for an unregistered effect name.
var ErrUnknownEffect = errors.New("unknown effect type")

// Brightness multiplies every color channel by factor.
func Brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	return mapRGB(img, func(v float64) float64 { return v * factor })
}

// Contrast scales every color channel around mid-gray by factor.
func Contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	return mapRGB(img, func(v float64) float64 {
		return contrastPivot + factor*(v-contrastPivot)
	})
}

// Blur applies a gaussian blur with the given sigma.
func Blur(img *image.NRGBA, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return img
	}
	return imaging.Blur(img, sigma)
}

// Sharpen applies an unsharp mask: v + intensity*(v - blur(v, 1)).
func Sharpen(img *image.NRGBA, intensity float64) *image.NRGBA {
	if intensity <= 0 {
		return img
	}
	blurred := imaging.Blur(img, 1)
	src := toFloat(img)
	soft := toFloat(blurred)
	for i := range src {
		src[i] = src[i] + intensity*(src[i]-soft[i])
	}
	return fromFloat(src, img)
}

// MirrorX flips the frame horizontally.
func MirrorX(img *image.NRGBA) *image.NRGBA {
	return imaging.FlipH(img)
}

// MirrorY flips the frame vertically.
func MirrorY(img *image.NRGBA) *image.NRGBA {
	return imaging.FlipV(img)
}

// Noise adds gaussian noise with standard deviation level*255 drawn from rng.
func Noise(img *image.NRGBA, level float64, rng *rand.Rand) *image.NRGBA {
	if level <= 0 {
		return img
	}
	std := level * 255
	return mapRGB(img, func(v float64) float64 {
		return v + rng.NormFloat64()*std
	})
}

// Vignette is a precomputed radial darkening mask for one frame size.
type Vignette struct {
	width  int
	height int
	mask   []float64
}

// NewVignette builds a mask of 1 - clamp(r*intensity*0.7) where r is the
// distance from the frame center with edges at |x|, |y| = 1.
func NewVignette(width, height int, intensity float64) *Vignette {
	v := &Vignette{width: width, height: height, mask: make([]float64, width*height)}
	for y := 0; y < height; y++ {
		ny := linspace(y, height)
		for x := 0; x < width; x++ {
			nx := linspace(x, width)
			r := math.Sqrt(nx*nx + ny*ny)
			v.mask[y*width+x] = 1 - clamp01(r*intensity*0.7)
		}
	}
	return v
}

// Apply multiplies the frame by the mask. Frames of another size are
// returned unchanged.
func (v *Vignette) Apply(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() != v.width || b.Dy() != v.height {
		return img
	}
	buf := toFloat(img)
	for p, m := range v.mask {
		buf[p*3] *= m
		buf[p*3+1] *= m
		buf[p*3+2] *= m
	}
	return fromFloat(buf, img)
}

// linspace maps index i of n evenly spaced samples onto [-1, 1].
func linspace(i, n int) float64 {
	if n <= 1 {
		return -1
	}
	return -1 + 2*float64(i)/float64(n-1)
}

// Speed retimes a clip by factor: the result has round(n/factor) frames and
// output frame i shows source frame floor(i*factor). The frame rate is kept
// and the audio reference is dropped.
func Speed(c *clip.Clip, factor float64) (*clip.Clip, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("speed factor must be positive, got %v", factor)
	}
	if factor == 1 {
		return c, nil
	}
	n := int(math.Round(float64(c.Len()) / factor))
	if n < 1 {
		n = 1
	}
	out := make([]*image.NRGBA, n)
	for i := range out {
		idx := int(math.Floor(float64(i) * factor))
		if idx >= c.Len() {
			idx = c.Len() - 1
		}
		out[i] = c.Frame(idx)
	}
	return c.WithFrames(out)
}
