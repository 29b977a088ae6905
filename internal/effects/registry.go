package effects

import (
	"fmt"
	"image"
	"math/rand"
	"slices"

	"github.com/kikiluvv/reelgraph/internal/clip"
)

// Params carries the knobs shared by the named clip effects.
type Params struct {
	Intensity   float64
	BlurRadius  int
	SpeedFactor float64
	NoiseLevel  float64
	Seed        int64
}

// DefaultParams returns the knob values a fresh VideoEffects node starts with.
func DefaultParams() Params {
	return Params{Intensity: 1, BlurRadius: 2, SpeedFactor: 1.5, NoiseLevel: 0.1}
}

type effectFunc func(c *clip.Clip, p Params) (*clip.Clip, error)

var registry = map[string]effectFunc{
	"none": func(c *clip.Clip, _ Params) (*clip.Clip, error) { return c, nil },
	"blur": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		sigma := float64(p.BlurRadius) * p.Intensity
		if sigma <= 0 {
			return c, nil
		}
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return Blur(img, sigma) }), nil
	},
	"sharpen": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		if p.Intensity <= 0 {
			return c, nil
		}
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return Sharpen(img, p.Intensity) }), nil
	},
	"mirror_x": func(c *clip.Clip, _ Params) (*clip.Clip, error) {
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return MirrorX(img) }), nil
	},
	"mirror_y": func(c *clip.Clip, _ Params) (*clip.Clip, error) {
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return MirrorY(img) }), nil
	},
	"speed_up": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		return Speed(c, p.SpeedFactor)
	},
	"slow_down": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		factor := p.SpeedFactor
		if factor > 1 {
			factor = 1 / factor
		}
		return Speed(c, factor)
	},
	"noise": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		if p.NoiseLevel <= 0 {
			return c, nil
		}
		rng := rand.New(rand.NewSource(p.Seed))
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return Noise(img, p.NoiseLevel, rng) }), nil
	},
	"vignette": func(c *clip.Clip, p Params) (*clip.Clip, error) {
		if p.Intensity <= 0 {
			return c, nil
		}
		w, h := c.Size()
		mask := NewVignette(w, h, p.Intensity)
		return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return mask.Apply(img) }), nil
	},
}

// menu is the display order of the registered effects.
var menu = []string{"none", "blur", "sharpen", "mirror_x", "mirror_y", "speed_up", "slow_down", "noise", "vignette"}

// Names lists the registered effect names in menu order.
func Names() []string {
	return slices.Clone(menu)
}

// Apply runs the named effect over the clip.
func Apply(c *clip.Clip, name string, p Params) (*clip.Clip, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return fn(c, p)
}

// GradeClip applies g to every frame of c.
func GradeClip(c *clip.Clip, g Grade) *clip.Clip {
	if g.IsNeutral() {
		return c
	}
	return c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return g.Apply(img) })
}
