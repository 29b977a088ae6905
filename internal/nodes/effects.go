package nodes

import (
	"context"
	"image"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/effects"
	"github.com/kikiluvv/reelgraph/internal/frames"
)

// VideoEffects applies one named effect to a VIDEO.
type VideoEffects struct{}

func (VideoEffects) Describe() Descriptor {
	def := effects.DefaultParams()
	return Descriptor{
		Name:        "VideoEffects",
		DisplayName: "Video Effects",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			videoInput("video"),
			choiceInput("effect_type", effects.Names()...),
			floatInput("intensity", def.Intensity, 0, 10, 0.1),
			optional(intInput("blur_radius", def.BlurRadius, 1, 20)),
			optional(floatInput("speed_factor", def.SpeedFactor, 0.1, 10, 0.1)),
			optional(floatInput("noise_level", def.NoiseLevel, 0, 1, 0.01)),
			optional(withTooltip(intInput("seed", 0, 0, 1<<31-1), "Random seed for the noise effect.")),
		},
		Outputs: []Output{{Name: "video", Type: TypeVideo}},
	}
}

func (VideoEffects) Execute(_ context.Context, env *Env, in Inputs) ([]any, error) {
	params := effects.Params{
		Intensity:   in.Float("intensity"),
		BlurRadius:  in.Int("blur_radius"),
		SpeedFactor: in.Float("speed_factor"),
		NoiseLevel:  in.Float("noise_level"),
		Seed:        int64(in.Int("seed")),
	}
	name := in.String("effect_type")

	out, err := effects.Apply(in.Video("video"), name, params)
	if err != nil {
		return nil, err
	}
	env.Logger.Debug().Str("effect", name).Int("frames", out.Len()).Msg("effect applied")
	return []any{out}, nil
}

// ColorGrading adjusts brightness, contrast, saturation, gamma and hue.
type ColorGrading struct{}

func (ColorGrading) Describe() Descriptor {
	neutral := effects.NeutralGrade()
	return Descriptor{
		Name:        "ColorGrading",
		DisplayName: "Color Grading",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			videoInput("video"),
			floatInput("brightness", neutral.Brightness, -1, 1, 0.01),
			floatInput("contrast", neutral.Contrast, -1, 1, 0.01),
			floatInput("saturation", neutral.Saturation, -1, 1, 0.01),
			floatInput("gamma", neutral.Gamma, 0.1, 3, 0.01),
			floatInput("hue_shift", neutral.HueShift, -180, 180, 1),
		},
		Outputs: []Output{{Name: "video", Type: TypeVideo}},
	}
}

func (ColorGrading) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	g := effects.Grade{
		Brightness: in.Float("brightness"),
		Contrast:   in.Float("contrast"),
		Saturation: in.Float("saturation"),
		Gamma:      in.Float("gamma"),
		HueShift:   in.Float("hue_shift"),
	}
	return []any{effects.GradeClip(in.Video("video"), g)}, nil
}

// mapImages runs fn over an IMAGE batch through a clip at fps.
func mapImages(seq frames.Sequence, fps float64, fn func(img *image.NRGBA) *image.NRGBA) (frames.Sequence, error) {
	c, err := clip.ToClip(seq, fps)
	if err != nil {
		return nil, err
	}
	return clip.FromClip(c.Map(func(_ int, img *image.NRGBA) *image.NRGBA { return fn(img) }))
}

// BrightnessEffect multiplies IMAGE values by a factor.
type BrightnessEffect struct{}

func (BrightnessEffect) Describe() Descriptor {
	return Descriptor{
		Name:        "BrightnessEffect",
		DisplayName: "Brightness",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			imageInput("IMAGE"),
			floatInput("factor", 1, 0, 3, 0.01),
			floatInput("fps", 24, 1, 120, 0.1),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

func (BrightnessEffect) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	seq, factor := in.Image("IMAGE"), in.Float("factor")
	if factor == 1 {
		return []any{seq}, nil
	}
	out, err := mapImages(seq, in.Float("fps"), func(img *image.NRGBA) *image.NRGBA {
		return effects.Brightness(img, factor)
	})
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}

// ContrastEffect scales IMAGE values around mid-gray.
type ContrastEffect struct{}

func (ContrastEffect) Describe() Descriptor {
	return Descriptor{
		Name:        "ContrastEffect",
		DisplayName: "Contrast",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			imageInput("IMAGE"),
			floatInput("factor", 1, 0, 3, 0.01),
			floatInput("fps", 24, 1, 120, 0.1),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

func (ContrastEffect) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	seq, factor := in.Image("IMAGE"), in.Float("factor")
	if factor == 1 {
		return []any{seq}, nil
	}
	out, err := mapImages(seq, in.Float("fps"), func(img *image.NRGBA) *image.NRGBA {
		return effects.Contrast(img, factor)
	})
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}

// SpeedEffect retimes an IMAGE batch.
type SpeedEffect struct{}

func (SpeedEffect) Describe() Descriptor {
	return Descriptor{
		Name:        "SpeedEffect",
		DisplayName: "Speed",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			imageInput("IMAGE"),
			withTooltip(floatInput("factor", 1, 0.1, 10, 0.1), "Above 1 speeds up, below 1 slows down."),
			floatInput("fps", 24, 1, 120, 0.1),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

func (SpeedEffect) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	seq, factor := in.Image("IMAGE"), in.Float("factor")
	if factor == 1 {
		return []any{seq}, nil
	}
	c, err := clip.ToClip(seq, in.Float("fps"))
	if err != nil {
		return nil, err
	}
	sped, err := effects.Speed(c, factor)
	if err != nil {
		return nil, err
	}
	out, err := clip.FromClip(sped)
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}
