package effects

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Grade is a set of color grading adjustments. The zero value (with Gamma 1)
// leaves frames untouched.
type Grade struct {
	Brightness float64 // -1..1, added as Brightness*255
	Contrast   float64 // -1..1, scales around the frame mean by 1+Contrast
	Saturation float64 // -1..1, scales HSV saturation by 1+Saturation
	Gamma      float64 // 0.1..3, applied as v^(1/Gamma)
	HueShift   float64 // degrees
}

// NeutralGrade returns a grade that changes nothing.
func NeutralGrade() Grade {
	return Grade{Gamma: 1}
}

// IsNeutral reports whether Apply would return its input unchanged.
func (g Grade) IsNeutral() bool {
	return g.Brightness == 0 && g.Contrast == 0 && g.Saturation == 0 &&
		(g.Gamma == 1 || g.Gamma == 0) && g.HueShift == 0
}

// Apply grades a frame in order: brightness, contrast, gamma, then
// saturation and hue in HSV space.
func (g Grade) Apply(img *image.NRGBA) *image.NRGBA {
	if g.IsNeutral() {
		return img
	}

	buf := toFloat(img)

	if g.Brightness != 0 {
		offset := g.Brightness * 255
		for i := range buf {
			buf[i] = clamp255(buf[i] + offset)
		}
	}

	if g.Contrast != 0 && len(buf) > 0 {
		var sum float64
		for _, v := range buf {
			sum += v
		}
		mean := sum / float64(len(buf))
		factor := 1 + g.Contrast
		for i := range buf {
			buf[i] = clamp255((buf[i]-mean)*factor + mean)
		}
	}

	if g.Gamma != 1 && g.Gamma > 0 {
		exp := 1 / g.Gamma
		for i := range buf {
			buf[i] = 255 * math.Pow(buf[i]/255, exp)
		}
	}

	if g.Saturation != 0 || g.HueShift != 0 {
		for i := 0; i+2 < len(buf); i += 3 {
			c := colorful.Color{R: buf[i] / 255, G: buf[i+1] / 255, B: buf[i+2] / 255}
			h, s, v := c.Hsv()
			if g.Saturation != 0 {
				s = clamp01(s * (1 + g.Saturation))
			}
			if g.HueShift != 0 {
				h = math.Mod(h+g.HueShift, 360)
				if h < 0 {
					h += 360
				}
			}
			out := colorful.Hsv(h, s, v)
			buf[i], buf[i+1], buf[i+2] = out.R*255, out.G*255, out.B*255
		}
	}

	return fromFloat(buf, img)
}
