package transitions

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/kikiluvv/reelgraph/internal/clip"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// blend returns (1-t)*a + t*b channel by channel, alpha included.
func blend(a, b *image.NRGBA, t float64) *image.NRGBA {
	out := image.NewNRGBA(a.Bounds())
	for i := range out.Pix {
		v := (1-t)*float64(a.Pix[i]) + t*float64(b.Pix[i])
		out.Pix[i] = uint8(math.Round(v))
	}
	return out
}

// fadeTo mixes img toward a solid color by t, keeping alpha.
func fadeTo(img *image.NRGBA, c color.NRGBA, t float64) *image.NRGBA {
	if t <= 0 {
		return img
	}
	target := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			v := (1-t)*float64(img.Pix[i+ch]) + t*target[ch]
			out.Pix[i+ch] = uint8(math.Round(v))
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// slide composites outgoing shifted by -dir*offset and incoming entering from
// the opposite edge. dir is +1 for a leftward slide and -1 for rightward.
func slide(outgoing, incoming *image.NRGBA, p float64, dir int) *image.NRGBA {
	b := outgoing.Bounds()
	w := b.Dx()
	offset := int(math.Round(float64(w) * p))

	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, image.NewUniform(black), image.Point{}, draw.Src)
	draw.Draw(dst, b.Add(image.Pt(-dir*offset, 0)), outgoing, image.Point{}, draw.Src)
	draw.Draw(dst, b.Add(image.Pt(dir*(w-offset), 0)), incoming, image.Point{}, draw.Src)
	return dst
}

// zoom magnifies img by scale >= 1 around its center, keeping the frame size.
func zoom(img *image.NRGBA, scale float64) *image.NRGBA {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	cw := int(math.Max(1, math.Round(float64(b.Dx())/scale)))
	ch := int(math.Max(1, math.Round(float64(b.Dy())/scale)))
	cropped := imaging.CropCenter(img, cw, ch)
	return clip.ResizeFrame(cropped, b.Dx(), b.Dy())
}

// progress is the blend weight of overlap frame k out of n; it never reaches
// 0 or 1 so every overlap frame mixes both sources.
func progress(k, n int) float64 {
	return float64(k+1) / float64(n+1)
}
