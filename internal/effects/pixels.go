package effects

import (
	"image"
	"math"
)

// mapRGB applies fn to the color channels of every pixel, leaving alpha alone.
func mapRGB(img *image.NRGBA, fn func(v float64) float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for x := 0; x < len(src); x += 4 {
			dst[x] = toByte(fn(float64(src[x])))
			dst[x+1] = toByte(fn(float64(src[x+1])))
			dst[x+2] = toByte(fn(float64(src[x+2])))
			dst[x+3] = src[x+3]
		}
	}
	return out
}

// toFloat unpacks the color channels into a float buffer of w*h*3 values.
func toFloat(img *image.NRGBA) []float64 {
	b := img.Bounds()
	buf := make([]float64, 0, b.Dx()*b.Dy()*3)
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			buf = append(buf, float64(row[x]), float64(row[x+1]), float64(row[x+2]))
		}
	}
	return buf
}

// fromFloat packs a float buffer back into an image, copying alpha from like.
func fromFloat(buf []float64, like *image.NRGBA) *image.NRGBA {
	b := like.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	i := 0
	for y := 0; y < b.Dy(); y++ {
		src := like.Pix[y*like.Stride : y*like.Stride+b.Dx()*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for x := 0; x < len(dst); x += 4 {
			dst[x] = toByte(buf[i])
			dst[x+1] = toByte(buf[i+1])
			dst[x+2] = toByte(buf[i+2])
			dst[x+3] = src[x+3]
			i += 3
		}
	}
	return out
}

func clamp255(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp255(v)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
