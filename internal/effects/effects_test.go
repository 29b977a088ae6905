package effects

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyImage(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
		if i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	return img
}

func testClip(t *testing.T, n int) *clip.Clip {
	t.Helper()
	imgs := make([]*image.NRGBA, n)
	for i := range imgs {
		imgs[i] = noisyImage(8, 6, int64(i))
	}
	c, err := clip.New(imgs, 24, 3)
	require.NoError(t, err)
	return c
}

func assertSamePixels(t *testing.T, want, got *clip.Clip) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.Equal(t, want.Frame(i).Pix, got.Frame(i).Pix, "frame %d", i)
	}
}

func TestNeutralParametersAreIdentity(t *testing.T) {
	c := testClip(t, 4)
	img := c.Frame(0)

	assert.Equal(t, img.Pix, Brightness(img, 1).Pix)
	assert.Equal(t, img.Pix, Contrast(img, 1).Pix)
	assert.Equal(t, img.Pix, Blur(img, 0).Pix)
	assert.Equal(t, img.Pix, Sharpen(img, 0).Pix)
	assert.Equal(t, img.Pix, Noise(img, 0, rand.New(rand.NewSource(1))).Pix)
	assert.Equal(t, img.Pix, NewVignette(8, 6, 0).Apply(img).Pix)
	assert.Equal(t, img.Pix, NeutralGrade().Apply(img).Pix)

	assertSamePixels(t, c, GradeClip(c, NeutralGrade()))

	neutral := Params{Intensity: 0, BlurRadius: 2, SpeedFactor: 1, NoiseLevel: 0}
	for _, name := range []string{"none", "blur", "sharpen", "speed_up", "slow_down", "noise", "vignette"} {
		t.Run(name, func(t *testing.T) {
			out, err := Apply(c, name, neutral)
			require.NoError(t, err)
			assertSamePixels(t, c, out)
		})
	}
}

func TestBrightnessAndContrast(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{100, 200, 0, 255})

	bright := Brightness(img, 1.5)
	assert.Equal(t, []uint8{150, 255, 0, 255}, bright.Pix)

	flat := Contrast(img, 0)
	assert.Equal(t, []uint8{128, 128, 128, 255}, flat.Pix)

	strong := Contrast(img, 2)
	assert.Equal(t, []uint8{73, 255, 0, 255}, strong.Pix)
}

func TestGradeBrightnessOffset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{10, 20, 250, 128})

	out := Grade{Brightness: 0.1, Gamma: 1}.Apply(img)
	assert.Equal(t, []uint8{36, 46, 255, 128}, out.Pix)
}

func TestGradeSaturationToGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{200, 50, 50, 255})

	out := Grade{Saturation: -1, Gamma: 1}.Apply(img)
	assert.Equal(t, out.Pix[0], out.Pix[1])
	assert.Equal(t, out.Pix[1], out.Pix[2])
	assert.Equal(t, uint8(200), out.Pix[0])
}

func TestGradeHueShift(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{255, 0, 0, 255})

	out := Grade{HueShift: 120, Gamma: 1}.Apply(img)
	assert.Equal(t, []uint8{0, 255, 0, 255}, out.Pix)

	back := Grade{HueShift: -120, Gamma: 1}.Apply(out)
	assert.Equal(t, img.Pix, back.Pix)
}

func TestMirrorTwiceIsIdentity(t *testing.T) {
	img := noisyImage(5, 3, 7)
	assert.Equal(t, img.Pix, MirrorX(MirrorX(img)).Pix)
	assert.Equal(t, img.Pix, MirrorY(MirrorY(img)).Pix)
	assert.NotEqual(t, img.Pix, MirrorX(img).Pix)
}

func TestVignetteDarkensCorners(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 9))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	out := NewVignette(9, 9, 1).Apply(img)
	assert.Equal(t, uint8(255), out.NRGBAAt(4, 4).R)
	assert.Less(t, out.NRGBAAt(0, 0).R, uint8(255))
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).A)
}

func TestSpeed(t *testing.T) {
	c := testClip(t, 12)

	fast, err := Apply(c, "speed_up", Params{SpeedFactor: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, fast.Len())
	assert.Equal(t, c.Frame(2).Pix, fast.Frame(1).Pix)

	slow, err := Apply(c, "slow_down", Params{SpeedFactor: 2})
	require.NoError(t, err)
	assert.Equal(t, 24, slow.Len())
	assert.Equal(t, c.Frame(1).Pix, slow.Frame(3).Pix)

	_, err = Speed(c, 0)
	assert.Error(t, err)
}

func TestNoiseIsSeeded(t *testing.T) {
	c := testClip(t, 2)
	p := Params{NoiseLevel: 0.2, Seed: 42}
	a, err := Apply(c, "noise", p)
	require.NoError(t, err)
	b, err := Apply(c, "noise", p)
	require.NoError(t, err)
	assertSamePixels(t, a, b)
}

func TestUnknownEffect(t *testing.T) {
	_, err := Apply(testClip(t, 1), "sepia", DefaultParams())
	assert.True(t, errors.Is(err, ErrUnknownEffect))
}

func TestEveryMenuEffectApplies(t *testing.T) {
	names := Names()
	assert.Equal(t, "none", names[0])
	assert.Len(t, names, len(registry))

	c := testClip(t, 6)
	for _, name := range names {
		out, err := Apply(c, name, DefaultParams())
		require.NoError(t, err, name)
		assert.Positive(t, out.Len(), name)
	}
}
