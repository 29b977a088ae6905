package overlay

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.NRGBA
		wantOK bool
		err    bool
	}{
		{"", color.NRGBA{}, false, false},
		{"black", color.NRGBA{A: 255}, true, false},
		{"White", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true, false},
		{"#ff8000", color.NRGBA{R: 255, G: 128, A: 255}, true, false},
		{"10, 20, 30", color.NRGBA{R: 10, G: 20, B: 30, A: 255}, true, false},
		{"10,20,30,40", color.NRGBA{R: 10, G: 20, B: 30, A: 40}, true, false},
		{"transparent", color.NRGBA{}, true, false},
		{"300,0,0", color.NRGBA{}, false, true},
		{"1,2", color.NRGBA{}, false, true},
		{"#zzzzzz", color.NRGBA{}, false, true},
		{"notacolor", color.NRGBA{}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, err := ParseColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMargin(t *testing.T) {
	m, err := ParseMargin("16,8")
	require.NoError(t, err)
	assert.Equal(t, Margin{Left: 16, Top: 8, Right: 16, Bottom: 8}, m)

	m, err = ParseMargin("1,2,3,4")
	require.NoError(t, err)
	assert.Equal(t, Margin{Left: 1, Top: 2, Right: 3, Bottom: 4}, m)

	m, err = ParseMargin(" ")
	require.NoError(t, err)
	assert.Equal(t, Margin{}, m)

	for _, bad := range []string{"1", "1,2,3", "a,b", "-1,2"} {
		_, err := ParseMargin(bad)
		assert.Error(t, err, bad)
	}
}

func whiteFrame(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func countDark(img *image.NRGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y).R < 128 {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsInsideBlock(t *testing.T) {
	st := DefaultStyle()
	st.FontSize = 20
	st.Position = PositionTop

	txt, err := Render("Hello\nreel", st, image.Pt(200, 120))
	require.NoError(t, err)

	frame := whiteFrame(200, 120)
	out := txt.Draw(frame)

	block := txt.Bounds().Add(txt.Origin(200, 120))
	assert.Equal(t, 16, block.Min.Y)
	assert.Greater(t, countDark(out, block), 0)
	assert.Equal(t, countDark(out, out.Bounds()), countDark(out, block))
	assert.Equal(t, 0, countDark(frame, frame.Bounds()), "source frame must not change")
}

func TestOriginPlacement(t *testing.T) {
	st := DefaultStyle()
	st.FontSize = 12
	st.Margin = Margin{Left: 5, Top: 6, Right: 7, Bottom: 8}

	txt, err := Render("x", st, image.Pt(100, 80))
	require.NoError(t, err)
	b := txt.Bounds()

	tests := []struct {
		align Align
		pos   Position
		want  image.Point
	}{
		{AlignLeft, PositionTop, image.Pt(5, 6)},
		{AlignRight, PositionBottom, image.Pt(100-b.Dx()-7, 80-b.Dy()-8)},
		{AlignCenter, PositionCenter, image.Pt((100-b.Dx())/2, (80-b.Dy())/2)},
	}
	for _, tt := range tests {
		txt.style.HorizontalAlign = tt.align
		txt.style.Position = tt.pos
		assert.Equal(t, tt.want, txt.Origin(100, 80))
	}
}

func TestBackgroundFillsBlock(t *testing.T) {
	st := DefaultStyle()
	st.FontSize = 10
	bg := color.NRGBA{R: 255, A: 255}
	st.Background = &bg

	txt, err := Render("bg", st, image.Pt(80, 40))
	require.NoError(t, err)
	out := txt.Draw(whiteFrame(80, 40))
	o := txt.Origin(80, 40)
	assert.Equal(t, uint8(0), out.NRGBAAt(o.X, o.Y).G)
}

func TestRenderMissingFont(t *testing.T) {
	st := DefaultStyle()
	st.FontPath = "/nonexistent/font.ttf"
	_, err := Render("x", st, image.Pt(10, 10))
	assert.Error(t, err)
}

const pangram = "the quick brown fox jumps over the lazy dog"

func darkRows(img *image.NRGBA) (first, last int) {
	first, last = -1, -1
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if countDark(img, image.Rect(b.Min.X, y, b.Max.X, y+1)) > 0 {
			if first < 0 {
				first = y
			}
			last = y
		}
	}
	return first, last
}

func TestWrapLines(t *testing.T) {
	face, err := loadFace("", 20)
	require.NoError(t, err)
	defer face.Close()

	lines := wrapLines(face, []string{pangram, "", "tiny"}, 120)
	require.Greater(t, len(lines), 3)
	for _, line := range lines {
		assert.LessOrEqual(t, font.MeasureString(face, line).Ceil(), 120, line)
	}
	assert.Equal(t, pangram, strings.Join(lines[:len(lines)-2], " "))
	assert.Equal(t, []string{"", "tiny"}, lines[len(lines)-2:])

	assert.Equal(t, []string{"unbreakable"}, wrapLines(face, []string{"unbreakable"}, 5))
}

func TestCaptionWrapsInsideMargins(t *testing.T) {
	st := DefaultStyle()
	st.Method = MethodCaption
	st.FontSize = 20
	st.Margin = Margin{Left: 20, Top: 10, Right: 20, Bottom: 10}

	frame := whiteFrame(200, 160)
	txt, err := Render(pangram, st, image.Pt(200, 160))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 160), txt.Bounds())
	assert.Equal(t, image.Point{}, txt.Origin(200, 160))

	out := txt.Draw(frame)
	inside := image.Rect(20, 10, 180, 150)
	assert.Greater(t, countDark(out, inside), 0)
	assert.Equal(t, countDark(out, out.Bounds()), countDark(out, inside))

	label := st
	label.Method = MethodLabel
	wide, err := Render(pangram, label, image.Pt(200, 160))
	require.NoError(t, err)
	assert.Greater(t, wide.Bounds().Dx(), 200)
}

func TestCaptionVerticalAlign(t *testing.T) {
	st := DefaultStyle()
	st.Method = MethodCaption
	st.FontSize = 16

	rows := map[Position]int{}
	for _, p := range []Position{PositionTop, PositionCenter, PositionBottom} {
		st.VerticalAlign = p
		txt, err := Render("caption", st, image.Pt(160, 200))
		require.NoError(t, err)
		first, last := darkRows(txt.Draw(whiteFrame(160, 200)))
		require.GreaterOrEqual(t, first, 0, p)
		assert.GreaterOrEqual(t, first, 16, p)
		assert.LessOrEqual(t, last, 200-16, p)
		rows[p] = first
	}
	assert.Less(t, rows[PositionTop], rows[PositionCenter])
	assert.Less(t, rows[PositionCenter], rows[PositionBottom])
}

func TestOpaqueBlock(t *testing.T) {
	st := DefaultStyle()
	st.Method = MethodCaption
	st.FontSize = 12
	st.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	st.Transparent = true
	txt, err := Render("x", st, image.Pt(40, 30))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, txt.Draw(whiteFrame(40, 30)).NRGBAAt(0, 0))

	st.Transparent = false
	txt, err = Render("x", st, image.Pt(40, 30))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 255}, txt.Draw(whiteFrame(40, 30)).NRGBAAt(0, 0))
}
