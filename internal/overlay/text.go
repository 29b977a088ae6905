// Package overlay renders text blocks and composites them onto frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Style controls how a text block looks and where it lands.
type Style struct {
	FontPath        string // empty uses the embedded Go Regular face
	FontSize        float64
	Color           color.NRGBA
	Background      *color.NRGBA
	Stroke          *color.NRGBA
	StrokeWidth     int
	TextAlign       Align
	HorizontalAlign Align
	Position        Position
	Margin          Margin
	Interline       float64
	Method          Method
	VerticalAlign   Position // caption placement inside the frame
	Transparent     bool     // false fills the block with Background or opaque black
}

// DefaultStyle returns black 50pt text centered in the frame.
func DefaultStyle() Style {
	return Style{
		FontSize:        50,
		Color:           color.NRGBA{A: 255},
		TextAlign:       AlignLeft,
		HorizontalAlign: AlignCenter,
		Position:        PositionCenter,
		Margin:          Margin{Left: 16, Top: 16, Right: 16, Bottom: 16},
		Interline:       4,
		Method:          MethodLabel,
		VerticalAlign:   PositionCenter,
		Transparent:     true,
	}
}

// Text is a pre-rendered text block ready to be stamped onto frames.
type Text struct {
	block *image.NRGBA
	style Style
}

// Render lays out text with st for frames of the given size. Lines are split
// on newlines; captions are also wrapped at spaces to fit the frame.
func Render(text string, st Style, frame image.Point) (*Text, error) {
	face, err := loadFace(st.FontPath, st.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	caption := st.Method == MethodCaption
	pad := st.StrokeWidth
	if caption {
		lines = wrapLines(face, lines, frame.X-st.Margin.Left-st.Margin.Right-2*pad)
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	gap := int(st.Interline + 0.5)

	widths := make([]int, len(lines))
	maxWidth := 0
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		maxWidth = max(maxWidth, widths[i])
	}
	textWidth := maxWidth + 2*pad
	textHeight := len(lines)*lineHeight + (len(lines)-1)*gap + 2*pad

	width, height := max(textWidth, 1), max(textHeight, 1)
	var at image.Point
	if caption {
		width, height = max(frame.X, 1), max(frame.Y, 1)
		at = image.Pt(
			alignX(st.HorizontalAlign, width, textWidth, st.Margin),
			alignY(st.VerticalAlign, height, textHeight, st.Margin),
		)
	}

	block := image.NewNRGBA(image.Rect(0, 0, width, height))
	switch {
	case st.Background != nil:
		draw.Draw(block, block.Bounds(), image.NewUniform(*st.Background), image.Point{}, draw.Src)
	case !st.Transparent:
		draw.Draw(block, block.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	}

	drawLines := func(src color.Color, dx, dy int) {
		d := &font.Drawer{Dst: block, Src: image.NewUniform(src), Face: face}
		for i, line := range lines {
			x := at.X + pad + alignOffset(st.TextAlign, maxWidth, widths[i])
			y := at.Y + pad + i*(lineHeight+gap) + ascent
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(line)
		}
	}

	if st.Stroke != nil && st.StrokeWidth > 0 {
		r := st.StrokeWidth
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r || (dx == 0 && dy == 0) {
					continue
				}
				drawLines(*st.Stroke, dx, dy)
			}
		}
	}
	drawLines(st.Color, 0, 0)

	return &Text{block: block, style: st}, nil
}

// Bounds returns the size of the rendered block.
func (t *Text) Bounds() image.Rectangle {
	return t.block.Bounds()
}

// Origin returns where the block's top-left corner lands in a frame of the
// given size. Captions already span the frame.
func (t *Text) Origin(frameWidth, frameHeight int) image.Point {
	if t.style.Method == MethodCaption {
		return image.Point{}
	}
	b := t.block.Bounds()
	return image.Pt(
		alignX(t.style.HorizontalAlign, frameWidth, b.Dx(), t.style.Margin),
		alignY(t.style.Position, frameHeight, b.Dy(), t.style.Margin),
	)
}

// Draw composites the block over a copy of img.
func (t *Text) Draw(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	origin := t.Origin(b.Dx(), b.Dy())
	draw.Draw(out, t.block.Bounds().Add(origin), t.block, image.Point{}, draw.Over)
	return out
}

// alignX places a span of width n in a row of the given size.
func alignX(a Align, size, n int, m Margin) int {
	switch a {
	case AlignLeft:
		return m.Left
	case AlignRight:
		return size - n - m.Right
	}
	return (size - n) / 2
}

// alignY places a span of height n in a column of the given size.
func alignY(p Position, size, n int, m Margin) int {
	switch p {
	case PositionTop:
		return m.Top
	case PositionBottom:
		return size - n - m.Bottom
	}
	return (size - n) / 2
}

// wrapLines breaks lines at spaces so none is wider than limit. A word wider
// than limit keeps a line of its own.
func wrapLines(face font.Face, lines []string, limit int) []string {
	if limit <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if next := cur + " " + w; font.MeasureString(face, next).Ceil() <= limit {
				cur = next
				continue
			}
			out = append(out, cur)
			cur = w
		}
		out = append(out, cur)
	}
	return out
}

func alignOffset(a Align, blockWidth, lineWidth int) int {
	switch a {
	case AlignCenter:
		return (blockWidth - lineWidth) / 2
	case AlignRight:
		return blockWidth - lineWidth
	}
	return 0
}

func loadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		data = raw
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if size <= 0 {
		size = 50
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
