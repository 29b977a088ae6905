package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Position is the vertical placement of the text block in the frame.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Method selects how a text block is sized.
type Method string

const (
	// MethodLabel sizes the block to its text.
	MethodLabel Method = "label"
	// MethodCaption sizes the block to the frame and wraps lines to fit
	// between the margins.
	MethodCaption Method = "caption"
)

// Margin is the padding kept between the text block and the frame edges.
type Margin struct {
	Left, Top, Right, Bottom int
}

// ParseMargin accepts "", "h,v" or "left,top,right,bottom".
func ParseMargin(s string) (Margin, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Margin{}, nil
	}
	parts := strings.Split(s, ",")
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Margin{}, fmt.Errorf("invalid margin %q: %w", s, err)
		}
		if v < 0 {
			return Margin{}, fmt.Errorf("invalid margin %q: negative value", s)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 2:
		return Margin{Left: vals[0], Top: vals[1], Right: vals[0], Bottom: vals[1]}, nil
	case 4:
		return Margin{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
	}
	return Margin{}, fmt.Errorf("invalid margin %q: want 2 or 4 values", s)
}

// ParseColor accepts a color name, "#RRGGBB"/"#RGB", or "R,G,B[,A]".
// ok is false for an empty string.
func ParseColor(s string) (c color.NRGBA, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, false, nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.NRGBA{}, false, fmt.Errorf("invalid color %q: want R,G,B or R,G,B,A", s)
		}
		vals := [4]uint8{0, 0, 0, 255}
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return color.NRGBA{}, false, fmt.Errorf("invalid color %q: component %q", s, p)
			}
			vals[i] = uint8(v)
		}
		return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, true, nil
	}

	if strings.HasPrefix(s, "#") {
		hex, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, false, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := hex.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, true, nil
	}

	name := strings.ToLower(s)
	if name == "transparent" {
		return color.NRGBA{}, true, nil
	}
	if named, found := colornames.Map[name]; found {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, true, nil
	}
	return color.NRGBA{}, false, fmt.Errorf("unknown color %q", s)
}
