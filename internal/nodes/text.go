package nodes

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/kikiluvv/reelgraph/internal/overlay"
)

// TextOverlay draws a text block onto every frame of an IMAGE batch.
type TextOverlay struct{}

func (TextOverlay) Describe() Descriptor {
	text := stringInput("text", "Sample Text")
	text.Multiline = true
	colorTip := "Color name, hex (#RRGGBB) or 'R,G,B[,A]'."
	method := withTooltip(choiceInput("method", "label", "caption"), "label sizes the block to the text; caption spans the frame and wraps lines.")
	method.Default = string(overlay.MethodCaption)
	valign := withTooltip(choiceInput("vertical_align", "top", "center", "bottom"), "Caption placement; label blocks use position.")
	valign.Default = string(overlay.PositionCenter)
	return Descriptor{
		Name:        "TextOverlay",
		DisplayName: "Text Overlay",
		Category:    "video/effects",
		Inputs: []ParamSpec{
			imageInput("IMAGE"),
			text,
			choiceInput("position", "center", "top", "bottom"),
			floatInput("fps", 24, 1, 120, 0.1),
			optional(withTooltip(stringInput("font", ""), "Path to a TTF/OTF file; empty uses the built-in font.")),
			intInput("font_size", 50, 1, 500),
			withTooltip(stringInput("margin", "16,16"), "'horizontal,vertical' or 'left,top,right,bottom'."),
			withTooltip(stringInput("color", "black"), colorTip),
			withTooltip(stringInput("bg_color", ""), colorTip+" Empty for transparent."),
			withTooltip(stringInput("stroke_color", ""), colorTip+" Empty for no stroke."),
			intInput("stroke_width", 0, 0, 50),
			method,
			choiceInput("text_align", "left", "center", "right"),
			choiceInput("horizontal_align", "center", "left", "right"),
			valign,
			floatInput("interline", 4, 0, 50, 0.1),
			withTooltip(boolInput("transparent", true), "Off fills the block with bg_color, or black."),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

func (TextOverlay) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	seq := in.Image("IMAGE")
	text := in.String("text")
	if strings.TrimSpace(text) == "" {
		return []any{seq}, nil
	}

	st, err := textStyle(in)
	if err != nil {
		return nil, err
	}
	var size image.Point
	if len(seq) > 0 {
		size = image.Pt(seq[0].Width, seq[0].Height)
	}
	rendered, err := overlay.Render(text, st, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render text: %w", err)
	}

	out, err := mapImages(seq, in.Float("fps"), rendered.Draw)
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}

func textStyle(in Inputs) (overlay.Style, error) {
	st := overlay.DefaultStyle()
	st.FontPath = in.String("font")
	st.FontSize = float64(in.Int("font_size"))
	st.StrokeWidth = in.Int("stroke_width")
	st.TextAlign = overlay.Align(in.String("text_align"))
	st.HorizontalAlign = overlay.Align(in.String("horizontal_align"))
	st.Position = overlay.Position(in.String("position"))
	st.VerticalAlign = overlay.Position(in.String("vertical_align"))
	st.Method = overlay.Method(in.String("method"))
	st.Transparent = in.Bool("transparent")
	st.Interline = in.Float("interline")

	margin, err := overlay.ParseMargin(in.String("margin"))
	if err != nil {
		return st, textParamErr("margin", err)
	}
	st.Margin = margin

	fg, ok, err := overlay.ParseColor(in.String("color"))
	if err != nil {
		return st, textParamErr("color", err)
	}
	if ok {
		st.Color = fg
	}

	bg, ok, err := overlay.ParseColor(in.String("bg_color"))
	if err != nil {
		return st, textParamErr("bg_color", err)
	}
	if ok {
		st.Background = &bg
	}

	stroke, ok, err := overlay.ParseColor(in.String("stroke_color"))
	if err != nil {
		return st, textParamErr("stroke_color", err)
	}
	if ok {
		st.Stroke = &stroke
	}
	return st, nil
}

func textParamErr(param string, err error) error {
	return &mediaerr.ParamError{Node: "TextOverlay", Param: param, Reason: err.Error()}
}
