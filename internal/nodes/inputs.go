package nodes

import (
	"strings"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/frames"
)

// Inputs maps input names to values. After Descriptor.Resolve every
// declared, present input holds its canonical Go type, so the accessors
// below return zero values only for absent optional inputs.
type Inputs map[string]any

// Has reports whether name is present.
func (in Inputs) Has(name string) bool {
	_, ok := in[name]
	return ok
}

// Float returns a FLOAT input.
func (in Inputs) Float(name string) float64 {
	v, _ := in[name].(float64)
	return v
}

// Int returns an INT input.
func (in Inputs) Int(name string) int {
	v, _ := in[name].(int)
	return v
}

// Bool returns a BOOLEAN input.
func (in Inputs) Bool(name string) bool {
	v, _ := in[name].(bool)
	return v
}

// String returns a STRING or choice input.
func (in Inputs) String(name string) string {
	v, _ := in[name].(string)
	return v
}

// StringOr returns a STRING or choice input, or fallback when it is absent
// or blank.
func (in Inputs) StringOr(name, fallback string) string {
	if v := strings.TrimSpace(in.String(name)); v != "" {
		return v
	}
	return fallback
}

// Image returns an IMAGE input.
func (in Inputs) Image(name string) frames.Sequence {
	v, _ := in[name].(frames.Sequence)
	return v
}

// Video returns a VIDEO input.
func (in Inputs) Video(name string) *clip.Clip {
	v, _ := in[name].(*clip.Clip)
	return v
}

// Videos returns a list VIDEO input.
func (in Inputs) Videos(name string) []*clip.Clip {
	v, _ := in[name].([]*clip.Clip)
	return v
}
