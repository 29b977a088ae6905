package nodes

import (
	"fmt"
	"math"
	"slices"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/frames"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

// TypeTag is a host value type.
type TypeTag string

const (
	TypeImage   TypeTag = "IMAGE"
	TypeVideo   TypeTag = "VIDEO"
	TypeString  TypeTag = "STRING"
	TypeFloat   TypeTag = "FLOAT"
	TypeInt     TypeTag = "INT"
	TypeBoolean TypeTag = "BOOLEAN"
	TypeChoice  TypeTag = "CHOICE"
)

// ParamSpec declares one node input.
type ParamSpec struct {
	Name      string   `json:"name" yaml:"name"`
	Type      TypeTag  `json:"type" yaml:"type"`
	Default   any      `json:"default,omitempty" yaml:"default,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step      float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Choices   []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Optional  bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Multiline bool     `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	List      bool     `json:"list,omitempty" yaml:"list,omitempty"`
	Tooltip   string   `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Output declares one node output.
type Output struct {
	Name string  `json:"name" yaml:"name"`
	Type TypeTag `json:"type" yaml:"type"`
}

// Descriptor is the static metadata a host needs to present and validate a node.
type Descriptor struct {
	Name        string      `json:"name" yaml:"name"`
	DisplayName string      `json:"display_name" yaml:"display_name"`
	Category    string      `json:"category" yaml:"category"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []ParamSpec `json:"inputs" yaml:"inputs"`
	Outputs     []Output    `json:"outputs" yaml:"outputs"`
	OutputNode  bool        `json:"output_node,omitempty" yaml:"output_node,omitempty"`
	InputIsList bool        `json:"input_is_list,omitempty" yaml:"input_is_list,omitempty"`
}

// Input returns the spec for name.
func (d Descriptor) Input(name string) (ParamSpec, bool) {
	for _, p := range d.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Resolve validates raw inputs against the descriptor and fills defaults.
// The result holds canonical Go types: float64, int, bool, string,
// frames.Sequence, *clip.Clip or []*clip.Clip for list inputs.
func (d Descriptor) Resolve(raw Inputs) (Inputs, error) {
	for name := range raw {
		if _, ok := d.Input(name); !ok {
			return nil, d.paramErr(name, "is not a declared input")
		}
	}

	out := make(Inputs, len(d.Inputs))
	for _, spec := range d.Inputs {
		v, ok := raw[spec.Name]
		if !ok || v == nil {
			switch {
			case spec.Default != nil:
				v = spec.Default
			case spec.Optional:
				continue
			default:
				return nil, d.paramErr(spec.Name, "is required")
			}
		}

		resolved, err := d.coerce(spec, v)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = resolved
	}
	return out, nil
}

func (d Descriptor) coerce(spec ParamSpec, v any) (any, error) {
	switch spec.Type {
	case TypeFloat:
		f, ok := toFloat(v)
		if !ok {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be a number, got %T", v))
		}
		if err := d.checkRange(spec, f); err != nil {
			return nil, err
		}
		return f, nil

	case TypeInt:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be an integer, got %v", v))
		}
		if err := d.checkRange(spec, f); err != nil {
			return nil, err
		}
		return int(f), nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be a boolean, got %T", v))
		}
		return b, nil

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be a string, got %T", v))
		}
		return s, nil

	case TypeChoice:
		s, ok := v.(string)
		if !ok || !slices.Contains(spec.Choices, s) {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be one of %v, got %v", spec.Choices, v))
		}
		return s, nil

	case TypeImage:
		seq, ok := v.(frames.Sequence)
		if !ok {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be IMAGE, got %T", v))
		}
		return seq, nil

	case TypeVideo:
		if spec.List {
			return d.coerceVideoList(spec, v)
		}
		c, ok := v.(*clip.Clip)
		if !ok || c == nil {
			return nil, d.paramErr(spec.Name, fmt.Sprintf("must be VIDEO, got %T", v))
		}
		return c, nil
	}
	return nil, d.paramErr(spec.Name, fmt.Sprintf("has unsupported type %s", spec.Type))
}

func (d Descriptor) coerceVideoList(spec ParamSpec, v any) (any, error) {
	switch t := v.(type) {
	case *clip.Clip:
		return []*clip.Clip{t}, nil
	case []*clip.Clip:
		return t, nil
	case []any:
		out := make([]*clip.Clip, len(t))
		for i, item := range t {
			c, ok := item.(*clip.Clip)
			if !ok || c == nil {
				return nil, d.paramErr(spec.Name, fmt.Sprintf("item %d must be VIDEO, got %T", i, item))
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, d.paramErr(spec.Name, fmt.Sprintf("must be a list of VIDEO, got %T", v))
}

func (d Descriptor) checkRange(spec ParamSpec, f float64) error {
	if math.IsNaN(f) {
		return d.paramErr(spec.Name, "must not be NaN")
	}
	if spec.Min != nil && f < *spec.Min {
		return d.paramErr(spec.Name, fmt.Sprintf("value %v is below minimum %v", f, *spec.Min))
	}
	if spec.Max != nil && f > *spec.Max {
		return d.paramErr(spec.Name, fmt.Sprintf("value %v is above maximum %v", f, *spec.Max))
	}
	return nil
}

func (d Descriptor) paramErr(param, reason string) error {
	return &mediaerr.ParamError{Node: d.Name, Param: param, Reason: reason}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// Spec constructors keep the node declarations compact.

func ptr(f float64) *float64 { return &f }

func imageInput(name string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeImage}
}

func videoInput(name string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeVideo}
}

func floatInput(name string, def, lo, hi, step float64) ParamSpec {
	return ParamSpec{Name: name, Type: TypeFloat, Default: def, Min: ptr(lo), Max: ptr(hi), Step: step}
}

func intInput(name string, def, lo, hi int) ParamSpec {
	return ParamSpec{Name: name, Type: TypeInt, Default: def, Min: ptr(float64(lo)), Max: ptr(float64(hi)), Step: 1}
}

func stringInput(name, def string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeString, Default: def}
}

func boolInput(name string, def bool) ParamSpec {
	return ParamSpec{Name: name, Type: TypeBoolean, Default: def}
}

// choiceInput defaults to the first choice.
func choiceInput(name string, choices ...string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeChoice, Default: choices[0], Choices: choices}
}

// optionalChoice has no default; Execute supplies one when it is unset.
func optionalChoice(name string, choices ...string) ParamSpec {
	return ParamSpec{Name: name, Type: TypeChoice, Choices: choices, Optional: true}
}

func optional(p ParamSpec) ParamSpec {
	p.Optional = true
	return p
}

func withTooltip(p ParamSpec, tip string) ParamSpec {
	p.Tooltip = tip
	return p
}
