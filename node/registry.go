package node

import (
	"slices"
	"sort"

	"github.com/ByLCY/persiantext/fonts"
	"github.com/ByLCY/persiantext/palette"
)

// Name is the node type identifier hosts register.
const Name = "PersianText"

// Kind is the host-facing type of an input or output.
type Kind string

const (
	KindString  Kind = "STRING"
	KindInt     Kind = "INT"
	KindFloat   Kind = "FLOAT"
	KindBoolean Kind = "BOOLEAN"
	KindCombo   Kind = "COMBO"
	KindImage   Kind = "IMAGE"
	KindMask    Kind = "MASK"
)

// Input describes one node parameter.
type Input struct {
	Name      string   `json:"name"`
	Kind      Kind     `json:"kind"`
	Default   any      `json:"default"`
	Min       float64  `json:"min,omitempty"`
	Max       float64  `json:"max,omitempty"`
	Step      float64  `json:"step,omitempty"`
	Options   []string `json:"options,omitempty"`
	Multiline bool     `json:"multiline,omitempty"`
	Optional  bool     `json:"optional,omitempty"`
}

// Descriptor describes a node type.
type Descriptor struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Category    string  `json:"category"`
	Function    string  `json:"function"`
	Inputs      []Input `json:"inputs"`
	Outputs     []Kind  `json:"outputs"`
}

// Input returns the input named name.
func (d Descriptor) Input(name string) (Input, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Inputs = make([]Input, len(d.Inputs))
	for i, in := range d.Inputs {
		in.Options = slices.Clone(in.Options)
		out.Inputs[i] = in
	}
	out.Outputs = slices.Clone(d.Outputs)
	return out
}

// Registry is the immutable table returned by Register.
type Registry struct {
	descriptors map[string]Descriptor
}

// Register builds the descriptor table once at startup. fontNames are the selectable
// font files; builtin fonts are always appended.
func Register(fontNames []string) Registry {
	d := describe(fontNames)
	return Registry{descriptors: map[string]Descriptor{d.Name: d}}
}

// Lookup returns a copy of the descriptor registered under name.
func (r Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Names lists the registered node types.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func describe(fontNames []string) Descriptor {
	def := DefaultConfig()
	fontOptions := append(slices.Clone(fontNames), fonts.Builtins()...)
	rtlDefault, ltrDefault := def.RTLFont, def.LTRFont
	if len(fontNames) > 0 {
		rtlDefault = fontNames[0]
	}
	colors := palette.Names()

	return Descriptor{
		Name:        Name,
		DisplayName: "Persian Text",
		Category:    "🎨KG",
		Function:    "execute",
		Inputs: []Input{
			{Name: ParamText, Kind: KindString, Default: def.Text, Multiline: true},
			{Name: ParamRTLFont, Kind: KindCombo, Default: rtlDefault, Options: fontOptions},
			{Name: ParamLTRFont, Kind: KindCombo, Default: ltrDefault, Options: slices.Clone(fontOptions)},
			{Name: ParamSize, Kind: KindInt, Default: def.Size, Min: 1, Max: 9999, Step: 1},
			{Name: ParamTextColor, Kind: KindCombo, Default: def.TextColor, Options: colors},
			{Name: ParamBackgroundColor, Kind: KindCombo, Default: def.BackgroundColor, Options: slices.Clone(colors)},
			{Name: ParamHorizontalAlign, Kind: KindCombo, Default: def.HorizontalAlign, Options: slices.Clone(HorizontalAligns)},
			{Name: ParamVerticalAlign, Kind: KindCombo, Default: def.VerticalAlign, Options: slices.Clone(VerticalAligns)},
			{Name: ParamWidth, Kind: KindInt, Default: def.Width, Min: 1, Max: 4096, Step: 1},
			{Name: ParamHeight, Kind: KindInt, Default: def.Height, Min: 1, Max: 4096, Step: 1},
			{Name: ParamRotation, Kind: KindFloat, Default: def.Rotation, Min: -360, Max: 360, Step: 0.1},
			{Name: ParamOffsetX, Kind: KindInt, Default: def.OffsetX, Min: -4096, Max: 4096, Step: 1},
			{Name: ParamOffsetY, Kind: KindInt, Default: def.OffsetY, Min: -4096, Max: 4096, Step: 1},
			{Name: ParamShadowDistance, Kind: KindInt, Default: def.ShadowDistance, Min: 0, Max: 100, Step: 1},
			{Name: ParamShadowBlur, Kind: KindFloat, Default: def.ShadowBlur, Min: 0, Max: 100, Step: 1},
			{Name: ParamShadowColor, Kind: KindCombo, Default: def.ShadowColor, Options: slices.Clone(colors)},
			{Name: ParamPadding, Kind: KindInt, Default: def.Padding, Min: 0, Max: 2048, Step: 1},
			{Name: ParamTransparentBackground, Kind: KindBoolean, Default: def.TransparentBackground},
			{Name: ParamTextColorHex, Kind: KindString, Default: def.TextColorHex, Optional: true},
			{Name: ParamBackgroundColorHex, Kind: KindString, Default: def.BackgroundColorHex, Optional: true},
			{Name: ParamShadowColorHex, Kind: KindString, Default: def.ShadowColorHex, Optional: true},
		},
		Outputs: []Kind{KindImage, KindMask},
	}
}
