package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Font sizes in points.
const (
	TitleSize = 16
	LabelSize = 14
	TickSize  = 12
	ValueSize = 10
)

// DefaultDPI matches the resolution the dashboard images were published at.
const DefaultDPI = 100

// Fixed figure sizes per chart kind.
var (
	AgeSize      = Size{10 * vg.Inch, 6 * vg.Inch}
	StatusSize   = Size{10 * vg.Inch, 8 * vg.Inch}
	BehaviorSize = Size{20 * vg.Inch, 6 * vg.Inch}
	CombinedSize = Size{20 * vg.Inch, 18 * vg.Inch}
)

// Size is a figure size.
type Size struct {
	Width, Height vg.Length
}

// Style is the shared look of every chart.
type Style struct {
	// Font is the typeface and weight for all text. Sizes are applied per
	// element.
	Font       font.Font
	DPI        int
	Text       color.Color
	Background color.Color
	Grid       color.Color
}

// DefaultStyle returns the dashboard style using fnt for text.
func DefaultStyle(fnt font.Font) Style {
	return Style{
		Font:       fnt,
		DPI:        DefaultDPI,
		Text:       color.Black,
		Background: color.White,
		Grid:       MustHex("#ECECEC"),
	}
}

func (s Style) font(size vg.Length) font.Font {
	return font.From(s.Font, size)
}

// Palettes.
var (
	AgeColor      = MustHex("#FF5F1F")
	StatusColors  = []color.Color{MustHex("#0288D1"), MustHex("#FF5F1F"), MustHex("#d0db01")}
	BehaviorColor = [5]color.Color{
		MustHex("#0085AD"),
		MustHex("#67CFE3"),
		MustHex("#D3D3D3"),
		MustHex("#FDB525"),
		MustHex("#E35205"),
	}
)

// Hex parses a #RRGGBB or #RGB color.
func Hex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is like [Hex] but panics on malformed input.
func MustHex(s string) color.RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
