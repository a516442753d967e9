// Package chart draws the dashboard figures with gonum/plot and encodes them
// as PNG.
//
// Three kinds of chart exist: a plain bar chart (age counts), a grouped bar
// chart (status shares per snapshot) and a diverging stacked bar chart
// (behavior topics), plus a vertical stack of diverging charts in one image.
// Each builder takes plain data, applies the fixed dashboard [Style] and
// returns an [Image] holding the encoded bytes and a [Description] of what
// was drawn, which the accessibility checks read.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/datacommons/dogviz/pkg/errors"
)

// Image is an encoded chart.
type Image struct {
	PNG []byte
	// Width and Height are the pixel dimensions.
	Width, Height int
	Description   Description
}

// Description records the text and colors a chart was drawn with.
type Description struct {
	Title  string
	XLabel string
	YLabel string
	// Legend holds the legend entries in display order.
	Legend []string
	// Series is the number of distinctly colored data series.
	Series int

	Text       color.Color
	Background color.Color
	// Colors are the series fill colors.
	Colors []color.Color
}

// newPlot returns a plot with title, labels and tick text set in the style.
func newPlot(st Style, title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = st.Background

	p.Title.Text = title
	p.Title.TextStyle.Font = st.font(TitleSize)
	p.Title.TextStyle.Color = st.Text
	p.Title.Padding = vg.Points(12)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font = st.font(LabelSize)
		ax.Label.TextStyle.Color = st.Text
		ax.Label.Padding = vg.Points(12)
		ax.Tick.Label.Font = st.font(TickSize)
		ax.Tick.Label.Color = st.Text
		// Borderless axes.
		ax.Width = 0
		ax.Tick.Length = 0
	}
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	p.Legend.TextStyle.Font = st.font(TickSize)
	p.Legend.TextStyle.Color = st.Text
	return p
}

// valueStyle is the text style of labels drawn inside the data area.
func valueStyle(st Style, size vg.Length) text.Style {
	return text.Style{
		Color:   st.Text,
		Font:    st.font(size),
		XAlign:  draw.XCenter,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

// encode draws fn onto a fresh canvas of the given size and returns the PNG.
// Drawing panics inside gonum/plot (bad ranges, missing glyphs) are turned
// into RENDER_FAILED errors.
func encode(name string, size Size, dpi int, fn func(draw.Canvas)) (img *Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = errors.New(errors.ErrCodeRenderFailed, "draw %s: %v", name, r)
		}
	}()

	c := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(dpi))
	fn(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %s", name)
	}
	b := c.Image().Bounds()
	return &Image{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// stepTicks returns ticks from min to max (exclusive) every step, labeled
// with format.
func stepTicks(min, max, step float64, format string) []plot.Tick {
	var ticks []plot.Tick
	for v := min; v < max; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(format, v)})
	}
	return ticks
}
