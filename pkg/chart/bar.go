package chart

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/datacommons/dogviz/pkg/errors"
)

// BarChart is a single series of categorical bars.
type BarChart struct {
	Name   string
	Title  string
	XLabel string
	YLabel string

	Labels []string
	Values []float64
	Color  color.Color

	// YStep is the spacing of the horizontal grid lines.
	YStep float64
	// Headroom is added above the tallest bar.
	Headroom float64
	// ShowValues writes each value above its bar.
	ShowValues bool

	Size Size
}

// GroupedBarChart draws one bar per group side by side within each category.
type GroupedBarChart struct {
	Name   string
	Title  string
	XLabel string
	YLabel string

	Categories []string
	Groups     []string
	// Values is indexed [group][category].
	Values [][]float64
	Colors []color.Color

	YStep float64
	// YFormat formats the y tick labels, e.g. "%.0f%%".
	YFormat string

	Size Size
}

// barWidth is the fraction of a category slot covered by bars.
const barWidth = 0.7

// Bar draws a bar chart.
func Bar(c BarChart, st Style) (*Image, error) {
	if len(c.Labels) == 0 || len(c.Labels) != len(c.Values) {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"%s: %d labels for %d values", c.Name, len(c.Labels), len(c.Values))
	}
	if c.YStep <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s: y step must be positive", c.Name)
	}

	p := newPlot(st, c.Title, c.XLabel, c.YLabel)
	slot := slotWidth(c.Size.Width, len(c.Labels))

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = st.Grid
	p.Add(grid)

	bars, err := plotter.NewBarChart(plotter.Values(c.Values), slot*barWidth)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", c.Name)
	}
	bars.Color = c.Color
	bars.LineStyle = draw.LineStyle{Color: st.Background, Width: vg.Points(1)}
	p.Add(bars)

	if c.ShowValues {
		labels, err := valueLabels(c.Values, st)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", c.Name)
		}
		p.Add(labels)
	}

	p.NominalX(c.Labels...)
	top := maxOf(c.Values) + c.Headroom
	p.Y.Min, p.Y.Max = 0, top
	p.Y.Tick.Marker = plot.ConstantTicks(stepTicks(0, top, c.YStep, "%.0f"))

	img, err := encode(c.Name, c.Size, st.DPI, p.Draw)
	if err != nil {
		return nil, err
	}
	img.Description = Description{
		Title:      c.Title,
		XLabel:     c.XLabel,
		YLabel:     c.YLabel,
		Series:     1,
		Text:       st.Text,
		Background: st.Background,
		Colors:     []color.Color{c.Color},
	}
	return img, nil
}

// GroupedBar draws a grouped bar chart with a legend of the groups.
func GroupedBar(c GroupedBarChart, st Style) (*Image, error) {
	if len(c.Groups) == 0 || len(c.Categories) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s: nothing to draw", c.Name)
	}
	if len(c.Values) != len(c.Groups) || len(c.Colors) < len(c.Groups) {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"%s: %d groups, %d value rows, %d colors", c.Name, len(c.Groups), len(c.Values), len(c.Colors))
	}
	if c.YStep <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s: y step must be positive", c.Name)
	}

	p := newPlot(st, c.Title, c.XLabel, c.YLabel)
	slot := slotWidth(c.Size.Width, len(c.Categories))
	w := slot * barWidth / vg.Length(len(c.Groups))

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = st.Grid
	p.Add(grid)

	top := 0.0
	for g, vals := range c.Values {
		if len(vals) != len(c.Categories) {
			return nil, errors.New(errors.ErrCodeRenderFailed,
				"%s: group %q has %d values for %d categories", c.Name, c.Groups[g], len(vals), len(c.Categories))
		}
		bars, err := plotter.NewBarChart(plotter.Values(vals), w)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", c.Name)
		}
		bars.Color = c.Colors[g]
		bars.LineStyle = draw.LineStyle{Color: st.Background, Width: vg.Points(1)}
		bars.Offset = w * vg.Length(float64(g)-float64(len(c.Groups)-1)/2)
		p.Add(bars)
		p.Legend.Add(c.Groups[g], bars)
		top = math.Max(top, maxOf(vals))
	}

	p.NominalX(c.Categories...)
	p.Legend.Top = true
	ymax := math.Ceil(top/c.YStep)*c.YStep + c.YStep
	p.Y.Min, p.Y.Max = 0, ymax
	p.Y.Tick.Marker = plot.ConstantTicks(stepTicks(0, ymax, c.YStep, c.YFormat))

	img, err := encode(c.Name, c.Size, st.DPI, p.Draw)
	if err != nil {
		return nil, err
	}
	img.Description = Description{
		Title:      c.Title,
		XLabel:     c.XLabel,
		YLabel:     c.YLabel,
		Legend:     append([]string(nil), c.Groups...),
		Series:     len(c.Groups),
		Text:       st.Text,
		Background: st.Background,
		Colors:     append([]color.Color(nil), c.Colors[:len(c.Groups)]...),
	}
	return img, nil
}

// valueLabels places each value just above its bar.
func valueLabels(values []float64, st Style) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	strs := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		strs[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: strs})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i] = valueStyle(st, ValueSize)
	}
	labels.Offset = vg.Point{Y: vg.Points(3)}
	return labels, nil
}

// slotWidth approximates the canvas width given to each category.
func slotWidth(fig vg.Length, n int) vg.Length {
	return fig * 0.8 / vg.Length(n)
}

func maxOf(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
