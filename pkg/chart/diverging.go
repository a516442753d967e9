package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/layout"
)

// DivergingRow is one horizontal bar of a diverging chart.
type DivergingRow struct {
	Label string
	// Proportions are the five response shares, summing to 1.
	Proportions [layout.Buckets]float64
}

// DivergingChart is a set of topics drawn as bars centered on the middle
// response bucket.
type DivergingChart struct {
	Name   string
	Title  string
	XLabel string
	YLabel string

	Rows   []DivergingRow
	Colors [layout.Buckets]color.Color
	// Legend labels the low, middle and high buckets.
	Legend [3]string

	Size Size
}

// Diverging axis range and ticks, in percent.
const divergingLimit = 110

var divergingTicks = []plot.Tick{
	{Value: -100, Label: "100%"},
	{Value: -50, Label: "50%"},
	{Value: 0, Label: "0%"},
	{Value: 50, Label: "50%"},
	{Value: 100, Label: "100%"},
}

// legendBuckets are the buckets named by the three legend entries.
var legendBuckets = [3]int{0, layout.Neutral, layout.Buckets - 1}

// Diverging draws one diverging stacked bar chart.
func Diverging(c DivergingChart, st Style) (*Image, error) {
	p, err := divergingPlot(c, st)
	if err != nil {
		return nil, err
	}
	img, err := encode(c.Name, c.Size, st.DPI, p.Draw)
	if err != nil {
		return nil, err
	}
	img.Description = c.describe(st)
	return img, nil
}

// DivergingPanels stacks several diverging charts vertically in one image.
// The image takes name and size from the arguments; each panel keeps its
// own title, legend and labels.
func DivergingPanels(name string, panels []DivergingChart, size Size, st Style) (*Image, error) {
	if len(panels) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s: no panels", name)
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, c := range panels {
		p, err := divergingPlot(c, st)
		if err != nil {
			return nil, err
		}
		plots[i] = []*plot.Plot{p}
	}

	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadY:      vg.Points(24),
		PadTop:    vg.Points(12),
		PadBottom: vg.Points(12),
		PadLeft:   vg.Points(12),
		PadRight:  vg.Points(12),
	}
	img, err := encode(name, size, st.DPI, func(dc draw.Canvas) {
		dc.FillPolygon(st.Background, []vg.Point{
			dc.Min, {X: dc.Min.X, Y: dc.Max.Y}, dc.Max, {X: dc.Max.X, Y: dc.Min.Y},
		})
		canvases := plot.Align(plots, tiles, dc)
		for i := range plots {
			plots[i][0].Draw(canvases[i][0])
		}
	})
	if err != nil {
		return nil, err
	}

	// The combined image is described by its first panel plus every
	// panel's title.
	d := panels[0].describe(st)
	d.Title = ""
	for i, c := range panels {
		if i > 0 {
			d.Title += " / "
		}
		d.Title += c.Title
	}
	img.Description = d
	return img, nil
}

func (c DivergingChart) describe(st Style) Description {
	d := Description{
		Title:      c.Title,
		XLabel:     c.XLabel,
		YLabel:     c.YLabel,
		Legend:     c.Legend[:],
		Series:     layout.Buckets,
		Text:       st.Text,
		Background: st.Background,
	}
	for _, col := range c.Colors {
		d.Colors = append(d.Colors, col)
	}
	return d
}

func divergingPlot(c DivergingChart, st Style) (*plot.Plot, error) {
	if len(c.Rows) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%s: no rows", c.Name)
	}
	for i, col := range c.Colors {
		if col == nil {
			return nil, errors.New(errors.ErrCodeRenderFailed, "%s: no color for bucket %d", c.Name, i)
		}
	}

	p := newPlot(st, c.Title, c.XLabel, c.YLabel)
	n := len(c.Rows)

	rows := make([][layout.Buckets]float64, n)
	for i, r := range c.Rows {
		for k, v := range r.Proportions {
			rows[i][k] = 100 * v
		}
	}
	bars := &divergingBars{
		segs:   layout.Rows(rows, layout.Neutral),
		colors: c.Colors,
		edge:   draw.LineStyle{Color: st.Background, Width: vg.Points(1)},
	}

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(n) - 0.5}})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", c.Name)
	}
	zero.LineStyle = draw.LineStyle{Color: st.Text, Width: vg.Points(1)}

	// The zero line sits behind the bars.
	p.Add(zero, bars)

	for k, label := range c.Legend {
		p.Legend.Add(label, swatch{c.Colors[legendBuckets[k]]})
	}
	p.Legend.Top = true
	p.Legend.Left = true

	p.X.Min, p.X.Max = -divergingLimit, divergingLimit
	p.X.Tick.Marker = plot.ConstantTicks(divergingTicks)

	// First row at the top, with one empty row above it for the legend.
	ticks := make([]plot.Tick, n)
	for i, r := range c.Rows {
		ticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: r.Label}
	}
	p.Y.Min, p.Y.Max = -0.5, float64(n)+0.5
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	return p, nil
}

// divergingBars draws pre-computed segments, row 0 at the top.
type divergingBars struct {
	segs   [][layout.Buckets]layout.Segment
	colors [layout.Buckets]color.Color
	edge   draw.LineStyle
}

// barThickness is the bar height as a fraction of the row pitch.
const barThickness = 0.8

func (b *divergingBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	n := len(b.segs)
	for i, row := range b.segs {
		y := float64(n - 1 - i)
		y0, y1 := trY(y-barThickness/2), trY(y+barThickness/2)
		for k, s := range row {
			if s.Width <= 0 {
				continue
			}
			x0, x1 := trX(s.Offset), trX(s.End())
			pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
			c.FillPolygon(b.colors[k], c.ClipPolygonXY(pts))
			c.StrokeLines(b.edge, c.ClipLinesXY(append(pts, pts[0]))...)
		}
	}
}

func (b *divergingBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	lo, hi := layout.Extent(b.segs)
	return lo, hi, -0.5, float64(len(b.segs)) - 0.5
}

// swatch is a solid legend thumbnail.
type swatch struct{ color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.Color, []vg.Point{
		c.Min, {X: c.Min.X, Y: c.Max.Y}, c.Max, {X: c.Max.X, Y: c.Min.Y},
	})
}
