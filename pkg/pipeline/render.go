package pipeline

import (
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/datacommons/dogviz/pkg/aggregate"
	"github.com/datacommons/dogviz/pkg/chart"
	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/study"
)

// Axis labels.
const (
	labelAge       = "AGE"
	labelDogs      = "DOGS"
	labelStatus    = "SEX STATUS"
	labelPercent   = "PERCENTAGE OF DOGS"
	labelResponses = "SHARE OF RESPONSES"
	labelBehavior  = "BEHAVIOR"
)

// Gridline steps.
const (
	ageStep    = 100
	statusStep = 10
)

// RenderAge draws the age distribution bar chart.
func RenderAge(res aggregate.AgeResult, asOf civil.Date, st chart.Style) (*chart.Image, error) {
	c := chart.BarChart{
		Name:       FileAge,
		Title:      AgeTitle(asOf),
		XLabel:     labelAge,
		YLabel:     labelDogs,
		Color:      chart.AgeColor,
		YStep:      ageStep,
		Headroom:   ageStep,
		ShowValues: true,
		Size:       chart.AgeSize,
	}
	for _, ac := range res.Counts {
		c.Labels = append(c.Labels, strconv.Itoa(ac.Age))
		c.Values = append(c.Values, float64(ac.Count))
	}
	return chart.Bar(c, st)
}

// RenderStatus draws the grouped status chart. Shares must be in the order
// [aggregate.StatusOverTime] returns them.
func RenderStatus(shares []aggregate.Share, snaps aggregate.Snapshots, asOf civil.Date, st chart.Style) (*chart.Image, error) {
	groups := snaps.Names()
	n := len(study.Statuses)
	if len(shares) != len(groups)*n {
		return nil, errors.New(errors.ErrCodeInternal,
			"%d status shares for %d snapshots of %d statuses", len(shares), len(groups), n)
	}

	c := chart.GroupedBarChart{
		Name:    FileStatus,
		Title:   StatusTitle(asOf),
		XLabel:  labelStatus,
		YLabel:  labelPercent,
		Groups:  groups,
		Colors:  chart.StatusColors,
		YStep:   statusStep,
		YFormat: "%.0f%%",
		Size:    chart.StatusSize,
	}
	for _, s := range study.Statuses {
		c.Categories = append(c.Categories, s.String())
	}
	c.Values = make([][]float64, len(groups))
	for g := range groups {
		c.Values[g] = make([]float64, n)
		for k := 0; k < n; k++ {
			c.Values[g][k] = shares[g*n+k].Percent
		}
	}
	return chart.GroupedBar(c, st)
}

// BehaviorCharts builds one diverging chart per catalog group that has at
// least one topic with responses, in catalog order.
func BehaviorCharts(shares []aggregate.TopicShare, cat aggregate.Catalog) []chart.DivergingChart {
	var out []chart.DivergingChart
	for _, g := range cat.Groups {
		in := aggregate.InGroup(shares, g.Key)
		if len(in) == 0 {
			continue
		}
		c := chart.DivergingChart{
			Name:   BehaviorFile(g.Key),
			Title:  g.Title,
			XLabel: labelResponses,
			YLabel: labelBehavior,
			Colors: chart.BehaviorColor,
			Legend: g.Legend,
			Size:   chart.BehaviorSize,
		}
		for _, ts := range in {
			c.Rows = append(c.Rows, chart.DivergingRow{Label: ts.Topic.Name, Proportions: ts.Proportions})
		}
		out = append(out, c)
	}
	return out
}
