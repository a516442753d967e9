// Package a11y checks rendered charts against basic accessibility rules:
// every chart is titled and labelled, text meets the WCAG AA contrast ratio
// against the background, and charts with more than one series carry a
// legend.
package a11y

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/datacommons/dogviz/pkg/chart"
)

// MinTextContrast is the WCAG AA minimum for normal-size text.
const MinTextContrast = 4.5

// Rule identifies a failed check.
type Rule string

const (
	RuleTitle    Rule = "title"
	RuleXLabel   Rule = "x-label"
	RuleYLabel   Rule = "y-label"
	RuleContrast Rule = "contrast"
	RuleLegend   Rule = "legend"
)

// Issue is one accessibility problem found in a chart.
type Issue struct {
	Rule    Rule
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Rule, i.Message)
}

// Luminance returns the WCAG relative luminance of c in [0, 1].
// Fully transparent colors are treated as black.
func Luminance(c color.Color) float64 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0
	}
	_, y, _ := cf.Xyz()
	return y
}

// ContrastRatio returns the WCAG contrast ratio between a and b, from 1
// (identical) to 21 (black on white). The order of the arguments does not
// matter.
func ContrastRatio(a, b color.Color) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Check returns the issues found in d, in rule order. A nil result means
// the chart passes.
func Check(d chart.Description) []Issue {
	var issues []Issue
	add := func(r Rule, format string, args ...any) {
		issues = append(issues, Issue{Rule: r, Message: fmt.Sprintf(format, args...)})
	}

	if d.Title == "" {
		add(RuleTitle, "chart has no title")
	}
	if d.XLabel == "" {
		add(RuleXLabel, "x axis has no label")
	}
	if d.YLabel == "" {
		add(RuleYLabel, "y axis has no label")
	}

	switch {
	case d.Text == nil || d.Background == nil:
		add(RuleContrast, "text or background color is unset")
	default:
		if r := ContrastRatio(d.Text, d.Background); r < MinTextContrast {
			add(RuleContrast, "text contrast %.2f:1 is below %.1f:1", r, MinTextContrast)
		}
	}

	if d.Series > 1 && len(d.Legend) == 0 {
		add(RuleLegend, "%d series but no legend", d.Series)
	}
	return issues
}
