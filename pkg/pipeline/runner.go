package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/datacommons/dogviz/pkg/aggregate"
	"github.com/datacommons/dogviz/pkg/chart"
	"github.com/datacommons/dogviz/pkg/config"
	"github.com/datacommons/dogviz/pkg/fonts"
	"github.com/datacommons/dogviz/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner that logs to logger.
// If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → aggregate → render pipeline for the
// selected charts. The context is checked between charts; a cancelled run
// returns the context error and no partial result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	st, err := Style(opts.Settings)
	if err != nil {
		return nil, err
	}

	result := &Result{AsOf: opts.AsOf}

	// Stage 1: Load
	loadStart := time.Now()
	in, err := load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Subjects = len(in.subjects)
	result.Stats.Observations = len(in.observations)
	result.Stats.Merge = in.merge

	r.Logger.Info("loaded inputs",
		"subjects", len(in.subjects),
		"observations", len(in.observations),
		"events_applied", in.merge.Applied,
		"duration", result.Stats.LoadTime)

	// Stages 2 and 3, per chart
	for _, name := range AllCharts {
		if !opts.Wants(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		switch name {
		case ChartAge:
			err = r.age(ctx, in, opts, st, result)
		case ChartStatus:
			err = r.status(ctx, in, opts, st, result)
		case ChartBehavior:
			err = r.behavior(ctx, in, opts, st, result)
		}
		if err != nil {
			return nil, fmt.Errorf("%s chart: %w", name, err)
		}
	}

	r.Logger.Info("rendered charts",
		"count", len(result.Artifacts),
		"aggregate", result.Stats.AggregateTime,
		"render", result.Stats.RenderTime)

	return result, nil
}

// Style returns the chart style for the configured font and DPI.
func Style(s *config.Settings) (chart.Style, error) {
	fnt, err := fonts.Load(s.FontPath)
	if err != nil {
		return chart.Style{}, err
	}
	st := chart.DefaultStyle(fnt)
	if s.DPI > 0 {
		st.DPI = s.DPI
	}
	return st, nil
}

func (r *Runner) age(ctx context.Context, in *inputs, opts Options, st chart.Style, result *Result) error {
	var res aggregate.AgeResult
	err := r.aggregate(ctx, ChartAge, result, func() (int, error) {
		var err error
		res, err = aggregate.AgeDistribution(in.subjects, opts.AsOf, aggregate.AgeOptions{
			IncludeDeceased: opts.IncludeDeceased,
		})
		return len(res.Counts), err
	})
	if err != nil {
		return err
	}
	result.Age = &res

	if res.Skipped > 0 {
		r.Logger.Warn("subjects without a usable birth date", "skipped", res.Skipped)
	}
	r.Logger.Debug("age distribution",
		"counted", res.Total,
		"deceased_excluded", res.Deceased,
		"as_of", opts.AsOf)

	return r.render(ctx, FileAge, ChartAge, result, func() (*chart.Image, error) {
		return RenderAge(res, opts.AsOf, st)
	})
}

func (r *Runner) status(ctx context.Context, in *inputs, opts Options, st chart.Style, result *Result) error {
	snaps := opts.Settings.Snapshots()
	err := r.aggregate(ctx, ChartStatus, result, func() (int, error) {
		var err error
		result.Status, err = aggregate.StatusOverTime(in.subjects, snaps)
		return len(result.Status), err
	})
	if err != nil {
		return err
	}

	return r.render(ctx, FileStatus, ChartStatus, result, func() (*chart.Image, error) {
		return RenderStatus(result.Status, snaps, opts.AsOf, st)
	})
}

func (r *Runner) behavior(ctx context.Context, in *inputs, opts Options, st chart.Style, result *Result) error {
	cat := opts.Settings.Catalog()
	err := r.aggregate(ctx, ChartBehavior, result, func() (int, error) {
		var err error
		latest := aggregate.LatestCumulative(in.observations)
		result.Topics, err = aggregate.TopicProportions(latest, cat)
		return len(result.Topics), err
	})
	if err != nil {
		return err
	}

	panels := BehaviorCharts(result.Topics, cat)
	for _, g := range cat.Groups {
		if len(aggregate.InGroup(result.Topics, g.Key)) == 0 {
			r.Logger.Warn("no responses for behavior group, chart skipped", "group", g.Key)
		}
	}

	for _, p := range panels {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.render(ctx, p.Name, ChartBehavior, result, func() (*chart.Image, error) {
			return chart.Diverging(p, st)
		}); err != nil {
			return err
		}
	}

	return r.render(ctx, FileCombined, ChartBehavior, result, func() (*chart.Image, error) {
		return chart.DivergingPanels(FileCombined, panels, chart.CombinedSize, st)
	})
}

// aggregate times one aggregation and reports it to the hooks. fn returns
// the number of aggregate rows it produced.
func (r *Runner) aggregate(ctx context.Context, name string, result *Result, fn func() (int, error)) error {
	hooks := observability.Pipeline()
	hooks.OnAggregateStart(ctx, name)
	start := time.Now()
	rows, err := fn()
	d := time.Since(start)
	hooks.OnAggregateComplete(ctx, name, rows, d, err)
	result.Stats.AggregateTime += d
	return err
}

// render times one image, reports it to the hooks and appends the artifact.
func (r *Runner) render(ctx context.Context, file, name string, result *Result, fn func() (*chart.Image, error)) error {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, file)
	start := time.Now()
	img, err := fn()
	d := time.Since(start)
	size := 0
	if img != nil {
		size = len(img.PNG)
	}
	hooks.OnRenderComplete(ctx, file, size, d, err)
	result.Stats.RenderTime += d
	if err != nil {
		return err
	}

	r.Logger.Debug("rendered chart", "file", file, "bytes", size, "duration", d)
	result.Artifacts = append(result.Artifacts, Artifact{Name: file, Chart: name, Image: img})
	return nil
}

// applyLogger sets the runner's logger on opts if opts has no logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
