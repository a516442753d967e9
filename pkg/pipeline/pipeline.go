// Package pipeline provides the chart pipeline for dogviz.
//
// This package implements the complete load → aggregate → render sequence
// that the CLI commands share. Every chart is produced in one synchronous
// pass: its input files are read, aggregated in memory and drawn to PNG.
// Nothing is cached between runs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the profile, event and behavior extracts into typed records
//  2. Aggregate: Compute age counts, status shares and topic proportions
//  3. Render: Draw each chart and encode it as PNG
//
// Writing the artifacts to disk is a separate step so that callers which
// only inspect the charts (accessibility checks, image comparison) never
// touch the output directory.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Settings: settings,
//	    Charts:   []string{pipeline.ChartAge, pipeline.ChartStatus},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := pipeline.WriteArtifacts(ctx, settings.OutputDir, result.Artifacts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"

	"github.com/datacommons/dogviz/pkg/aggregate"
	"github.com/datacommons/dogviz/pkg/chart"
	"github.com/datacommons/dogviz/pkg/config"
	"github.com/datacommons/dogviz/pkg/errors"
)

// =============================================================================
// Chart Names
// =============================================================================

// Chart names accepted by [Options.Charts].
const (
	ChartAge      = "age"
	ChartStatus   = "status"
	ChartBehavior = "behavior"
)

// AllCharts lists every chart in the order they are produced.
var AllCharts = []string{ChartAge, ChartStatus, ChartBehavior}

// ValidCharts is the set of supported chart names.
var ValidCharts = map[string]bool{
	ChartAge:      true,
	ChartStatus:   true,
	ChartBehavior: true,
}

// Output file names.
const (
	FileAge      = "age_count.png"
	FileStatus   = "sex_status.png"
	FileCombined = "behavior_combined.png"
)

// BehaviorFile returns the output file name of one behavior group.
func BehaviorFile(group string) string {
	return "behavior_" + group + ".png"
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Settings holds the input locations and study parameters.
	Settings *config.Settings

	// Charts selects the charts to produce. Empty means all.
	Charts []string

	// AsOf is the reference date for ages and chart titles. Zero means today.
	AsOf civil.Date

	// IncludeDeceased counts deceased subjects in the age distribution.
	IncludeDeceased bool

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateChart checks that a chart name is valid.
func ValidateChart(name string) error {
	if !ValidCharts[name] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid chart: %q (must be one of: %s)", name, strings.Join(AllCharts, ", "))
	}
	return nil
}

// ValidateCharts checks that all chart names are valid.
func ValidateCharts(names []string) error {
	for _, n := range names {
		if err := ValidateChart(n); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if o.Settings == nil {
		o.Settings = config.Default()
	}
	if len(o.Charts) == 0 {
		o.Charts = append([]string(nil), AllCharts...)
	}
	if o.AsOf.IsZero() {
		o.AsOf = civil.DateOf(time.Now())
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateCharts(o.Charts); err != nil {
		return err
	}
	if !o.AsOf.IsValid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid as-of date %s", o.AsOf)
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Wants reports whether the named chart is selected.
func (o *Options) Wants(name string) bool {
	for _, c := range o.Charts {
		if c == name {
			return true
		}
	}
	return false
}

// needsSubjects reports whether the profile extract must be loaded.
func (o *Options) needsSubjects() bool {
	return o.Wants(ChartAge) || o.Wants(ChartStatus)
}

// =============================================================================
// Results
// =============================================================================

// Artifact is one rendered chart.
type Artifact struct {
	// Name is the output file name.
	Name  string
	Chart string
	Image *chart.Image
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// AsOf is the reference date the run used.
	AsOf civil.Date

	// Artifacts are in production order.
	Artifacts []Artifact

	// Age is the age distribution, when the age chart was produced.
	Age *aggregate.AgeResult

	// Status holds the status shares, when the status chart was produced.
	Status []aggregate.Share

	// Topics holds the topic proportions, when the behavior charts were produced.
	Topics []aggregate.TopicShare

	// Stats contains timing and size information.
	Stats Stats
}

// Artifact returns the artifact with the given file name.
func (r *Result) Artifact(name string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Subjects     int
	Observations int
	Merge        aggregate.MergeStats

	LoadTime      time.Duration
	AggregateTime time.Duration
	RenderTime    time.Duration
}

// =============================================================================
// Titles
// =============================================================================

// asOfLabel formats a date as "MAY, 2024".
func asOfLabel(d civil.Date) string {
	return fmt.Sprintf("%s, %d", strings.ToUpper(d.Month.String()), d.Year)
}

// AgeTitle returns the age chart title for a reference date.
func AgeTitle(d civil.Date) string {
	return "AGE DISTRIBUTIONS AS OF " + asOfLabel(d)
}

// StatusTitle returns the status chart title for a reference date.
func StatusTitle(d civil.Date) string {
	return "SEX AND STERILIZATION STATUS AS OF " + asOfLabel(d)
}
