package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacommons/dogviz/pkg/observability"
	"github.com/datacommons/dogviz/pkg/observability/metrics"
	"github.com/datacommons/dogviz/pkg/pipeline"
)

// renderCommand creates the render command that writes the chart PNGs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		asOf        string
		output      string
		check       bool
		metricsFile string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [chart...]",
		Short: "Render dashboard charts to PNG files",
		Long: `Render dashboard charts to PNG files.

With no arguments every chart is rendered: age, status and behavior. The
behavior chart writes one file per topic group plus a combined figure.

Input files are read from data_dir and charts are written to output_dir,
both taken from the settings file.`,
		ValidArgs: pipeline.AllCharts,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateCharts(args); err != nil {
				return err
			}
			date, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			settings, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}
			if output != "" {
				settings.OutputDir = output
			}

			opts.Settings = settings
			opts.Charts = args
			opts.AsOf = date
			if metricsFile != "" {
				return c.runRenderWithMetrics(cmd.Context(), opts, check, metricsFile)
			}
			return c.runRender(cmd.Context(), opts, check)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date for ages and titles, "+dateLayout+" (default today)")
	cmd.Flags().BoolVar(&opts.IncludeDeceased, "include-deceased", false, "count deceased dogs in the age distribution")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (overrides output_dir)")
	cmd.Flags().BoolVar(&check, "check", false, "run the accessibility check on the rendered charts")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")

	return cmd
}

// runRender executes the pipeline and writes its artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, check bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	result, err := c.execute(ctx, opts)
	if err != nil {
		return err
	}

	paths, err := pipeline.WriteArtifacts(ctx, opts.Settings.OutputDir, result.Artifacts)
	if err != nil {
		return fmt.Errorf("write charts: %w", err)
	}
	prog.done(fmt.Sprintf("Wrote %d charts", len(paths)))

	printSuccess("Rendered %d charts", len(paths))
	printStats(result.Stats)
	printKeyValue("as of", result.AsOf.String())
	printKeyValue("output", opts.Settings.OutputDir)
	for _, p := range paths {
		printFile(p)
	}

	if check {
		return reportIssues(result.Artifacts)
	}
	printNextStep("Check accessibility", appName+" check")
	return nil
}

// runRenderWithMetrics records the run with Prometheus collectors and
// writes them to path, whether or not the run succeeded.
func (c *CLI) runRenderWithMetrics(ctx context.Context, opts pipeline.Options, check bool, path string) error {
	rec := metrics.New()
	observability.SetPipelineHooks(rec)
	observability.SetOutputHooks(rec)
	defer observability.Reset()

	err := c.runRender(ctx, opts, check)
	if werr := rec.WriteTextfile(path); werr != nil {
		if err == nil {
			return werr
		}
		loggerFromContext(ctx).Error("metrics not written", "file", path, "err", werr)
	}
	return err
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	opts.Logger = loggerFromContext(ctx)
	runner := pipeline.NewRunner(opts.Logger)

	spinner := newSpinner(ctx, "Rendering charts...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}
