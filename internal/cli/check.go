package cli

import (
	"github.com/spf13/cobra"

	"github.com/datacommons/dogviz/pkg/a11y"
	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/pipeline"
)

// checkCommand creates the check command. It renders the charts in memory
// and reports accessibility problems without writing any file.
func (c *CLI) checkCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "check [chart...]",
		Short: "Check charts for accessibility problems",
		Long: `Check charts for accessibility problems.

Every chart must have a title and axis labels, text must reach a contrast
ratio of 4.5:1 against the background, and charts with more than one
colored series must carry a legend. Nothing is written to disk.`,
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

			result, err := c.execute(cmd.Context(), pipeline.Options{
				Settings: settings,
				Charts:   args,
				AsOf:     date,
			})
			if err != nil {
				return err
			}
			return reportIssues(result.Artifacts)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date for titles, "+dateLayout+" (default today)")

	return cmd
}

// reportIssues prints the accessibility findings per artifact and fails if
// any chart has one.
func reportIssues(artifacts []pipeline.Artifact) error {
	failed, total := 0, 0
	for _, a := range artifacts {
		issues := a11y.Check(a.Image.Description)
		if len(issues) == 0 {
			printSuccess("%s", a.Name)
			continue
		}
		failed++
		total += len(issues)
		printError("%s", a.Name)
		for _, is := range issues {
			printDetail("%s", is)
		}
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeRenderFailed,
			"%d accessibility issues in %d of %d charts", total, failed, len(artifacts))
	}
	return nil
}
