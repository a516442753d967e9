package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/imgdiff"
)

const defaultDiffDir = "diff"

// compareCommand creates the compare command for visual regression checks.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		diffDir   string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "compare <baseline-dir> <candidate-dir>",
		Short: "Compare rendered charts against a baseline",
		Long: `Compare rendered charts against a baseline.

Every PNG in the baseline directory is compared with the file of the same
name in the candidate directory using the root mean square of the per-pixel
color difference. Images scoring above the threshold fail and a diff image
named diff_<file> is written to the diff directory. Files missing from the
candidate directory are reported but do not fail the comparison.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			report, err := imgdiff.CompareDirs(args[0], args[1], diffDir, threshold)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Compared %d images", len(report.Results)))

			printReport(report)
			if !report.OK() {
				return errors.New(errors.ErrCodeRenderFailed,
					"%d of %d images differ from the baseline", len(report.Failed()), len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&diffDir, "diff-dir", defaultDiffDir, "directory for diff images of failing files")
	cmd.Flags().Float64Var(&threshold, "threshold", imgdiff.DefaultThreshold, "maximum RMS difference")

	return cmd
}

// printReport prints one line per compared file.
func printReport(r *imgdiff.Report) {
	for _, res := range r.Results {
		switch {
		case res.Missing:
			printWarning("%s missing from candidate", res.Name)
		case res.Err != nil:
			printError("%s", res.Name)
			printDetail("%v", res.Err)
		case !res.Passed:
			printError("%s %s", res.Name, StyleNumber.Render(fmt.Sprintf("rms %.2f", res.RMS)))
			if res.DiffPath != "" {
				printFile(res.DiffPath)
			}
		default:
			printSuccess("%s %s", res.Name, StyleDim.Render(fmt.Sprintf("rms %.2f", res.RMS)))
		}
	}
	printDetail("threshold %.2f", r.Threshold)
}
