// Package cli implements the dogviz command-line interface.
package cli

import (
	"io"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/datacommons/dogviz/pkg/buildinfo"
	"github.com/datacommons/dogviz/pkg/config"
	"github.com/datacommons/dogviz/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "dogviz"

	// dateLayout is the accepted --as-of format.
	dateLayout = "YYYY-MM-DD"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the settings file named by --config.
	ConfigPath string
}

// New creates a new CLI instance whose logger tags every line with a fresh
// run identifier.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newRunLogger(w, level),
		ConfigPath: config.DefaultFile,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Dogviz renders the study dashboard charts",
		Long: `Dogviz turns the de-identified study extracts into the public dashboard
charts: the age distribution, sex and sterilization status over the study
years, and the behavior survey response shares.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", c.ConfigPath, "settings file")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// loadSettings reads the settings file. The default file may be absent, in
// which case built-in defaults apply; a file named with --config must exist.
func (c *CLI) loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(c.ConfigPath)
	}
	return config.LoadOrDefault(c.ConfigPath)
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseAsOf parses the --as-of flag. An empty value leaves the date unset so
// the pipeline falls back to today.
func parseAsOf(s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, errors.Wrap(errors.ErrCodeInvalidConfig, err,
			"invalid --as-of %q (want %s)", s, dateLayout)
	}
	return d, nil
}
