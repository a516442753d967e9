package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/datacommons/dogviz/pkg/errors"
)

// configCommand creates the config command that prints the effective
// settings after defaults are applied.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print the effective settings as TOML.

The output is the settings file with every default filled in, so it can be
saved as a starting point for a new settings.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.loadSettings(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(c.ConfigPath); os.IsNotExist(err) {
				loggerFromContext(cmd.Context()).Debug("no settings file, using defaults", "file", c.ConfigPath)
			}
			if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(settings); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
			}
			return nil
		},
	}
}
