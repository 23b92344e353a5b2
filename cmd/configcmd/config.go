// Package configcmd implements the config subcommands.
package configcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StateFromJakeFarm/research/internal/conf"
)

// SkipInitAnnotation marks commands that run without loading the configuration.
const SkipInitAnnotation = "sounds/skip-init"

// Command creates the config parent command
func Command() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sounds configuration file",
	}

	configCmd.AddCommand(InitCommand())

	return configCmd
}

// InitCommand creates the config init subcommand, which writes the built-in
// defaults as YAML.
func InitCommand() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write the default configuration to a YAML file",
		Long:        "Writes the default configuration to path, or to the first default config location when no path is given.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{SkipInitAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			written, err := writeDefaults(path, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", written)
			return nil
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return initCmd
}

// writeDefaults saves the default settings to path and returns the path written.
func writeDefaults(path string, force bool) (string, error) {
	if path == "" {
		var err error
		if path, err = conf.DefaultConfigFile(); err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	if err := conf.SaveYAMLConfig(path, conf.DefaultSettings()); err != nil {
		return "", err
	}
	return path, nil
}
