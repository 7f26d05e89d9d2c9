package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hive/internal/config"
	"github.com/vango-dev/hive/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	configPath string
	noColor    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hive",
		Short: "Reactive state containers served over WebSocket",
		Long: `hive serves a declarative state tree to remote components.

Components subscribe to keys of a module and receive patches whenever a
setter or action changes them. The tree, server and logging are described
in hive.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to "+config.ConfigFileName+" (default: nearest "+config.ConfigFileName+" upwards from the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored error output")

	cmd.AddCommand(
		newServeCommand(opts),
		newInspectCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// loadConfig reads the file named by --config or searches for one.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.LoadFromWorkingDir()
}
