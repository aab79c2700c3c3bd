package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"landlord_rep/internal/adapters/observability"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "repctl",
		Short: "Landlord reputation operator tool",
		Long: `repctl evaluates landlord review fixtures offline and loads them
into the directory database.

Fixtures are YAML files with a top-level "landlords" list; each landlord
carries its reviews inline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			log.Logger = observability.NewLogger("dev", "repctl", level).
				Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml); environment variables override it")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newScoreCmd(), newSeedCmd(opts))
	return cmd
}
