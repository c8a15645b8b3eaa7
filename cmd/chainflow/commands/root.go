package commands

import (
	"chainflow/internal/config"
	"chainflow/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "chainflow",
	Short: "chainflow pulls JIRA and GitHub activity into a DuckDB warehouse and derives status-transition chains",
	Long: `An ETL pipeline for flow visualizations: incremental fetchers for JIRA issues/changelogs
and GitHub pull requests/commits, plus derivations that turn the raw changelog into
per-issue status chains (Sankey-ready) and per-status dwell windows.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("chainflow starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(fetchCmd, chainsCmd, statusReportCmd)
}
