package commands

import (
	"os"
	"path/filepath"

	"chainflow/internal/export"
	"chainflow/internal/jira"
	"chainflow/internal/report"
	"chainflow/internal/warehouse"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var statusReportCmd = &cobra.Command{
	Use:   "status-report",
	Short: "Export per-issue first/last entry times for every status",
	Run:   runStatusReport,
}

func runStatusReport(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	db, err := warehouse.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open warehouse")
	}
	defer db.Close()

	events, err := db.StatusEvents(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Reading status events failed")
	}
	issues, err := db.Issues(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Reading issues failed")
	}

	fields := make(map[string]jira.IssueFields, len(issues))
	for _, row := range issues {
		f, err := jira.ProjectFields(row.Key, row.Fields)
		if err != nil {
			log.Warn().Err(err).Str("issue", row.Key).Msg("Skipping issue with unusable metadata")
			continue
		}
		fields[row.Key] = f
	}

	rep := report.Build(events, fields)
	if len(rep.Statuses) == 0 {
		log.Warn().Msg("No statuses found in the changelog")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.OutputDir).Msg("Failed to create output directory")
	}
	outPath := filepath.Join(cfg.OutputDir, "result.csv")
	if err := export.WriteStatusReport(outPath, rep); err != nil {
		log.Fatal().Err(err).Msg("Writing status report failed")
	}

	log.Info().Str("path", outPath).Int("issues", len(rep.Rows)).Msg("Saved status window report")
}
