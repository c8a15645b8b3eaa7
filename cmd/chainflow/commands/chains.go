package commands

import (
	"os"
	"path/filepath"

	"chainflow/internal/chain"
	"chainflow/internal/export"
	"chainflow/internal/jira"
	"chainflow/internal/warehouse"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Derive status-transition chains and export the Sankey dataset",
	Run:   runChains,
}

func runChains(cmd *cobra.Command, args []string) {
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

	metas := make(map[string]chain.Meta, len(issues))
	for _, row := range issues {
		f, err := jira.ProjectFields(row.Key, row.Fields)
		if err != nil {
			log.Warn().Err(err).Str("issue", row.Key).Msg("Skipping issue with unusable metadata")
			continue
		}
		metas[row.Key] = chain.Meta{Created: f.Created, Status: f.Status, IssueType: f.IssueType}
	}

	transitions := chain.ExtractTransitions(events, metas)
	steps := chain.BuildChainSteps(transitions, metas)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.OutputDir).Msg("Failed to create output directory")
	}
	outPath := filepath.Join(cfg.OutputDir, "status_chains_for_sankey.csv")
	if err := export.WriteChainSteps(outPath, steps); err != nil {
		log.Fatal().Err(err).Msg("Writing chain dataset failed")
	}

	log.Info().Str("path", outPath).Int("rows", len(steps)).Msg("Saved Sankey-compatible chain dataset")
}
