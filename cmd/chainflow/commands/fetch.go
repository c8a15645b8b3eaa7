package commands

import (
	"sync"

	"chainflow/internal/github"
	"chainflow/internal/jira"
	"chainflow/internal/warehouse"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	searchPageSize     = 100
	commitFetchWorkers = 4
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull upstream activity into the warehouse",
}

var fetchJiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Fetch JIRA issues and their changelogs incrementally",
	Run:   runFetchJira,
}

var fetchGithubCmd = &cobra.Command{
	Use:   "github",
	Short: "Fetch GitHub pull requests and their commits incrementally",
	Run:   runFetchGithub,
}

func init() {
	fetchCmd.AddCommand(fetchJiraCmd, fetchGithubCmd)
}

func runFetchJira(cmd *cobra.Command, args []string) {
	if err := cfg.ValidateJira(); err != nil {
		log.Fatal().Err(err).Msg("Invalid JIRA configuration")
	}

	ctx := cmd.Context()
	db, err := warehouse.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open warehouse")
	}
	defer db.Close()

	client := jira.NewClient(cfg.Jira)

	lastUpdated, err := db.LastIssueUpdated(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read last issue update")
	}
	jql := jira.IncrementalJQL(cfg.Jira.ProjectKey, jira.FormatUpdatedForJQL(lastUpdated))
	log.Info().Str("jql", jql).Msg("Starting JIRA fetch")

	startAt := 0
	total := 0
	for {
		resp, err := client.SearchIssues(jql, startAt, searchPageSize)
		if err != nil {
			log.Fatal().Err(err).Msg("JIRA search failed")
		}
		if len(resp.Issues) == 0 {
			break
		}

		for _, issue := range resp.Issues {
			histories, err := client.IssueChangelog(issue.Key)
			if err != nil {
				log.Fatal().Err(err).Str("issue", issue.Key).Msg("Fetching changelog failed")
			}

			if err := db.UpsertIssues(ctx, []warehouse.IssueRow{{Key: issue.Key, ID: issue.ID, Fields: issue.Fields}}); err != nil {
				log.Fatal().Err(err).Msg("Upserting issue failed")
			}
			if err := db.UpsertChangelog(ctx, jira.FlattenChangelog(issue.Key, histories)); err != nil {
				log.Fatal().Err(err).Msg("Upserting changelog failed")
			}
			if err := db.UpsertLinks(ctx, jira.ExtractLinks(issue.Key, issue.Fields)); err != nil {
				log.Fatal().Err(err).Msg("Upserting links failed")
			}
		}

		total += len(resp.Issues)
		log.Info().Int("processed", total).Int("total", resp.Total).Msg("Upserted issue page")

		if startAt+searchPageSize >= resp.Total {
			break
		}
		startAt += searchPageSize
	}

	log.Info().Int("issues", total).Msg("JIRA fetch complete")
}

func runFetchGithub(cmd *cobra.Command, args []string) {
	if err := cfg.ValidateGitHub(); err != nil {
		log.Fatal().Err(err).Msg("Invalid GitHub configuration")
	}

	ctx := cmd.Context()
	db, err := warehouse.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open warehouse")
	}
	defer db.Close()

	client, err := github.NewClient(ctx, cfg.GitHub)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create GitHub client")
	}

	since, err := db.LastPullRequestUpdated(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read last pull request update")
	}
	log.Info().Time("since", since).Msg("Starting GitHub fetch")

	prs, err := client.PullRequests(ctx, since)
	if err != nil {
		log.Fatal().Err(err).Msg("Fetching pull requests failed")
	}
	if len(prs) == 0 {
		log.Info().Msg("No new pull requests")
		return
	}
	if err := db.UpsertPullRequests(ctx, prs); err != nil {
		log.Fatal().Err(err).Msg("Upserting pull requests failed")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commitFetchWorkers)

	var mu sync.Mutex
	var commits []warehouse.CommitRow
	for _, pr := range prs {
		pr := pr
		g.Go(func() error {
			rows, err := client.Commits(gctx, pr.ID, pr.Number)
			if err != nil {
				return err
			}
			log.Debug().Int("pr", pr.Number).Int("commits", len(rows)).Msg("Fetched PR commits")
			mu.Lock()
			commits = append(commits, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Fetching pull request commits failed")
	}

	if err := db.UpsertCommits(ctx, commits); err != nil {
		log.Fatal().Err(err).Msg("Upserting commits failed")
	}

	log.Info().Int("pullRequests", len(prs)).Int("commits", len(commits)).Msg("GitHub fetch complete")
}
