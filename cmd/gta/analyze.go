package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickaggarwal/git-timeline-analysis/internal/analyzer"
	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <git-url>",
	Short: "Analyze a repository and build its history graph",
	Long: `Clones the repository, extracts commits, developers, branches, files
and business milestones, optionally enriches commits with LLM summaries,
and writes everything into the Neo4j graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("max-commits", 0, "maximum commits to ingest (default from config)")
	analyzeCmd.Flags().Bool("no-enrich", false, "skip LLM commit enrichment")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	maxCommits, _ := cmd.Flags().GetInt("max-commits")
	noEnrich, _ := cmd.Flags().GetBool("no-enrich")

	client, err := newGraphClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	defer client.Close(ctx)

	var enricher *llm.Enricher
	if completer := newCompleter(); completer != nil {
		enricher = llm.NewEnricher(completer, cfg.LLM.RequestsPerMin, logger)
	}

	store := newJobStore()
	defer store.Close()

	a := analyzer.New(cfg, client, enricher, store, logger)
	summary, err := a.Run(ctx, models.AnalysisRequest{
		GitURL:            args[0],
		MaxCommits:        maxCommits,
		IncludeEnrichment: !noEnrich && cfg.Analysis.EnrichByDefault,
	})
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

func printSummary(cmd *cobra.Command, summary models.AnalysisSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nAnalysis of %s complete in %s\n\n", summary.CodebaseID, summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Repository:   %s\n", summary.RepositoryURL)
	fmt.Fprintf(out, "  Language:     %s\n", summary.PrimaryLanguage)
	fmt.Fprintf(out, "  Commits:      %d total, %d ingested, %d enriched\n",
		summary.TotalCommits, summary.GraphStats.CommitNodes, summary.EnrichedCommits)
	fmt.Fprintf(out, "  Developers:   %d\n", summary.TotalDevelopers)
	fmt.Fprintf(out, "  Branches:     %d\n", summary.TotalBranches)
	fmt.Fprintf(out, "  Milestones:   %d\n", summary.TotalMilestones)
	fmt.Fprintf(out, "  Files:        %d\n", summary.GraphStats.FileNodes)
	if !summary.EarliestCommit.IsZero() {
		fmt.Fprintf(out, "  History:      %s to %s\n",
			summary.EarliestCommit.Format("2006-01-02"), summary.LatestCommit.Format("2006-01-02"))
	}
	if summary.GraphStats.WriteFailures > 0 {
		fmt.Fprintf(out, "  Write failures: %d (see logs)\n", summary.GraphStats.WriteFailures)
	}

	if len(summary.TopContributors) > 0 {
		fmt.Fprintf(out, "\nTop contributors:\n")
		for _, c := range summary.TopContributors {
			areas := strings.Join(c.ExpertiseAreas, ", ")
			fmt.Fprintf(out, "  %-30s %4d commits  score %.2f  [%s]\n", c.Name, c.Commits, c.ContributionScore, areas)
		}
	}

	if len(summary.RecentMilestones) > 0 {
		fmt.Fprintf(out, "\nRecent milestones:\n")
		for _, m := range summary.RecentMilestones {
			version := ""
			if m.Version != "" {
				version = " (" + m.Version + ")"
			}
			fmt.Fprintf(out, "  %s  [%s]%s %s\n", m.Date.Format("2006-01-02"), m.MilestoneType, version, m.Name)
		}
	}
}
