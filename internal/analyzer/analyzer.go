package analyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nickaggarwal/git-timeline-analysis/internal/config"
	"github.com/nickaggarwal/git-timeline-analysis/internal/git"
	"github.com/nickaggarwal/git-timeline-analysis/internal/graph"
	"github.com/nickaggarwal/git-timeline-analysis/internal/jobs"
	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
	"github.com/nickaggarwal/git-timeline-analysis/internal/metrics"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"

	"github.com/google/uuid"
)

const (
	topContributorCount  = 10
	recentMilestoneCount = 5
)

// Analyzer runs the full ingestion pipeline: clone, extract, score,
// enrich, and write the graph.
type Analyzer struct {
	cfg      *config.Config
	client   *graph.Client
	enricher *llm.Enricher
	store    jobs.Store
	logger   *logrus.Logger
}

// New creates an analyzer. enricher may be nil when no completion
// service is configured; store may be nil when job tracking is not
// wanted.
func New(cfg *config.Config, client *graph.Client, enricher *llm.Enricher, store jobs.Store, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		client:   client,
		enricher: enricher,
		store:    store,
		logger:   logger,
	}
}

// Run executes one analysis for the given request and returns the
// summary. Progress is recorded on the job store when one is configured.
func (a *Analyzer) Run(ctx context.Context, req models.AnalysisRequest) (models.AnalysisSummary, error) {
	start := time.Now()
	codebaseID := git.RepoSlug(req.GitURL)

	jobID := a.startJob(codebaseID)

	summary, err := a.run(ctx, req, codebaseID, start, jobID)
	if err != nil {
		a.finishJob(jobID, StatusFromErr(err), err)
		return summary, err
	}
	a.finishJob(jobID, jobs.StatusCompleted, nil)
	return summary, nil
}

func (a *Analyzer) run(ctx context.Context, req models.AnalysisRequest, codebaseID string, start time.Time, jobID string) (models.AnalysisSummary, error) {
	log := a.logger.WithFields(logrus.Fields{
		"codebase_id": codebaseID,
		"repo_url":    req.GitURL,
	})

	if req.MaxCommits <= 0 {
		req.MaxCommits = a.cfg.Analysis.MaxCommits
	}

	log.Info("Starting repository analysis")
	a.progress(jobID, "cloning repository")

	repo, err := git.CloneRepository(ctx, req.GitURL, a.cfg.Analysis.CloneDir, a.cfg.Analysis.KeepClones)
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to clone repository: %w", err)
	}
	defer repo.Cleanup()

	extractor := git.NewExtractor(repo, a.logger)

	a.progress(jobID, "scanning repository metadata")
	codebase, err := extractor.CodebaseInfo(req.GitURL)
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to extract codebase info: %w", err)
	}
	codebase.LastAnalyzed = start

	branches, err := extractor.Branches(codebase.ID)
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to extract branches: %w", err)
	}
	log.WithField("branches", len(branches)).Info("Extracted branches")

	a.progress(jobID, "aggregating developer activity")
	activity, err := extractor.DeveloperActivity()
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to aggregate developer activity: %w", err)
	}
	developers := metrics.BuildDevelopers(activity)
	log.WithField("developers", len(developers)).Info("Scored developers")

	a.progress(jobID, "extracting commit history")
	commits, err := extractor.History(req.MaxCommits)
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to extract commit history: %w", err)
	}
	log.WithField("commits", len(commits)).Info("Extracted commit history")

	enrichedCount := 0
	if req.IncludeEnrichment && a.enricher != nil {
		a.progress(jobID, "enriching commits")
		enrichedCount = a.enricher.EnrichCommits(ctx, commits, req.MaxCommits)
		log.WithField("enriched", enrichedCount).Info("Enriched commits")
	}

	milestones := metrics.DetectMilestones(commits, codebase.ID)
	log.WithField("milestones", len(milestones)).Info("Detected milestones")

	a.progress(jobID, "writing graph")
	builder := graph.NewBuilder(a.client, a.logger)
	stats, err := builder.BuildGraph(ctx, codebase, developers, branches, commits, milestones)
	if err != nil {
		return models.AnalysisSummary{}, fmt.Errorf("failed to build graph: %w", err)
	}

	summary := buildSummary(codebase, developers, branches, commits, milestones, stats, start, enrichedCount)

	log.WithFields(logrus.Fields{
		"duration":       summary.Duration.Round(time.Millisecond).String(),
		"commit_nodes":   stats.CommitNodes,
		"write_failures": stats.WriteFailures,
	}).Info("Analysis complete")

	return summary, nil
}

func buildSummary(
	codebase models.Codebase,
	developers []models.Developer,
	branches []models.Branch,
	commits []models.Commit,
	milestones []models.BusinessMilestone,
	stats models.GraphStats,
	start time.Time,
	enriched int,
) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		CodebaseID:      codebase.ID,
		RepositoryURL:   codebase.GitURL,
		StartedAt:       start,
		Duration:        time.Since(start),
		TotalCommits:    codebase.TotalCommits,
		TotalDevelopers: len(developers),
		TotalBranches:   len(branches),
		TotalMilestones: len(milestones),
		PrimaryLanguage: codebase.PrimaryLanguage,
		EnrichedCommits: enriched,
		GraphStats:      stats,
	}

	for _, commit := range commits {
		if summary.EarliestCommit.IsZero() || commit.Timestamp.Before(summary.EarliestCommit) {
			summary.EarliestCommit = commit.Timestamp
		}
		if commit.Timestamp.After(summary.LatestCommit) {
			summary.LatestCommit = commit.Timestamp
		}
	}

	summary.TopContributors = topContributors(developers, topContributorCount)
	summary.RecentMilestones = recentMilestones(milestones, recentMilestoneCount)
	return summary
}

func topContributors(developers []models.Developer, n int) []models.Contributor {
	sorted := make([]models.Developer, len(developers))
	copy(sorted, developers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ContributionScore > sorted[j].ContributionScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	contributors := make([]models.Contributor, 0, len(sorted))
	for _, dev := range sorted {
		contributors = append(contributors, models.Contributor{
			Name:              dev.Name,
			Email:             dev.Email,
			Commits:           dev.TotalCommits,
			ContributionScore: dev.ContributionScore,
			ExpertiseAreas:    dev.ExpertiseAreas,
		})
	}
	return contributors
}

func recentMilestones(milestones []models.BusinessMilestone, n int) []models.MilestoneSummary {
	sorted := make([]models.BusinessMilestone, len(milestones))
	copy(sorted, milestones)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	summaries := make([]models.MilestoneSummary, 0, len(sorted))
	for _, m := range sorted {
		summaries = append(summaries, models.MilestoneSummary{
			Name:          m.Name,
			MilestoneType: m.MilestoneType,
			Date:          m.Date,
			Version:       m.Version,
		})
	}
	return summaries
}

// StatusFromErr maps a run error to a terminal job status.
func StatusFromErr(err error) string {
	if err != nil {
		return jobs.StatusFailed
	}
	return jobs.StatusCompleted
}

func (a *Analyzer) startJob(codebaseID string) string {
	if a.store == nil {
		return ""
	}
	job := jobs.Job{
		ID:         uuid.NewString(),
		CodebaseID: codebaseID,
		Status:     jobs.StatusRunning,
		Progress:   "starting",
		StartedAt:  time.Now(),
	}
	if err := a.store.Put(job); err != nil {
		a.logger.WithError(err).Warn("Failed to record job start")
		return ""
	}
	return job.ID
}

func (a *Analyzer) progress(jobID, step string) {
	if a.store == nil || jobID == "" {
		return
	}
	err := a.store.Update(jobID, func(job *jobs.Job) {
		job.Progress = step
	})
	if err != nil {
		a.logger.WithError(err).Warn("Failed to record job progress")
	}
}

func (a *Analyzer) finishJob(jobID, status string, runErr error) {
	if a.store == nil || jobID == "" {
		return
	}
	err := a.store.Update(jobID, func(job *jobs.Job) {
		job.Status = status
		job.FinishedAt = time.Now()
		if runErr != nil {
			job.Error = runErr.Error()
		} else {
			job.Progress = "done"
		}
	})
	if err != nil {
		a.logger.WithError(err).Warn("Failed to record job completion")
	}
}
