package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nickaggarwal/git-timeline-analysis/internal/metrics"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// Enricher computes the optional LLM-derived commit fields. Without a
// completer it degrades to the deterministic rule-based summary; a
// failing call degrades the same way and never aborts the batch.
type Enricher struct {
	completer Completer
	limiter   *rate.Limiter
	logger    *logrus.Logger
}

// NewEnricher creates an enricher. requestsPerMin bounds the call rate
// against the completion service; completer may be nil.
func NewEnricher(completer Completer, requestsPerMin int, logger *logrus.Logger) *Enricher {
	if requestsPerMin <= 0 {
		requestsPerMin = 60
	}
	return &Enricher{
		completer: completer,
		limiter:   rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), 1),
		logger:    logger,
	}
}

// EnrichmentLimit caps how many commits get LLM enrichment for a window
// of maxCommits: at most 50, or half the window, whichever is smaller.
func EnrichmentLimit(maxCommits int) int {
	limit := maxCommits / 2
	if limit > 50 {
		limit = 50
	}
	return limit
}

// EnrichCommits fills FeatureSummary and BusinessImpact on the most
// recent commits in place, up to the enrichment cap. It returns how many
// commits received a feature summary.
func (e *Enricher) EnrichCommits(ctx context.Context, commits []models.Commit, maxCommits int) int {
	limit := EnrichmentLimit(maxCommits)
	if limit > len(commits) {
		limit = len(commits)
	}

	enriched := 0
	for i := 0; i < limit; i++ {
		e.logger.WithFields(logrus.Fields{
			"sha":      shortSHA(commits[i].SHA),
			"progress": fmt.Sprintf("%d/%d", i+1, limit),
		}).Info("Enriching commit")

		commits[i].FeatureSummary = e.FeatureSummary(ctx, commits[i])
		commits[i].BusinessImpact = e.BusinessImpact(ctx, commits[i])
		if commits[i].FeatureSummary != "" {
			enriched++
		}
	}
	return enriched
}

// FeatureSummary describes what a commit accomplishes. It always returns
// a non-empty string: LLM failure falls back to the rule-based summary.
func (e *Enricher) FeatureSummary(ctx context.Context, commit models.Commit) string {
	if e.completer == nil {
		return metrics.BasicSummary(commit)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return metrics.BasicSummary(commit)
	}

	prompt := fmt.Sprintf(`Analyze this git commit and provide a concise feature summary:

Commit Message: %s
Files Changed: %s
Insertions: %d
Deletions: %d
Author: %s

Provide a 1-2 sentence summary of what this commit accomplishes in terms of features or functionality.
Focus on the business value and user-facing changes.`,
		commit.Message, strings.Join(capFiles(commit.FilesChanged, 10), ", "),
		commit.Insertions, commit.Deletions, commit.AuthorName)

	response, err := e.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: "You are a code analysis expert. Analyze git commits and provide concise feature summaries."},
		{Role: RoleUser, Content: prompt},
	}, 300)
	if err != nil {
		e.logger.WithError(err).WithField("sha", shortSHA(commit.SHA)).
			Warn("Feature summary generation failed, using rule-based summary")
		return metrics.BasicSummary(commit)
	}
	return strings.TrimSpace(response)
}

// BusinessImpact categorizes a commit's business impact. It returns ""
// when no completer is configured or the call fails; the field stays
// absent on the graph node.
func (e *Enricher) BusinessImpact(ctx context.Context, commit models.Commit) string {
	if e.completer == nil {
		return ""
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return ""
	}

	prompt := fmt.Sprintf(`Analyze this git commit for business impact:

Message: %s
Files changed: %s
Lines added/removed: +%d/-%d

Categorize the business impact as one of:
- Feature: New functionality
- Enhancement: Improvement to existing feature
- Bug Fix: Error correction
- Refactoring: Code improvement without functional change
- Infrastructure: Build, deployment, or tooling changes
- Documentation: Documentation updates
- Security: Security-related changes
- Performance: Performance optimizations

Provide a brief explanation (1-2 sentences) of why this categorization was chosen.

Format: "Category: Brief explanation"`,
		commit.Message, strings.Join(capFiles(commit.FilesChanged, 10), ", "),
		commit.Insertions, commit.Deletions)

	response, err := e.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: "You are a business analyst who understands software development impacts."},
		{Role: RoleUser, Content: prompt},
	}, 200)
	if err != nil {
		e.logger.WithError(err).WithField("sha", shortSHA(commit.SHA)).
			Warn("Business impact analysis failed, leaving field empty")
		return ""
	}
	return strings.TrimSpace(response)
}

func capFiles(files []string, n int) []string {
	if len(files) > n {
		return files[:n]
	}
	return files
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
