package graph

import (
	"context"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// Builder idempotently upserts the extracted entities and their
// relationships. Write order matters for referential integrity: the
// Codebase node first, then Developers, Branches, Commits (which attach
// contains and authorship edges), then Milestones, then Files.
//
// Per-entity write failures are logged and counted but do not abort the
// batch; the caller inspects GraphStats for partial failure.
type Builder struct {
	client *Client
	logger *logrus.Logger
}

// NewBuilder creates a graph builder.
func NewBuilder(client *Client, logger *logrus.Logger) *Builder {
	return &Builder{client: client, logger: logger}
}

// BuildGraph writes the full entity graph for one analysis run.
func (b *Builder) BuildGraph(
	ctx context.Context,
	codebase models.Codebase,
	developers []models.Developer,
	branches []models.Branch,
	commits []models.Commit,
	milestones []models.BusinessMilestone,
) (models.GraphStats, error) {
	stats := models.GraphStats{}

	b.client.SetupConstraints(ctx)

	if err := b.upsertCodebase(ctx, codebase); err != nil {
		// Without the codebase node nothing downstream can link; abort.
		return stats, err
	}
	stats.CodebaseNodes = 1

	stats.DeveloperNodes = b.upsertDevelopers(ctx, developers, &stats)
	stats.BranchNodes = b.upsertBranches(ctx, branches, codebase.ID, &stats)
	stats.CommitNodes = b.upsertCommits(ctx, commits, codebase.ID, &stats)
	stats.MilestoneNodes = b.upsertMilestones(ctx, milestones, &stats)
	stats.FileNodes = b.upsertFiles(ctx, commits, &stats)

	b.logger.WithFields(logrus.Fields{
		"codebase":   codebase.ID,
		"developers": stats.DeveloperNodes,
		"branches":   stats.BranchNodes,
		"commits":    stats.CommitNodes,
		"milestones": stats.MilestoneNodes,
		"files":      stats.FileNodes,
		"failures":   stats.WriteFailures,
	}).Info("Graph build finished")

	return stats, nil
}

func (b *Builder) upsertCodebase(ctx context.Context, codebase models.Codebase) error {
	return b.client.Write(ctx, `
		MERGE (c:Codebase {id: $id})
		SET c.git_url = $git_url,
		    c.name = $name,
		    c.description = $description,
		    c.created_at = $created_at,
		    c.last_analyzed = $last_analyzed,
		    c.total_commits = $total_commits,
		    c.total_developers = $total_developers,
		    c.primary_language = $primary_language`,
		map[string]any{
			"id":               codebase.ID,
			"git_url":          codebase.GitURL,
			"name":             codebase.Name,
			"description":      codebase.Description,
			"created_at":       codebase.CreatedAt,
			"last_analyzed":    codebase.LastAnalyzed,
			"total_commits":    codebase.TotalCommits,
			"total_developers": codebase.TotalDevelopers,
			"primary_language": codebase.PrimaryLanguage,
		})
}

func (b *Builder) upsertDevelopers(ctx context.Context, developers []models.Developer, stats *models.GraphStats) int {
	created := 0
	for _, dev := range developers {
		err := b.client.Write(ctx, `
			MERGE (d:Developer {email: $email})
			SET d.name = $name,
			    d.total_commits = $total_commits,
			    d.expertise_areas = $expertise_areas,
			    d.contribution_score = $contribution_score,
			    d.first_commit_date = $first_commit_date,
			    d.last_commit_date = $last_commit_date,
			    d.lines_added = $lines_added,
			    d.lines_removed = $lines_removed`,
			map[string]any{
				"email":              dev.Email,
				"name":               dev.Name,
				"total_commits":      dev.TotalCommits,
				"expertise_areas":    dev.ExpertiseAreas,
				"contribution_score": dev.ContributionScore,
				"first_commit_date":  dev.FirstCommitDate,
				"last_commit_date":   dev.LastCommitDate,
				"lines_added":        dev.LinesAdded,
				"lines_removed":      dev.LinesRemoved,
			})
		if err != nil {
			b.logger.WithError(err).WithField("email", dev.Email).Error("Failed to upsert developer node")
			stats.WriteFailures++
			continue
		}
		created++
	}
	return created
}

func (b *Builder) upsertBranches(ctx context.Context, branches []models.Branch, codebaseID string, stats *models.GraphStats) int {
	created := 0
	for _, branch := range branches {
		err := b.client.Write(ctx, `
			MERGE (b:Branch {id: $id})
			SET b.name = $name,
			    b.codebase_id = $codebase_id,
			    b.created_at = $created_at,
			    b.last_commit_sha = $last_commit_sha,
			    b.is_main_branch = $is_main_branch,
			    b.total_commits = $total_commits
			WITH b
			MATCH (c:Codebase {id: $codebase_id})
			MERGE (c)-[:HAS_BRANCH]->(b)`,
			map[string]any{
				"id":              branch.ID,
				"name":            branch.Name,
				"codebase_id":     codebaseID,
				"created_at":      branch.CreatedAt,
				"last_commit_sha": branch.LastCommitSHA,
				"is_main_branch":  branch.IsMainBranch,
				"total_commits":   branch.TotalCommits,
			})
		if err != nil {
			b.logger.WithError(err).WithField("branch", branch.Name).Error("Failed to upsert branch node")
			stats.WriteFailures++
			continue
		}
		created++
	}
	return created
}

// upsertCommits writes commit nodes and their edges. The authorship edge
// joins on author email: when no Developer node matches, the MATCH
// produces no rows and the edge silently does not materialize. Parent
// edges resolve only when both commits exist in the graph; parents
// outside the extracted window stay unlinked.
func (b *Builder) upsertCommits(ctx context.Context, commits []models.Commit, codebaseID string, stats *models.GraphStats) int {
	created := 0
	for _, commit := range commits {
		err := b.client.Write(ctx, `
			MERGE (c:Commit {sha: $sha})
			SET c.message = $message,
			    c.author_name = $author_name,
			    c.author_email = $author_email,
			    c.committer_name = $committer_name,
			    c.committer_email = $committer_email,
			    c.timestamp = $timestamp,
			    c.files_changed = $files_changed,
			    c.insertions = $insertions,
			    c.deletions = $deletions,
			    c.parent_shas = $parent_shas,
			    c.feature_summary = $feature_summary,
			    c.business_impact = $business_impact,
			    c.complexity_score = $complexity_score`,
			map[string]any{
				"sha":              commit.SHA,
				"message":          commit.Message,
				"author_name":      commit.AuthorName,
				"author_email":     commit.AuthorEmail,
				"committer_name":   commit.CommitterName,
				"committer_email":  commit.CommitterEmail,
				"timestamp":        commit.Timestamp,
				"files_changed":    commit.FilesChanged,
				"insertions":       commit.Insertions,
				"deletions":        commit.Deletions,
				"parent_shas":      commit.ParentSHAs,
				"feature_summary":  commit.FeatureSummary,
				"business_impact":  commit.BusinessImpact,
				"complexity_score": commit.ComplexityScore,
			})
		if err != nil {
			b.logger.WithError(err).WithField("sha", commit.SHA).Error("Failed to upsert commit node")
			stats.WriteFailures++
			continue
		}

		if err := b.client.Write(ctx, `
			MATCH (cb:Codebase {id: $codebase_id})
			MATCH (c:Commit {sha: $sha})
			MERGE (cb)-[:CONTAINS_COMMIT]->(c)`,
			map[string]any{"codebase_id": codebaseID, "sha": commit.SHA}); err != nil {
			b.logger.WithError(err).WithField("sha", commit.SHA).Error("Failed to link commit to codebase")
			stats.WriteFailures++
		}

		if err := b.client.Write(ctx, `
			MATCH (d:Developer {email: $author_email})
			MATCH (c:Commit {sha: $sha})
			MERGE (d)-[:AUTHORED {timestamp: $timestamp}]->(c)`,
			map[string]any{
				"author_email": commit.AuthorEmail,
				"sha":          commit.SHA,
				"timestamp":    commit.Timestamp,
			}); err != nil {
			b.logger.WithError(err).WithField("sha", commit.SHA).Error("Failed to link commit to author")
			stats.WriteFailures++
		}

		created++
	}

	// Parent edges after all commit nodes exist, so in-window parents
	// resolve regardless of extraction order.
	for _, commit := range commits {
		for _, parentSHA := range commit.ParentSHAs {
			if err := b.client.Write(ctx, `
				MATCH (parent:Commit {sha: $parent_sha})
				MATCH (child:Commit {sha: $child_sha})
				MERGE (parent)-[:PARENT_OF]->(child)`,
				map[string]any{"parent_sha": parentSHA, "child_sha": commit.SHA}); err != nil {
				b.logger.WithError(err).WithField("sha", commit.SHA).Error("Failed to link commit to parent")
				stats.WriteFailures++
			}
		}
	}

	return created
}

func (b *Builder) upsertMilestones(ctx context.Context, milestones []models.BusinessMilestone, stats *models.GraphStats) int {
	created := 0
	for _, milestone := range milestones {
		err := b.client.Write(ctx, `
			MERGE (m:BusinessMilestone {id: $id})
			SET m.name = $name,
			    m.description = $description,
			    m.date = $date,
			    m.codebase_id = $codebase_id,
			    m.related_commits = $related_commits,
			    m.milestone_type = $milestone_type,
			    m.version = $version
			WITH m
			MATCH (c:Codebase {id: $codebase_id})
			MERGE (c)-[:HAS_MILESTONE]->(m)`,
			map[string]any{
				"id":              milestone.ID,
				"name":            milestone.Name,
				"description":     milestone.Description,
				"date":            milestone.Date,
				"codebase_id":     milestone.CodebaseID,
				"related_commits": milestone.RelatedCommits,
				"milestone_type":  milestone.MilestoneType,
				"version":         milestone.Version,
			})
		if err != nil {
			b.logger.WithError(err).WithField("milestone", milestone.ID).Error("Failed to upsert milestone node")
			stats.WriteFailures++
			continue
		}

		for _, sha := range milestone.RelatedCommits {
			if err := b.client.Write(ctx, `
				MATCH (m:BusinessMilestone {id: $id})
				MATCH (c:Commit {sha: $sha})
				MERGE (m)-[:RELATES_TO]->(c)`,
				map[string]any{"id": milestone.ID, "sha": sha}); err != nil {
				b.logger.WithError(err).WithField("milestone", milestone.ID).Error("Failed to link milestone to commit")
				stats.WriteFailures++
			}
		}

		created++
	}
	return created
}

// upsertFiles rebuilds File nodes by rescanning every commit's changed
// file list. total_commits reflects the current batch only and is
// overwritten on re-analysis; with a smaller commit window the counter
// shrinks accordingly.
func (b *Builder) upsertFiles(ctx context.Context, commits []models.Commit, stats *models.GraphStats) int {
	fileCommits := collectFileCommits(commits)

	created := 0
	for _, fc := range fileCommits {
		err := b.client.Write(ctx, `
			MERGE (f:File {path: $path})
			SET f.name = $name,
			    f.extension = $extension,
			    f.directory = $directory,
			    f.total_commits = $total_commits`,
			map[string]any{
				"path":          fc.Path,
				"name":          path.Base(fc.Path),
				"extension":     fileExtension(fc.Path),
				"directory":     path.Dir(fc.Path),
				"total_commits": len(fc.SHAs),
			})
		if err != nil {
			b.logger.WithError(err).WithField("path", fc.Path).Error("Failed to upsert file node")
			stats.WriteFailures++
			continue
		}

		for _, sha := range fc.SHAs {
			if err := b.client.Write(ctx, `
				MATCH (f:File {path: $path})
				MATCH (c:Commit {sha: $sha})
				MERGE (c)-[:MODIFIES]->(f)`,
				map[string]any{"path": fc.Path, "sha": sha}); err != nil {
				b.logger.WithError(err).WithField("path", fc.Path).Error("Failed to link file to commit")
				stats.WriteFailures++
			}
		}

		created++
	}
	return created
}

type fileCommitGroup struct {
	Path string
	SHAs []string
}

// collectFileCommits groups commit shas by touched file, preserving the
// order files first appear across the batch.
func collectFileCommits(commits []models.Commit) []fileCommitGroup {
	index := make(map[string]int)
	var groups []fileCommitGroup

	for _, commit := range commits {
		for _, filePath := range commit.FilesChanged {
			i, ok := index[filePath]
			if !ok {
				i = len(groups)
				index[filePath] = i
				groups = append(groups, fileCommitGroup{Path: filePath})
			}
			groups[i].SHAs = append(groups[i].SHAs, commit.SHA)
		}
	}
	return groups
}

func fileExtension(filePath string) string {
	ext := path.Ext(filePath)
	return strings.TrimPrefix(ext, ".")
}
