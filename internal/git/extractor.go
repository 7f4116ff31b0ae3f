package git

import (
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/sirupsen/logrus"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// Extractor turns a checkout into commit records, developer aggregates
// and branch metadata.
type Extractor struct {
	repo   *Repository
	logger *logrus.Logger
}

// NewExtractor creates an extractor over an opened repository.
func NewExtractor(repo *Repository, logger *logrus.Logger) *Extractor {
	return &Extractor{repo: repo, logger: logger}
}

// DeveloperActivity is the raw per-email aggregate scanned from the whole
// history. The metrics engine derives scores and expertise from it.
type DeveloperActivity struct {
	Email        string
	Name         string
	Commits      int
	LinesAdded   int
	LinesRemoved int
	Files        map[string]bool
	FirstCommit  time.Time
	LastCommit   time.Time
}

// CodebaseInfo scans the full history for aggregate counts and detects
// the primary language from the working tree.
func (e *Extractor) CodebaseInfo(gitURL string) (models.Codebase, error) {
	iter, err := e.repo.Git().Log(&gogit.LogOptions{All: true})
	if err != nil {
		return models.Codebase{}, fmt.Errorf("failed to read commit log: %w", err)
	}

	totalCommits := 0
	emails := make(map[string]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		totalCommits++
		emails[c.Author.Email] = true
		return nil
	})
	if err != nil {
		return models.Codebase{}, fmt.Errorf("failed to iterate commits: %w", err)
	}

	now := time.Now()
	slug := RepoSlug(gitURL)
	return models.Codebase{
		ID:              slug,
		GitURL:          gitURL,
		Name:            slug,
		CreatedAt:       now,
		LastAnalyzed:    now,
		TotalCommits:    totalCommits,
		TotalDevelopers: len(emails),
		PrimaryLanguage: e.PrimaryLanguage(),
	}, nil
}

// Branches lists the local branch heads of the checkout.
func (e *Extractor) Branches(codebaseID string) ([]models.Branch, error) {
	refs, err := e.repo.Git().Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	var branches []models.Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		total := 0
		iter, err := e.repo.Git().Log(&gogit.LogOptions{From: ref.Hash()})
		if err == nil {
			iter.ForEach(func(*object.Commit) error {
				total++
				return nil
			})
		}

		branches = append(branches, models.Branch{
			ID:            fmt.Sprintf("%s_%s", e.repo.Path(), name),
			Name:          name,
			CodebaseID:    codebaseID,
			CreatedAt:     time.Now(),
			LastCommitSHA: ref.Hash().String(),
			IsMainBranch:  name == "main" || name == "master",
			TotalCommits:  total,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return branches, nil
}

// DeveloperActivity aggregates over the entire history, unbounded by the
// commit window applied to History. Developer totals reflect the whole
// repository even when only a recent window is graphed.
func (e *Extractor) DeveloperActivity() ([]DeveloperActivity, error) {
	iter, err := e.repo.Git().Log(&gogit.LogOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	byEmail := make(map[string]*DeveloperActivity)
	var order []string

	err = iter.ForEach(func(c *object.Commit) error {
		email := c.Author.Email
		dev, ok := byEmail[email]
		if !ok {
			dev = &DeveloperActivity{
				Email: email,
				Name:  c.Author.Name,
				Files: make(map[string]bool),
			}
			byEmail[email] = dev
			order = append(order, email)
		}

		// Activity dates follow committer time to line up with the
		// commit timestamps stored on Commit nodes.
		when := c.Committer.When
		dev.Commits++
		if dev.FirstCommit.IsZero() || when.Before(dev.FirstCommit) {
			dev.FirstCommit = when
		}
		if when.After(dev.LastCommit) {
			dev.LastCommit = when
		}

		// Root commits carry no diff-derived stats.
		if c.NumParents() == 0 {
			return nil
		}
		stats, err := c.Stats()
		if err != nil {
			e.logger.WithError(err).WithField("sha", c.Hash.String()).
				Warn("Failed to compute stats for commit, skipping diff totals")
			return nil
		}
		for _, fs := range stats {
			dev.LinesAdded += fs.Addition
			dev.LinesRemoved += fs.Deletion
			dev.Files[fs.Name] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	developers := make([]DeveloperActivity, 0, len(order))
	for _, email := range order {
		developers = append(developers, *byEmail[email])
	}
	return developers, nil
}

// History extracts the most recent maxCount commits with diff-derived
// stats against each commit's first parent. A commit that fails to
// process is skipped with a warning and does not abort the batch.
func (e *Extractor) History(maxCount int) ([]models.Commit, error) {
	iter, err := e.repo.Git().Log(&gogit.LogOptions{
		All:   true,
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	var commits []models.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(commits) >= maxCount {
			return storer.ErrStop
		}

		commit, err := e.extractCommit(c)
		if err != nil {
			e.logger.WithError(err).WithField("sha", c.Hash.String()).
				Warn("Failed to process commit, skipping")
			return nil
		}
		commits = append(commits, commit)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}

func trimMessage(message string) string {
	return strings.TrimSpace(message)
}

func (e *Extractor) extractCommit(c *object.Commit) (models.Commit, error) {
	commit := models.Commit{
		SHA:            c.Hash.String(),
		Message:        trimMessage(c.Message),
		AuthorName:     c.Author.Name,
		AuthorEmail:    c.Author.Email,
		CommitterName:  c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		Timestamp:      c.Committer.When,
	}
	for _, parent := range c.ParentHashes {
		commit.ParentSHAs = append(commit.ParentSHAs, parent.String())
	}

	// A root commit reports zero insertions/deletions and no files.
	if c.NumParents() > 0 {
		stats, err := c.Stats()
		if err != nil {
			return models.Commit{}, fmt.Errorf("failed to diff against first parent: %w", err)
		}
		for _, fs := range stats {
			commit.FilesChanged = append(commit.FilesChanged, fs.Name)
			commit.Insertions += fs.Addition
			commit.Deletions += fs.Deletion
		}
	}

	commit.ComplexityScore = ComplexityScore(commit.Insertions, commit.Deletions, len(commit.FilesChanged))
	return commit, nil
}

// ComplexityScore is a bounded heuristic for a commit's size and scope:
// more changed lines and files mean higher complexity, capped at 10.
func ComplexityScore(insertions, deletions, filesChanged int) float64 {
	score := float64(insertions+deletions)*0.1 + float64(filesChanged)*0.5
	if score > 10.0 {
		return 10.0
	}
	return score
}
