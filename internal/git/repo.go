package git

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Repository wraps a cloned or opened git repository.
type Repository struct {
	repo    *gogit.Repository
	path    string
	cloned  bool // true when we created the checkout and own its lifetime
	keepDir bool
}

// CloneRepository clones url into baseDir/<url-hash> and opens it.
// An existing valid checkout at that path is reused instead of re-cloned.
// Clone failure is fatal for the analysis run; the caller aborts.
func CloneRepository(ctx context.Context, url, baseDir string, keep bool) (*Repository, error) {
	if baseDir == "" {
		dir, err := os.MkdirTemp("", "gta-clone-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp clone dir: %w", err)
		}
		repo, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{URL: url})
		if err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("git clone failed for %s: %w", url, err)
		}
		return &Repository{repo: repo, path: dir, cloned: true, keepDir: keep}, nil
	}

	repoPath := filepath.Join(baseDir, repoHash(url))

	if existing, err := gogit.PlainOpen(repoPath); err == nil {
		return &Repository{repo: existing, path: repoPath, cloned: false, keepDir: true}, nil
	}
	// Stale or partial checkout, remove and re-clone.
	os.RemoveAll(repoPath)

	if err := os.MkdirAll(filepath.Dir(repoPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create clone dir: %w", err)
	}

	repo, err := gogit.PlainCloneContext(ctx, repoPath, false, &gogit.CloneOptions{URL: url})
	if err != nil {
		os.RemoveAll(repoPath)
		return nil, fmt.Errorf("git clone failed for %s: %w", url, err)
	}

	return &Repository{repo: repo, path: repoPath, cloned: true, keepDir: true}, nil
}

// OpenRepository opens an existing checkout.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	repo, err := gogit.PlainOpen(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", absPath, err)
	}
	return &Repository{repo: repo, path: absPath, keepDir: true}, nil
}

// Path returns the working-tree path.
func (r *Repository) Path() string {
	return r.path
}

// Git exposes the underlying go-git repository.
func (r *Repository) Git() *gogit.Repository {
	return r.repo
}

// Cleanup removes a temporary checkout. Reused and kept checkouts are
// left in place.
func (r *Repository) Cleanup() {
	if r.cloned && !r.keepDir && r.path != "" {
		os.RemoveAll(r.path)
	}
}

// RepoSlug derives the codebase id from a repository URL: the last path
// segment with any .git suffix removed.
func RepoSlug(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return trimmed
}

func repoHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum[:8])
}
