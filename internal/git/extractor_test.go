package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = object.Signature{Name: "Alice", Email: "alice@example.com"}
	bob   = object.Signature{Name: "Bob", Email: "bob@example.com"}
)

// initTestRepo creates a throwaway repository with three commits:
// a root commit by Alice, a second commit by Alice and one by Bob.
func initTestRepo(t *testing.T) *Repository {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wrapped := &Repository{repo: repo, path: dir, keepDir: true}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	commitFile(t, wrapped, "main.go", "package main\n", "Initial commit", alice, base)
	commitFile(t, wrapped, "main.go", "package main\n\nfunc main() {}\n", "Add main function", alice, base.Add(time.Hour))
	commitFile(t, wrapped, "README.md", "# demo\n", "Add readme", bob, base.Add(2*time.Hour))

	return wrapped
}

func commitFile(t *testing.T, r *Repository, name, content, message string, author object.Signature, when time.Time) {
	t.Helper()

	path := filepath.Join(r.Path(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wt, err := r.Git().Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	sig := author
	sig.When = when
	_, err = wt.Commit(message, &gogit.CommitOptions{Author: &sig, Committer: &sig})
	require.NoError(t, err)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestHistory(t *testing.T) {
	repo := initTestRepo(t)
	extractor := NewExtractor(repo, testLogger())

	commits, err := extractor.History(0)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	// Newest first.
	assert.Equal(t, "Add readme", commits[0].Message)
	assert.Equal(t, "bob@example.com", commits[0].AuthorEmail)
	assert.Equal(t, []string{"README.md"}, commits[0].FilesChanged)
	assert.Equal(t, 1, commits[0].Insertions)
	assert.Len(t, commits[0].ParentSHAs, 1)

	// Root commit carries no diff stats and no parents.
	root := commits[2]
	assert.Equal(t, "Initial commit", root.Message)
	assert.Empty(t, root.ParentSHAs)
	assert.Empty(t, root.FilesChanged)
	assert.Zero(t, root.Insertions)
	assert.Zero(t, root.Deletions)
	assert.Zero(t, root.ComplexityScore)
}

func TestHistoryMaxCount(t *testing.T) {
	repo := initTestRepo(t)
	extractor := NewExtractor(repo, testLogger())

	commits, err := extractor.History(2)
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestDeveloperActivity(t *testing.T) {
	repo := initTestRepo(t)
	extractor := NewExtractor(repo, testLogger())

	activity, err := extractor.DeveloperActivity()
	require.NoError(t, err)
	require.Len(t, activity, 2)

	byEmail := make(map[string]DeveloperActivity)
	for _, a := range activity {
		byEmail[a.Email] = a
	}

	aliceActivity := byEmail["alice@example.com"]
	assert.Equal(t, 2, aliceActivity.Commits)
	// The root commit contributes no diff stats, so only the second
	// commit's touched file counts.
	assert.Equal(t, map[string]bool{"main.go": true}, aliceActivity.Files)
	assert.True(t, aliceActivity.FirstCommit.Before(aliceActivity.LastCommit))

	bobActivity := byEmail["bob@example.com"]
	assert.Equal(t, 1, bobActivity.Commits)
	assert.Equal(t, 1, bobActivity.LinesAdded)
	assert.Equal(t, map[string]bool{"README.md": true}, bobActivity.Files)
}

func TestDeveloperActivityUsesCommitterTime(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wrapped := &Repository{repo: repo, path: dir, keepDir: true}

	// A rebased commit keeps the author time but gets a later
	// committer time; activity dates must follow the latter.
	authored := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	committed := authored.Add(48 * time.Hour)

	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	authorSig := alice
	authorSig.When = authored
	committerSig := alice
	committerSig.When = committed
	_, err = wt.Commit("Initial commit", &gogit.CommitOptions{Author: &authorSig, Committer: &committerSig})
	require.NoError(t, err)

	extractor := NewExtractor(wrapped, testLogger())
	activity, err := extractor.DeveloperActivity()
	require.NoError(t, err)
	require.Len(t, activity, 1)

	assert.True(t, activity[0].FirstCommit.Equal(committed))
	assert.True(t, activity[0].LastCommit.Equal(committed))
}

func TestCodebaseInfo(t *testing.T) {
	repo := initTestRepo(t)
	extractor := NewExtractor(repo, testLogger())

	codebase, err := extractor.CodebaseInfo("https://github.com/acme/demo.git")
	require.NoError(t, err)

	assert.Equal(t, "demo", codebase.ID)
	assert.Equal(t, "demo", codebase.Name)
	assert.Equal(t, 3, codebase.TotalCommits)
	assert.Equal(t, 2, codebase.TotalDevelopers)
	assert.Equal(t, "Go", codebase.PrimaryLanguage)
	assert.False(t, codebase.LastAnalyzed.IsZero())
	assert.False(t, codebase.CreatedAt.IsZero())
}

func TestBranches(t *testing.T) {
	repo := initTestRepo(t)
	extractor := NewExtractor(repo, testLogger())

	branches, err := extractor.Branches("demo")
	require.NoError(t, err)
	require.Len(t, branches, 1)

	branch := branches[0]
	assert.Equal(t, "demo", branch.CodebaseID)
	assert.Equal(t, 3, branch.TotalCommits)
	assert.True(t, branch.IsMainBranch)
	assert.NotEmpty(t, branch.LastCommitSHA)
}

func TestComplexityScore(t *testing.T) {
	tests := []struct {
		name       string
		insertions int
		deletions  int
		files      int
		expected   float64
	}{
		{"empty", 0, 0, 0, 0},
		{"small change", 10, 5, 1, 2.0},
		{"capped at ten", 500, 500, 40, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ComplexityScore(tt.insertions, tt.deletions, tt.files), 0.001)
		})
	}
}
