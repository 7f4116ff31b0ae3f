package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoSlug(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"https with .git", "https://github.com/acme/widget.git", "widget"},
		{"https without .git", "https://github.com/acme/widget", "widget"},
		{"trailing slash", "https://github.com/acme/widget/", "widget"},
		{"ssh style", "git@github.com:acme/widget.git", "widget"},
		{"local path", "/srv/repos/widget", "widget"},
		{"bare name", "widget", "widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepoSlug(tt.url))
		})
	}
}

func TestOpenRepository(t *testing.T) {
	repo := initTestRepo(t)

	opened, err := OpenRepository(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, repo.Path(), opened.Path())

	_, err = OpenRepository(t.TempDir())
	assert.Error(t, err)
}

func TestCleanupKeepsReusedCheckouts(t *testing.T) {
	repo := initTestRepo(t)

	// Opened (not cloned) repositories are never removed.
	repo.Cleanup()
	_, err := OpenRepository(repo.Path())
	assert.NoError(t, err)
}

func TestRepoHashIsStable(t *testing.T) {
	assert.Equal(t, repoHash("https://github.com/acme/widget"), repoHash("https://github.com/acme/widget"))
	assert.NotEqual(t, repoHash("https://github.com/acme/widget"), repoHash("https://github.com/acme/other"))
	assert.Len(t, repoHash("x"), 16)
}
