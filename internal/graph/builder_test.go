package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

func TestCollectFileCommits(t *testing.T) {
	commits := []models.Commit{
		{SHA: "aaa", FilesChanged: []string{"pkg/a.go", "pkg/b.go"}},
		{SHA: "bbb", FilesChanged: []string{"pkg/a.go"}},
		{SHA: "ccc", FilesChanged: []string{"docs/readme.md"}},
	}

	groups := collectFileCommits(commits)
	require.Len(t, groups, 3)

	// First-appearance order is preserved.
	assert.Equal(t, "pkg/a.go", groups[0].Path)
	assert.Equal(t, []string{"aaa", "bbb"}, groups[0].SHAs)
	assert.Equal(t, "pkg/b.go", groups[1].Path)
	assert.Equal(t, []string{"aaa"}, groups[1].SHAs)
	assert.Equal(t, "docs/readme.md", groups[2].Path)
}

func TestCollectFileCommitsEmpty(t *testing.T) {
	assert.Empty(t, collectFileCommits(nil))
	assert.Empty(t, collectFileCommits([]models.Commit{{SHA: "aaa"}}))
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"pkg/main.go", "go"},
		{"Dockerfile", ""},
		{"a/b/c.tar.gz", "gz"},
		{".gitignore", "gitignore"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, fileExtension(tt.path), tt.path)
	}
}
