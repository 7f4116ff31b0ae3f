package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

func TestBasicSummary(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"add", "Add retry logic to uploader", "Added new functionality: Add retry logic to uploader"},
		{"implement", "Implement OAuth flow", "Added new functionality: Implement OAuth flow"},
		{"fix", "Fix crash on empty payload", "Bug fix: Fix crash on empty payload"},
		{"update", "Update dependency pins", "Updated existing feature: Update dependency pins"},
		{"refactor", "Refactor queue worker", "Code improvement: Refactor queue worker"},
		{"fallback", "Tweak docs wording", "General change: Tweak docs wording"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicSummary(models.Commit{Message: tt.message})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBasicSummaryTruncatesToTenWords(t *testing.T) {
	message := "one two three four five six seven eight nine ten eleven twelve"
	got := BasicSummary(models.Commit{Message: message})
	assert.Equal(t, "General change: one two three four five six seven eight nine ten", got)
}

func TestBasicSummaryClassifiesOnSubjectLine(t *testing.T) {
	// Keywords in the body do not change the classification.
	message := "Tidy whitespace\n\nThis also fixes a bug mentioned in review"
	got := BasicSummary(models.Commit{Message: message})
	assert.Contains(t, got, "General change: ")
}
