package metrics

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

func commitWithMessage(sha, message string) models.Commit {
	return models.Commit{
		SHA:       sha,
		Message:   message,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDetectMilestones(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		expectedType string
		version      string
	}{
		{"semver tag", "Bump to v2.1.0", models.MilestoneRelease, "2.1.0"},
		{"bare version", "1.0.3 maintenance", models.MilestoneRelease, "1.0.3"},
		{"release keyword without version", "Release to production", models.MilestoneRelease, ""},
		{"deploy keyword", "deploy new billing service", models.MilestoneRelease, ""},
		{"feature merge", "Merge branch feature/login into main", models.MilestoneFeature, ""},
		{"hotfix", "hotfix: null pointer in auth flow", models.MilestoneBugfix, ""},
		{"urgent fix", "URGENT patch for session leak", models.MilestoneBugfix, ""},
		{"initial commit", "Initial commit", models.MilestoneInitialization, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits := []models.Commit{commitWithMessage("abcdef1234567890", tt.message)}
			milestones := DetectMilestones(commits, "myrepo")
			require.Len(t, milestones, 1)

			m := milestones[0]
			assert.Equal(t, tt.expectedType, m.MilestoneType)
			assert.Equal(t, tt.version, m.Version)
			assert.Equal(t, "myrepo_abcdef12", m.ID)
			assert.Equal(t, "myrepo", m.CodebaseID)
			assert.Equal(t, []string{"abcdef1234567890"}, m.RelatedCommits)
		})
	}
}

func TestDetectMilestonesPriority(t *testing.T) {
	// A hotfix message carrying a version number classifies as a release:
	// the version pattern runs first and the first match wins.
	commits := []models.Commit{commitWithMessage("deadbeef00000000", "hotfix v1.2.3 for login outage")}
	milestones := DetectMilestones(commits, "myrepo")
	require.Len(t, milestones, 1)
	assert.Equal(t, models.MilestoneRelease, milestones[0].MilestoneType)
	assert.Equal(t, "1.2.3", milestones[0].Version)
}

func TestDetectMilestonesOnePerCommit(t *testing.T) {
	commits := []models.Commit{
		commitWithMessage("a000000000000000", "release v1.0.0 and merge feature branch"),
		commitWithMessage("b000000000000000", "ordinary refactor"),
	}
	milestones := DetectMilestones(commits, "myrepo")
	require.Len(t, milestones, 1)
	assert.Equal(t, models.MilestoneRelease, milestones[0].MilestoneType)
}

func TestDetectMilestonesName(t *testing.T) {
	long := "release: " + strings.Repeat("x", 150)
	commits := []models.Commit{
		commitWithMessage("c000000000000000", long+"\nsecond line is dropped"),
	}
	milestones := DetectMilestones(commits, "myrepo")
	require.Len(t, milestones, 1)
	assert.Len(t, milestones[0].Name, 100)
	assert.NotContains(t, milestones[0].Name, "second line")
}

func TestDetectMilestonesNameMultibyte(t *testing.T) {
	long := "release: " + strings.Repeat("é", 150)
	commits := []models.Commit{
		commitWithMessage("c000000000000000", long),
	}
	milestones := DetectMilestones(commits, "myrepo")
	require.Len(t, milestones, 1)

	name := milestones[0].Name
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, 100, utf8.RuneCountInString(name))
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "2.1.0", extractVersion("tagged v2.1.0 today"))
	assert.Equal(t, "0.0.1", extractVersion("0.0.1"))
	assert.Equal(t, "", extractVersion("no version here"))
}
