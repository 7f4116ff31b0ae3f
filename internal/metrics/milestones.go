package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

type milestonePattern struct {
	re            *regexp.Regexp
	milestoneType string
}

// Patterns run against the lowercased commit message in priority order;
// the first match wins and a commit yields at most one milestone.
var milestonePatterns = []milestonePattern{
	{regexp.MustCompile(`v?\d+\.\d+\.\d+`), models.MilestoneRelease},
	{regexp.MustCompile(`release|deploy|launch`), models.MilestoneRelease},
	{regexp.MustCompile(`merge.*feature|feat.*merge`), models.MilestoneFeature},
	{regexp.MustCompile(`hotfix|critical|urgent`), models.MilestoneBugfix},
	{regexp.MustCompile(`initial.*commit|first.*commit`), models.MilestoneInitialization},
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// DetectMilestones scans commit messages for business-milestone markers:
// version releases, release keywords, feature merges, hotfixes and the
// initial commit.
func DetectMilestones(commits []models.Commit, codebaseID string) []models.BusinessMilestone {
	var milestones []models.BusinessMilestone

	for _, commit := range commits {
		messageLower := strings.ToLower(commit.Message)

		for _, pattern := range milestonePatterns {
			if !pattern.re.MatchString(messageLower) {
				continue
			}

			version := ""
			if pattern.milestoneType == models.MilestoneRelease {
				version = extractVersion(commit.Message)
			}

			milestones = append(milestones, models.BusinessMilestone{
				ID:             fmt.Sprintf("%s_%s", codebaseID, shortSHA(commit.SHA)),
				Name:           firstLine(commit.Message, 100),
				Description:    commit.Message,
				Date:           commit.Timestamp,
				CodebaseID:     codebaseID,
				RelatedCommits: []string{commit.SHA},
				MilestoneType:  pattern.milestoneType,
				Version:        version,
			})
			break
		}
	}

	return milestones
}

// extractVersion pulls a major.minor.patch substring out of a release
// message. The extracted value is validated as semver; a value the
// parser rejects is still returned verbatim since it matched the
// release pattern.
func extractVersion(message string) string {
	m := versionPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	raw := m[1]
	if v, err := semver.NewVersion(raw); err == nil {
		return v.String()
	}
	return raw
}

func firstLine(message string, maxLen int) string {
	line := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		line = message[:idx]
	}
	if len(line) > maxLen {
		// Cut on a rune boundary so multi-byte messages stay valid UTF-8.
		if runes := []rune(line); len(runes) > maxLen {
			line = string(runes[:maxLen])
		}
	}
	return line
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
