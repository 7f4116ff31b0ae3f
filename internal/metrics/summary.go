package metrics

import (
	"strings"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// BasicSummary is the deterministic fallback used when no completion
// service is configured or an enrichment call fails.
func BasicSummary(commit models.Commit) string {
	subject := strings.ToLower(firstLine(commit.Message, len(commit.Message)))
	lead := leadingWords(commit.Message, 10)

	switch {
	case containsAny(subject, "add", "implement", "create"):
		return "Added new functionality: " + lead
	case containsAny(subject, "fix", "resolve", "bug"):
		return "Bug fix: " + lead
	case containsAny(subject, "update", "modify", "change"):
		return "Updated existing feature: " + lead
	case containsAny(subject, "refactor", "cleanup", "improve"):
		return "Code improvement: " + lead
	default:
		return "General change: " + lead
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func leadingWords(message string, n int) string {
	words := strings.Fields(message)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
