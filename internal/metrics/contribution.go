package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/nickaggarwal/git-timeline-analysis/internal/git"
	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// ContributionScore is a linear weighted sum of a developer's activity
// volume, rounded to 2 decimals. It is intentionally not normalized:
// scores are comparable within one repository, not across repositories.
func ContributionScore(commits, linesAdded, linesRemoved, filesTouched int) float64 {
	score := float64(commits)*2 + float64(linesAdded+linesRemoved)*0.01 + float64(filesTouched)*0.5
	return math.Round(score*100) / 100
}

type expertiseRule struct {
	area     string
	patterns []string // matched as substrings
	lowered  bool     // match against the lowercased path
}

// Rules are ordered so the derived area list is deterministic.
var expertiseRules = []expertiseRule{
	{area: "Frontend", patterns: []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".html", ".css", ".scss"}},
	{area: "Backend", patterns: []string{".py", ".java", ".go", ".php", ".rb", ".cs"}},
	{area: "Database", patterns: []string{"migration", "schema", ".sql", "database"}, lowered: true},
	{area: "DevOps", patterns: []string{"dockerfile", "docker-compose", ".yml", ".yaml", "jenkins", "ci"}, lowered: true},
	{area: "Testing", patterns: []string{"test", "spec", "__test__"}, lowered: true},
	{area: "Documentation", patterns: []string{".md", ".rst", ".txt"}},
}

// ExpertiseAreas classifies the file paths a developer touched into
// coarse category tags. A single file can contribute to several areas;
// a developer matching none gets General.
func ExpertiseAreas(files []string) []string {
	matched := make(map[string]bool)

	for _, path := range files {
		lower := strings.ToLower(path)
		for _, rule := range expertiseRules {
			if matched[rule.area] {
				continue
			}
			subject := path
			if rule.lowered {
				subject = lower
			}
			for _, pattern := range rule.patterns {
				if strings.Contains(subject, pattern) {
					matched[rule.area] = true
					break
				}
			}
		}
	}

	if len(matched) == 0 {
		return []string{"General"}
	}

	areas := make([]string, 0, len(matched))
	for _, rule := range expertiseRules {
		if matched[rule.area] {
			areas = append(areas, rule.area)
		}
	}
	return areas
}

// BuildDevelopers derives Developer records from the raw per-email
// activity aggregates.
func BuildDevelopers(activity []git.DeveloperActivity) []models.Developer {
	developers := make([]models.Developer, 0, len(activity))
	for _, a := range activity {
		files := make([]string, 0, len(a.Files))
		for f := range a.Files {
			files = append(files, f)
		}
		sort.Strings(files)

		developers = append(developers, models.Developer{
			Email:             a.Email,
			Name:              a.Name,
			TotalCommits:      a.Commits,
			ExpertiseAreas:    ExpertiseAreas(files),
			ContributionScore: ContributionScore(a.Commits, a.LinesAdded, a.LinesRemoved, len(a.Files)),
			LinesAdded:        a.LinesAdded,
			LinesRemoved:      a.LinesRemoved,
			FirstCommitDate:   a.FirstCommit,
			LastCommitDate:    a.LastCommit,
		})
	}
	return developers
}
