package chat

import (
	"fmt"
	"strings"
)

// FormatContext renders each non-empty result set into a labeled text
// block and concatenates the blocks in a fixed order. The output is the
// context bundle handed to the completion service.
func FormatContext(results map[string][]map[string]any) string {
	var b strings.Builder
	b.WriteString("REPOSITORY CONTEXT:\n\n")

	if commits := results[queryRelevantCommits]; len(commits) > 0 {
		b.WriteString("=== RELEVANT COMMITS ===\n")
		for _, commit := range commits {
			fmt.Fprintf(&b, "• Commit %s by %s\n", shaPrefix(str(commit["commit_sha"])), orUnknown(str(commit["author_name"])))
			fmt.Fprintf(&b, "  Message: %s\n", str(commit["commit_message"]))
			if summary := str(commit["feature_summary"]); summary != "" {
				fmt.Fprintf(&b, "  Summary: %s\n", summary)
			}
			if impact := str(commit["business_impact"]); impact != "" {
				fmt.Fprintf(&b, "  Impact: %s\n", impact)
			}
			if files := strList(commit["files_modified"]); len(files) > 0 {
				fmt.Fprintf(&b, "  Files: %s\n", strings.Join(capList(files, 3), ", "))
			}
			b.WriteString("\n")
		}
	}

	if developers := results[queryRelevantDevelopers]; len(developers) > 0 {
		b.WriteString("=== RELEVANT DEVELOPERS ===\n")
		for _, dev := range developers {
			fmt.Fprintf(&b, "• %s (%s)\n", str(dev["name"]), str(dev["email"]))
			fmt.Fprintf(&b, "  Commits: %s, Score: %s\n", num(dev["total_commits"]), num(dev["contribution_score"]))
			if areas := strList(dev["expertise_areas"]); len(areas) > 0 {
				fmt.Fprintf(&b, "  Expertise: %s\n", strings.Join(areas, ", "))
			}
			b.WriteString("\n")
		}
	}

	if files := results[queryRelevantFiles]; len(files) > 0 {
		b.WriteString("=== RELEVANT FILES ===\n")
		for _, file := range files {
			fmt.Fprintf(&b, "• %s (%s)\n", str(file["filename"]), str(file["extension"]))
			fmt.Fprintf(&b, "  Path: %s\n", str(file["filepath"]))
			fmt.Fprintf(&b, "  Modifications: %s\n", num(file["modifications"]))
			b.WriteString("\n")
		}
	}

	if milestones := results[queryRelevantMilestones]; len(milestones) > 0 {
		b.WriteString("=== RELEVANT MILESTONES ===\n")
		for _, milestone := range milestones {
			fmt.Fprintf(&b, "• %s (%s)\n", str(milestone["name"]), str(milestone["type"]))
			fmt.Fprintf(&b, "  Description: %s\n", str(milestone["description"]))
			if version := str(milestone["version"]); version != "" {
				fmt.Fprintf(&b, "  Version: %s\n", version)
			}
			b.WriteString("\n")
		}
	}

	if collabs := results[queryCollaborationPatterns]; len(collabs) > 0 {
		b.WriteString("=== COLLABORATION PATTERNS ===\n")
		for _, collab := range collabs {
			fmt.Fprintf(&b, "• %s collaborates with %s\n", str(collab["developer1"]), str(collab["developer2"]))
			fmt.Fprintf(&b, "  Shared files: %s\n", num(collab["shared_files"]))
			if common := strList(collab["common_files"]); len(common) > 0 {
				fmt.Fprintf(&b, "  Common files: %s\n", strings.Join(common, ", "))
			}
			b.WriteString("\n")
		}
	}

	if overviews := results[queryRepositoryOverview]; len(overviews) > 0 {
		overview := overviews[0]
		b.WriteString("=== REPOSITORY OVERVIEW ===\n")
		fmt.Fprintf(&b, "• Repository: %s\n", str(overview["codebase_name"]))
		fmt.Fprintf(&b, "• Total commits: %s\n", num(overview["total_commits"]))
		fmt.Fprintf(&b, "• Total developers: %s\n", num(overview["total_developers"]))
		if devs := strList(overview["active_developers"]); len(devs) > 0 {
			fmt.Fprintf(&b, "• Active developers: %s\n", strings.Join(devs, ", "))
		}
		if milestones := strList(overview["milestones"]); len(milestones) > 0 {
			fmt.Fprintf(&b, "• Milestones: %s\n", strings.Join(milestones, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func shaPrefix(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	if sha == "" {
		return "N/A"
	}
	return sha
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func str(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// num renders graph-store numerics (int64 from Cypher integers, float64
// from floats) without a trailing .0 for whole numbers.
func num(value any) string {
	switch v := value.(type) {
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.2f", v), ".00")
	case int:
		return fmt.Sprintf("%d", v)
	case nil:
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func strList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		if direct, ok := value.([]string); ok {
			return direct
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := str(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
