package chat

import (
	"regexp"
	"strings"
)

// Node-type hints recognized in a question, per graph label.
var nodeKeywords = map[string][]string{
	"commit":    {"commit", "change", "fix", "bug", "feature", "implementation", "update", "add", "remove", "refactor"},
	"developer": {"developer", "author", "contributor", "engineer", "programmer", "who", "person", "team"},
	"file":      {"file", "code", "source", "script", "module", "class", "function"},
	"milestone": {"milestone", "release", "version", "launch", "deployment", "tag"},
	"branch":    {"branch", "main", "master", "develop", "feature-branch"},
}

// Relationship hints matched as phrases against the whole question.
var relationshipKeywords = map[string][]string{
	"AUTHORED":        {"authored", "written by", "created by", "developed by", "who wrote", "who made"},
	"CONTAINS_COMMIT": {"contains", "includes", "has commits"},
	"MODIFIES":        {"modifies", "changes", "updates", "affects", "touches"},
	"PARENT_OF":       {"parent", "follows", "after", "before", "sequence"},
	"HAS_MILESTONE":   {"milestone", "achieved", "reached", "released"},
}

var stopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true,
	"this": true, "that": true, "they": true, "them": true,
}

var wordPattern = regexp.MustCompile(`\w+`)

// Keywords is the classified view of a free-text question.
type Keywords struct {
	NodeTypes     map[string]bool
	Relationships map[string]bool
	SearchTerms   []string
}

// ExtractKeywords tokenizes the question and classifies tokens into
// node-type hints, relationship hints and free-text search terms.
// Search terms keep their first-appearance order and are deduplicated.
func ExtractKeywords(question string) Keywords {
	lower := strings.ToLower(question)
	tokens := wordPattern.FindAllString(lower, -1)
	tokenSet := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		tokenSet[token] = true
	}

	extracted := Keywords{
		NodeTypes:     make(map[string]bool),
		Relationships: make(map[string]bool),
	}

	for nodeType, keywords := range nodeKeywords {
		for _, keyword := range keywords {
			if tokenSet[keyword] {
				extracted.NodeTypes[nodeType] = true
				break
			}
		}
	}

	for relType, phrases := range relationshipKeywords {
		for _, phrase := range phrases {
			if strings.Contains(lower, phrase) {
				extracted.Relationships[relType] = true
				break
			}
		}
	}

	seen := make(map[string]bool)
	for _, token := range tokens {
		if len(token) > 3 && !stopwords[token] && !seen[token] {
			seen[token] = true
			extracted.SearchTerms = append(extracted.SearchTerms, token)
		}
	}

	return extracted
}

// HasSearchTerm reports whether term was extracted from the question.
func (k Keywords) HasSearchTerm(term string) bool {
	for _, t := range k.SearchTerms {
		if t == term {
			return true
		}
	}
	return false
}

// SearchPattern builds a case-insensitive regex alternation over the
// search terms for use as a bound query parameter. Every term is escaped
// first so adversarial question text cannot change the pattern's shape.
// With no search terms the pattern matches anything.
func (k Keywords) SearchPattern() string {
	if len(k.SearchTerms) == 0 {
		return "(?i).*"
	}
	escaped := make([]string, 0, len(k.SearchTerms))
	for _, term := range k.SearchTerms {
		escaped = append(escaped, regexp.QuoteMeta(term))
	}
	return "(?i).*(" + strings.Join(escaped, "|") + ").*"
}
