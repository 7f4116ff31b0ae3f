package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryNames(queries []Query) []string {
	names := make([]string, 0, len(queries))
	for _, q := range queries {
		names = append(names, q.Name)
	}
	return names
}

func TestPlanQueriesOverviewFallback(t *testing.T) {
	// A question yielding no search terms and no node hints plans only
	// the overview query.
	keywords := ExtractKeywords("hi?")
	queries := PlanQueries("demo", keywords)

	assert.Equal(t, []string{queryRepositoryOverview}, queryNames(queries))
}

func TestPlanQueriesSearchTermsGateCommits(t *testing.T) {
	keywords := ExtractKeywords("anything about billing retries")
	queries := PlanQueries("demo", keywords)

	names := queryNames(queries)
	assert.Contains(t, names, queryRelevantCommits)
	assert.Contains(t, names, queryRelevantDevelopers)
	assert.Contains(t, names, queryRelevantFiles)
	assert.NotContains(t, names, queryRepositoryOverview)
}

func TestPlanQueriesMilestoneGate(t *testing.T) {
	queries := PlanQueries("demo", ExtractKeywords("when was the last release?"))
	assert.Contains(t, queryNames(queries), queryRelevantMilestones)

	queries = PlanQueries("demo", ExtractKeywords("show me billing commits"))
	assert.NotContains(t, queryNames(queries), queryRelevantMilestones)
}

func TestPlanQueriesCollaborationGate(t *testing.T) {
	queries := PlanQueries("demo", ExtractKeywords("which developers work together?"))
	assert.Contains(t, queryNames(queries), queryCollaborationPatterns)
}

func TestPlanQueriesBindParameters(t *testing.T) {
	keywords := ExtractKeywords("billing errors")
	queries := PlanQueries("demo", keywords)
	require.NotEmpty(t, queries)

	for _, q := range queries {
		assert.Equal(t, "demo", q.Params["codebase_id"])
		assert.Equal(t, keywords.SearchPattern(), q.Params["pattern"])
		// Question-derived text never lands in the query string itself.
		assert.NotContains(t, q.Cypher, "billing")
	}
}
