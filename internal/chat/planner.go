package chat

// Query is one named, parameterized context query from the fixed
// catalog. Every query is capped to a handful of rows to bound the
// context passed to the completion service.
type Query struct {
	Name   string
	Cypher string
	Params map[string]any
}

// Names of the catalog queries, in assembly order.
const (
	queryRelevantCommits       = "relevant_commits"
	queryRelevantDevelopers    = "relevant_developers"
	queryRelevantFiles         = "relevant_files"
	queryRelevantMilestones    = "relevant_milestones"
	queryCollaborationPatterns = "collaboration_patterns"
	queryRepositoryOverview    = "repository_overview"
)

// PlanQueries selects context queries from the catalog, each gated on
// whether its keyword category was detected. When no gate fires, the
// single repository-overview query is the fallback. All caller-derived
// values are bound as parameters.
func PlanQueries(codebaseID string, keywords Keywords) []Query {
	params := map[string]any{
		"codebase_id": codebaseID,
		"pattern":     keywords.SearchPattern(),
	}

	var queries []Query

	if len(keywords.SearchTerms) > 0 {
		queries = append(queries, Query{
			Name: queryRelevantCommits,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
				OPTIONAL MATCH (commit)<-[:AUTHORED]-(dev:Developer)
				OPTIONAL MATCH (commit)-[:MODIFIES]->(file:File)
				WITH commit, dev, file
				WHERE commit.message =~ $pattern
				   OR commit.feature_summary =~ $pattern
				   OR commit.business_impact =~ $pattern
				RETURN commit.sha AS commit_sha,
				       commit.message AS commit_message,
				       commit.feature_summary AS feature_summary,
				       commit.business_impact AS business_impact,
				       commit.timestamp AS timestamp,
				       commit.insertions AS insertions,
				       commit.deletions AS deletions,
				       dev.name AS author_name,
				       dev.email AS author_email,
				       collect(DISTINCT file.name) AS files_modified
				ORDER BY commit.timestamp DESC
				LIMIT 5`,
			Params: params,
		})
	}

	if keywords.NodeTypes["developer"] || len(keywords.SearchTerms) > 0 {
		queries = append(queries, Query{
			Name: queryRelevantDevelopers,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)<-[:AUTHORED]-(dev:Developer)
				WHERE dev.name =~ $pattern
				   OR dev.email =~ $pattern
				   OR any(area IN dev.expertise_areas WHERE area =~ $pattern)
				RETURN DISTINCT dev.name AS name,
				       dev.email AS email,
				       dev.expertise_areas AS expertise_areas,
				       dev.total_commits AS total_commits,
				       dev.contribution_score AS contribution_score,
				       dev.lines_added AS lines_added,
				       dev.lines_removed AS lines_removed
				ORDER BY contribution_score DESC
				LIMIT 5`,
			Params: params,
		})
	}

	if keywords.NodeTypes["file"] || len(keywords.SearchTerms) > 0 {
		queries = append(queries, Query{
			Name: queryRelevantFiles,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)-[:MODIFIES]->(file:File)
				WHERE file.name =~ $pattern
				   OR file.path =~ $pattern
				RETURN file.name AS filename,
				       file.path AS filepath,
				       file.extension AS extension,
				       file.total_commits AS modifications,
				       collect(DISTINCT commit.sha)[0..3] AS recent_commits
				ORDER BY file.total_commits DESC
				LIMIT 5`,
			Params: params,
		})
	}

	if keywords.NodeTypes["milestone"] ||
		keywords.HasSearchTerm("release") || keywords.HasSearchTerm("version") || keywords.HasSearchTerm("milestone") {
		queries = append(queries, Query{
			Name: queryRelevantMilestones,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})-[:HAS_MILESTONE]->(milestone:BusinessMilestone)
				OPTIONAL MATCH (milestone)-[:RELATES_TO]->(commit:Commit)
				RETURN milestone.name AS name,
				       milestone.description AS description,
				       milestone.milestone_type AS type,
				       milestone.version AS version,
				       milestone.date AS date,
				       collect(DISTINCT commit.sha)[0..3] AS related_commits
				ORDER BY milestone.date DESC
				LIMIT 3`,
			Params: params,
		})
	}

	if keywords.HasSearchTerm("collaboration") || keywords.HasSearchTerm("team") ||
		keywords.HasSearchTerm("together") || keywords.HasSearchTerm("with") {
		queries = append(queries, Query{
			Name: queryCollaborationPatterns,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(c1:Commit)<-[:AUTHORED]-(dev1:Developer)
				MATCH (c)-[:CONTAINS_COMMIT]->(c2:Commit)<-[:AUTHORED]-(dev2:Developer)
				MATCH (c1)-[:MODIFIES]->(f:File)<-[:MODIFIES]-(c2)
				WHERE dev1.email < dev2.email
				RETURN dev1.name AS developer1,
				       dev2.name AS developer2,
				       count(DISTINCT f) AS shared_files,
				       collect(DISTINCT f.name)[0..3] AS common_files
				ORDER BY shared_files DESC
				LIMIT 5`,
			Params: params,
		})
	}

	if len(queries) == 0 {
		queries = append(queries, Query{
			Name: queryRepositoryOverview,
			Cypher: `
				MATCH (c:Codebase {id: $codebase_id})
				OPTIONAL MATCH (c)-[:CONTAINS_COMMIT]->(recent_commit:Commit)
				OPTIONAL MATCH (c)-[:HAS_MILESTONE]->(milestone:BusinessMilestone)
				OPTIONAL MATCH (recent_commit)<-[:AUTHORED]-(dev:Developer)
				RETURN c.name AS codebase_name,
				       c.total_commits AS total_commits,
				       c.total_developers AS total_developers,
				       collect(DISTINCT recent_commit.message)[0..3] AS recent_messages,
				       collect(DISTINCT dev.name)[0..5] AS active_developers,
				       collect(DISTINCT milestone.name)[0..3] AS milestones`,
			Params: params,
		})
	}

	return queries
}
