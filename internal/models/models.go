package models

import "time"

// Codebase is the top-level entity for one analyzed repository.
// The id is derived from the repository URL slug and is the stable
// cross-run identity for everything the codebase owns.
type Codebase struct {
	ID              string
	GitURL          string
	Name            string
	Description     string
	CreatedAt       time.Time
	LastAnalyzed    time.Time
	TotalCommits    int
	TotalDevelopers int
	PrimaryLanguage string
}

// Developer aggregates a contributor's activity across the whole history.
// Email is the unique key; names are not unique across a repository.
type Developer struct {
	Email             string
	Name              string
	TotalCommits      int
	ExpertiseAreas    []string
	ContributionScore float64
	LinesAdded        int
	LinesRemoved      int
	FirstCommitDate   time.Time
	LastCommitDate    time.Time
}

// Commit is a single commit record with diff-derived stats.
// FeatureSummary and BusinessImpact are LLM enrichments and stay empty
// when no completion service is configured.
type Commit struct {
	SHA             string
	Message         string
	AuthorName      string
	AuthorEmail     string
	CommitterName   string
	CommitterEmail  string
	Timestamp       time.Time
	Branch          string
	FilesChanged    []string
	Insertions      int
	Deletions       int
	ParentSHAs      []string
	ComplexityScore float64
	FeatureSummary  string
	BusinessImpact  string
}

// Branch identifies a ref within one repository checkout.
type Branch struct {
	ID            string
	Name          string
	CodebaseID    string
	CreatedAt     time.Time
	LastCommitSHA string
	IsMainBranch  bool
	TotalCommits  int
}

// BusinessMilestone marks a commit the message heuristics flagged as a
// release, feature, bugfix or initialization event.
type BusinessMilestone struct {
	ID             string
	Name           string
	Description    string
	Date           time.Time
	CodebaseID     string
	RelatedCommits []string
	MilestoneType  string
	Version        string
}

// Milestone types in detection priority order.
const (
	MilestoneRelease        = "release"
	MilestoneFeature        = "feature"
	MilestoneBugfix         = "bugfix"
	MilestoneInitialization = "initialization"
)

// AnalysisRequest describes one analysis run.
type AnalysisRequest struct {
	GitURL            string
	MaxCommits        int
	IncludeEnrichment bool
}

// GraphStats counts nodes created or updated per entity type during one
// builder pass, plus write failures that were skipped.
type GraphStats struct {
	CodebaseNodes  int
	DeveloperNodes int
	BranchNodes    int
	CommitNodes    int
	MilestoneNodes int
	FileNodes      int
	WriteFailures  int
}

// Contributor is a summary row in the analysis report.
type Contributor struct {
	Name              string
	Email             string
	Commits           int
	ContributionScore float64
	ExpertiseAreas    []string
}

// MilestoneSummary is a summary row in the analysis report.
type MilestoneSummary struct {
	Name          string
	MilestoneType string
	Date          time.Time
	Version       string
}

// AnalysisSummary is returned by a completed analysis run.
type AnalysisSummary struct {
	CodebaseID       string
	RepositoryURL    string
	StartedAt        time.Time
	Duration         time.Duration
	TotalCommits     int
	TotalDevelopers  int
	TotalBranches    int
	TotalMilestones  int
	PrimaryLanguage  string
	EnrichedCommits  int
	EarliestCommit   time.Time
	LatestCommit     time.Time
	GraphStats       GraphStats
	TopContributors  []Contributor
	RecentMilestones []MilestoneSummary
}

// ChatMessage is one turn of prior conversation passed to the composer.
type ChatMessage struct {
	Role    string
	Content string
}

// ContextNode is one result row that contributed to a chat answer,
// labeled with the query that produced it.
type ContextNode struct {
	QueryName string
	Data      map[string]any
}

// ChatResult carries the answer plus its provenance: the assembled
// context, the queries that ran, and the rows that fed the context.
type ChatResult struct {
	Response      string
	Context       string
	RelevantNodes []ContextNode
	QueriesUsed   []string
}

// GraphNode and GraphRelationship form the bounded snapshot projection
// used for visualization.
type GraphNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

type GraphRelationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

type GraphSnapshot struct {
	Nodes         []GraphNode         `json:"nodes"`
	Relationships []GraphRelationship `json:"relationships"`
	TotalNodes    int                 `json:"total_nodes"`
	TotalRels     int                 `json:"total_relationships"`
}
