package graph

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/nickaggarwal/git-timeline-analysis/internal/models"
)

// Bounds on the visualization projection.
const (
	snapshotNodeLimit = 1000
	snapshotRelLimit  = 5000
)

// Snapshot returns a bounded projection of a codebase's commit graph for
// visualization. Node and relationship reads are independent and run in
// parallel.
func (c *Client) Snapshot(ctx context.Context, codebaseID string) (models.GraphSnapshot, error) {
	var nodeRecords, relRecords []map[string]any

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodeRecords, err = c.Read(gctx, fmt.Sprintf(`
			MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
			OPTIONAL MATCH (commit)<-[:AUTHORED]-(dev:Developer)
			RETURN commit, dev
			LIMIT %d`, snapshotNodeLimit),
			map[string]any{"codebase_id": codebaseID})
		return err
	})
	g.Go(func() error {
		var err error
		// The LIMIT sits outside the union so it bounds both branches
		// together, not just the last one.
		relRecords, err = c.Read(gctx, fmt.Sprintf(`
			CALL {
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
				MATCH (commit)<-[r:AUTHORED]-(dev:Developer)
				RETURN dev.email AS source, commit.sha AS target, type(r) AS rel_type
				UNION
				MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
				MATCH (commit)-[r:PARENT_OF]->(child:Commit)
				RETURN commit.sha AS source, child.sha AS target, type(r) AS rel_type
			}
			RETURN source, target, rel_type
			LIMIT %d`, snapshotRelLimit),
			map[string]any{"codebase_id": codebaseID})
		return err
	})
	if err := g.Wait(); err != nil {
		return models.GraphSnapshot{}, fmt.Errorf("snapshot query failed: %w", err)
	}

	return assembleSnapshot(nodeRecords, relRecords), nil
}

// assembleSnapshot dedups node rows and enforces the projection bounds.
// A node row carries up to two nodes (commit and author), so the raw
// node count can exceed the row limit; the slices are capped here.
func assembleSnapshot(nodeRecords, relRecords []map[string]any) models.GraphSnapshot {
	snapshot := models.GraphSnapshot{}
	seen := make(map[string]bool)

	for _, record := range nodeRecords {
		if props, id := nodeProps(record["commit"], "sha"); id != "" && !seen[id] {
			snapshot.Nodes = append(snapshot.Nodes, models.GraphNode{ID: id, Type: "commit", Properties: props})
			seen[id] = true
		}
		if props, id := nodeProps(record["dev"], "email"); id != "" && !seen[id] {
			snapshot.Nodes = append(snapshot.Nodes, models.GraphNode{ID: id, Type: "developer", Properties: props})
			seen[id] = true
		}
	}

	for _, record := range relRecords {
		snapshot.Relationships = append(snapshot.Relationships, models.GraphRelationship{
			Source: stringValue(record["source"]),
			Target: stringValue(record["target"]),
			Type:   stringValue(record["rel_type"]),
		})
	}

	if len(snapshot.Nodes) > snapshotNodeLimit {
		snapshot.Nodes = snapshot.Nodes[:snapshotNodeLimit]
	}
	if len(snapshot.Relationships) > snapshotRelLimit {
		snapshot.Relationships = snapshot.Relationships[:snapshotRelLimit]
	}

	snapshot.TotalNodes = len(snapshot.Nodes)
	snapshot.TotalRels = len(snapshot.Relationships)
	return snapshot
}

// DeveloperExpertise lists a codebase's developers ordered by
// contribution score.
func (c *Client) DeveloperExpertise(ctx context.Context, codebaseID string) ([]map[string]any, error) {
	return c.Read(ctx, `
		MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
		MATCH (commit)<-[:AUTHORED]-(dev:Developer)
		RETURN DISTINCT dev.name AS name,
		       dev.email AS email,
		       dev.expertise_areas AS expertise_areas,
		       dev.contribution_score AS contribution_score,
		       dev.total_commits AS total_commits,
		       dev.lines_added AS lines_added,
		       dev.lines_removed AS lines_removed
		ORDER BY contribution_score DESC`,
		map[string]any{"codebase_id": codebaseID})
}

// SearchCommits finds commits whose message matches term, matched as a
// case-insensitive literal. The term is escaped before it enters the
// regex predicate.
func (c *Client) SearchCommits(ctx context.Context, codebaseID, term string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "(?i).*" + regexp.QuoteMeta(term) + ".*"
	return c.Read(ctx, fmt.Sprintf(`
		MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
		WHERE commit.message =~ $pattern
		RETURN commit.sha AS sha,
		       commit.message AS message,
		       commit.author_name AS author,
		       commit.timestamp AS timestamp,
		       commit.feature_summary AS feature_summary,
		       commit.business_impact AS business_impact
		ORDER BY commit.timestamp DESC
		LIMIT %d`, limit),
		map[string]any{"codebase_id": codebaseID, "pattern": pattern})
}

// CollaborationFiles lists files touched by more than one developer.
func (c *Client) CollaborationFiles(ctx context.Context, codebaseID string) ([]map[string]any, error) {
	return c.Read(ctx, `
		MATCH (c:Codebase {id: $codebase_id})-[:CONTAINS_COMMIT]->(commit:Commit)
		MATCH (commit)-[:MODIFIES]->(file:File)
		MATCH (commit)<-[:AUTHORED]-(dev:Developer)
		WITH file.path AS file_path, collect(DISTINCT dev.name) AS developers
		WHERE size(developers) > 1
		RETURN file_path, developers, size(developers) AS dev_count
		ORDER BY dev_count DESC
		LIMIT 20`,
		map[string]any{"codebase_id": codebaseID})
}

func nodeProps(value any, idKey string) (map[string]any, string) {
	node, ok := value.(interface{ GetProperties() map[string]any })
	if !ok {
		return nil, ""
	}
	props := node.GetProperties()
	return props, stringValue(props[idKey])
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
