package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordNode struct {
	props map[string]any
}

func (n recordNode) GetProperties() map[string]any { return n.props }

func commitNode(sha string) recordNode {
	return recordNode{props: map[string]any{"sha": sha, "message": "change " + sha}}
}

func devNode(email string) recordNode {
	return recordNode{props: map[string]any{"email": email, "name": email}}
}

func TestAssembleSnapshotDedupsNodes(t *testing.T) {
	nodeRecords := []map[string]any{
		{"commit": commitNode("aaa"), "dev": devNode("alice@example.com")},
		{"commit": commitNode("bbb"), "dev": devNode("alice@example.com")},
		{"commit": commitNode("bbb"), "dev": devNode("bob@example.com")},
	}
	relRecords := []map[string]any{
		{"source": "alice@example.com", "target": "aaa", "rel_type": "AUTHORED"},
		{"source": "aaa", "target": "bbb", "rel_type": "PARENT_OF"},
	}

	snapshot := assembleSnapshot(nodeRecords, relRecords)

	require.Len(t, snapshot.Nodes, 4)
	assert.Equal(t, 4, snapshot.TotalNodes)
	require.Len(t, snapshot.Relationships, 2)
	assert.Equal(t, 2, snapshot.TotalRels)
	assert.Equal(t, "AUTHORED", snapshot.Relationships[0].Type)
}

func TestAssembleSnapshotCapsNodes(t *testing.T) {
	// Each row contributes a distinct commit and a distinct developer, so
	// the raw node count is twice the row count.
	var nodeRecords []map[string]any
	for i := 0; i < 700; i++ {
		nodeRecords = append(nodeRecords, map[string]any{
			"commit": commitNode(fmt.Sprintf("sha-%d", i)),
			"dev":    devNode(fmt.Sprintf("dev-%d@example.com", i)),
		})
	}

	snapshot := assembleSnapshot(nodeRecords, nil)

	assert.Len(t, snapshot.Nodes, snapshotNodeLimit)
	assert.Equal(t, snapshotNodeLimit, snapshot.TotalNodes)
}

func TestAssembleSnapshotCapsRelationships(t *testing.T) {
	var relRecords []map[string]any
	for i := 0; i < snapshotRelLimit+100; i++ {
		relRecords = append(relRecords, map[string]any{
			"source":   fmt.Sprintf("sha-%d", i),
			"target":   fmt.Sprintf("sha-%d", i+1),
			"rel_type": "PARENT_OF",
		})
	}

	snapshot := assembleSnapshot(nil, relRecords)

	assert.Len(t, snapshot.Relationships, snapshotRelLimit)
	assert.Equal(t, snapshotRelLimit, snapshot.TotalRels)
}
