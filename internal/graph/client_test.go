package graph

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient connects to a live Neo4j instance, skipping the test
// when none is configured.
func setupTestClient(t *testing.T) *Client {
	t.Helper()

	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_TEST_URI not set")
	}
	user := os.Getenv("NEO4J_TEST_USERNAME")
	if user == "" {
		user = "neo4j"
	}
	password := os.Getenv("NEO4J_TEST_PASSWORD")

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	client, err := NewClient(context.Background(), uri, user, password, "neo4j", logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close(context.Background()) })

	return client
}

func TestClientHealthCheck(t *testing.T) {
	client := setupTestClient(t)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestClientWriteReadRoundtrip(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	err := client.Write(ctx, `
		MERGE (c:Codebase {id: $id})
		SET c.name = $name`,
		map[string]any{"id": "it-roundtrip", "name": "roundtrip"})
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Write(ctx, `MATCH (c:Codebase {id: $id}) DETACH DELETE c`, map[string]any{"id": "it-roundtrip"})
	})

	rows, err := client.Read(ctx, `
		MATCH (c:Codebase {id: $id})
		RETURN c.name AS name`,
		map[string]any{"id": "it-roundtrip"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "roundtrip", rows[0]["name"])
}

func TestClientSetupConstraintsIdempotent(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	// Running twice must not error; constraints use IF NOT EXISTS.
	client.SetupConstraints(ctx)
	client.SetupConstraints(ctx)
	assert.NoError(t, client.HealthCheck(ctx))
}
