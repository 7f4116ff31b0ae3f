package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// Client wraps the Neo4j driver with read/write helpers. All queries are
// parameterized; no caller-supplied value is ever interpolated into
// Cypher text.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *logrus.Logger
}

// NewClient connects to Neo4j and verifies connectivity, failing fast on
// startup. An unreachable store is a boundary failure for every caller.
func NewClient(ctx context.Context, uri, user, password, database string, logger *logrus.Logger) (*Client, error) {
	if uri == "" || user == "" {
		return nil, fmt.Errorf("neo4j credentials missing: uri=%s, user=%s", uri, user)
	}
	if database == "" {
		database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(user, password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 50
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}

	logger.WithFields(logrus.Fields{
		"uri":      uri,
		"database": database,
	}).Info("Neo4j client connected")

	return &Client{driver: driver, database: database, logger: logger}, nil
}

// Close closes the driver connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close neo4j driver: %w", err)
	}
	return nil
}

// HealthCheck verifies connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j health check failed: %w", err)
	}
	return nil
}

// Write executes a write query.
func (c *Client) Write(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, c.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return fmt.Errorf("write query failed: %w", err)
	}
	return nil
}

// Read executes a read query and returns one map per record.
func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}

	records := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, record.AsMap())
	}
	return records, nil
}

// SetupConstraints establishes uniqueness constraints on the identity
// fields before any writes, making upserts safe and lookups fast.
// Creation is idempotent; failures on pre-existing constraints are
// swallowed.
func (c *Client) SetupConstraints(ctx context.Context) {
	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (c:Codebase) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (cm:Commit) REQUIRE cm.sha IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (d:Developer) REQUIRE d.email IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (b:Branch) REQUIRE b.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:BusinessMilestone) REQUIRE m.id IS UNIQUE",
	}

	for _, constraint := range constraints {
		if err := c.Write(ctx, constraint, nil); err != nil {
			c.logger.WithError(err).Warn("Constraint creation failed (may already exist)")
		}
	}
}

// ClearDatabase removes every node and relationship. Administrative use
// only.
func (c *Client) ClearDatabase(ctx context.Context) error {
	if err := c.Write(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	c.logger.Info("Database cleared")
	return nil
}
