// Package graph is the Neo4j-backed implementation of store.Store. Each
// request runs its own session; there is no cross-request transaction scope.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"kintree/backend/internal/store"
	"kintree/backend/pkg/logger"
)

var _ store.Store = (*Repository)(nil)

// Repository handles all Neo4j database operations.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository.
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection.
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureSchema creates the uniqueness constraints the node keys rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.write(ctx)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT person_id IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT tree_id IF NOT EXISTS FOR (t:FamilyTree) REQUIRE t.id IS UNIQUE",
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
		"CREATE CONSTRAINT group_id IF NOT EXISTS FOR (g:UserGroup) REQUIRE g.id IS UNIQUE",
		"CREATE CONSTRAINT comment_id IF NOT EXISTS FOR (c:PersonComment) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT sharelink_id IF NOT EXISTS FOR (s:ShareLink) REQUIRE s.id IS UNIQUE",
		"CREATE INDEX person_tree IF NOT EXISTS FOR (p:Person) ON (p.tree_id)",
		"CREATE INDEX comment_person IF NOT EXISTS FOR (c:PersonComment) ON (c.person_id)",
		"CREATE INDEX change_tree IF NOT EXISTS FOR (c:TreeChange) ON (c.tree_id)",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) read(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) write(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// run executes a write statement and drains the result.
func (r *Repository) run(ctx context.Context, query string, params map[string]interface{}) error {
	session := r.write(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// queryCount runs a read statement whose single return value is a count.
func (r *Repository) queryCount(ctx context.Context, query string, params map[string]interface{}) (int, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	if len(record.Values) == 0 {
		return 0, nil
	}
	if n, ok := record.Values[0].(int64); ok {
		return int(n), nil
	}
	return 0, nil
}
