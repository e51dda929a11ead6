package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

func treeFromRecord(record *neo4j.Record) model.Tree {
	return model.Tree{
		ID:        getStringFromRecord(record, "id"),
		Name:      getStringFromRecord(record, "name"),
		CreatedAt: getStringFromRecord(record, "created_at"),
	}
}

// CreateTree creates the tree node and its single OWNS edge in one session.
func (r *Repository) CreateTree(ctx context.Context, t model.Tree, ownerID string) error {
	session := r.write(ctx)
	defer session.Close(ctx)

	if _, err := session.Run(ctx,
		"CREATE (t:FamilyTree {id: $id, name: $name, created_at: $createdAt})",
		map[string]interface{}{"id": t.ID, "name": t.Name, "createdAt": t.CreatedAt},
	); err != nil {
		return fmt.Errorf("failed to create tree: %w", err)
	}
	if _, err := session.Run(ctx, `
		MATCH (u:User {id: $ownerID}), (t:FamilyTree {id: $treeID})
		CREATE (u)-[:OWNS]->(t)
	`, map[string]interface{}{"ownerID": ownerID, "treeID": t.ID}); err != nil {
		return fmt.Errorf("failed to set tree owner: %w", err)
	}
	return nil
}

func (r *Repository) GetTree(ctx context.Context, id string) (*model.Tree, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (t:FamilyTree {id: $id}) RETURN t.id AS id, t.name AS name, t.created_at AS created_at",
		map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query tree: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read tree: %w", err)
		}
		return nil, nil
	}
	t := treeFromRecord(result.Record())
	return &t, nil
}

func (r *Repository) RenameTree(ctx context.Context, id, name string) error {
	if err := r.run(ctx,
		"MATCH (t:FamilyTree {id: $id}) SET t.name = $name",
		map[string]interface{}{"id": id, "name": name}); err != nil {
		return fmt.Errorf("failed to rename tree: %w", err)
	}
	return nil
}

// DeleteTreeCascade removes everything the tree owns: comments, people
// (with their edges), share links and their viewer edges, audit records,
// and finally the tree node with its access edges.
func (r *Repository) DeleteTreeCascade(ctx context.Context, id string) error {
	session := r.write(ctx)
	defer session.Close(ctx)

	params := map[string]interface{}{"treeID": id}
	statements := []string{
		"MATCH (c:PersonComment {tree_id: $treeID}) DELETE c",
		"MATCH (p:Person {tree_id: $treeID}) DETACH DELETE p",
		"MATCH (s:ShareLink {tree_id: $treeID}) DETACH DELETE s",
		"MATCH (c:TreeChange {tree_id: $treeID}) DELETE c",
		"MATCH (t:FamilyTree {id: $treeID}) DETACH DELETE t",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, params); err != nil {
			return fmt.Errorf("failed to cascade tree delete: %w", err)
		}
	}
	return nil
}

func (r *Repository) TreeOwnerID(ctx context.Context, treeID string) (string, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (u:User)-[:OWNS]->(t:FamilyTree {id: $treeID}) RETURN u.id AS id",
		map[string]interface{}{"treeID": treeID})
	if err != nil {
		return "", fmt.Errorf("failed to query tree owner: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", fmt.Errorf("failed to read tree owner: %w", err)
		}
		return "", nil
	}
	return getStringFromRecord(result.Record(), "id"), nil
}

// ListUserTrees gathers owned trees, direct grants, and group grants,
// keeping the best role per tree.
func (r *Repository) ListUserTrees(ctx context.Context, userID string) ([]model.TreeSummary, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	params := map[string]interface{}{"userID": userID}
	best := map[string]model.TreeSummary{}

	collect := func(query string, fixedRole model.Role) error {
		result, err := session.Run(ctx, query, params)
		if err != nil {
			return err
		}
		for result.Next(ctx) {
			record := result.Record()
			t := treeFromRecord(record)
			role := fixedRole
			if role == "" {
				role = model.Role(getStringFromRecord(record, "role"))
			}
			if cur, ok := best[t.ID]; !ok || role.Rank() > cur.Role.Rank() {
				best[t.ID] = model.TreeSummary{Tree: t, Role: role}
			}
		}
		return result.Err()
	}

	if err := collect(`
		MATCH (u:User {id: $userID})-[:OWNS]->(t:FamilyTree)
		RETURN t.id AS id, t.name AS name, t.created_at AS created_at
	`, model.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to list owned trees: %w", err)
	}
	if err := collect(`
		MATCH (u:User {id: $userID})-[r:CAN_ACCESS]->(t:FamilyTree)
		RETURN t.id AS id, t.name AS name, t.created_at AS created_at, r.role AS role
	`, ""); err != nil {
		return nil, fmt.Errorf("failed to list granted trees: %w", err)
	}
	if err := collect(`
		MATCH (u:User {id: $userID})-[:MEMBER_OF]->(:UserGroup)-[r:GROUP_CAN_ACCESS]->(t:FamilyTree)
		RETURN t.id AS id, t.name AS name, t.created_at AS created_at, r.role AS role
	`, ""); err != nil {
		return nil, fmt.Errorf("failed to list group trees: %w", err)
	}

	trees := make([]model.TreeSummary, 0, len(best))
	for _, t := range best {
		trees = append(trees, t)
	}
	sortTreeSummaries(trees)
	return trees, nil
}
