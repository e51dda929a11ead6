package graph

import (
	"context"
	"fmt"

	"kintree/backend/internal/model"
)

func (r *Repository) AppendChange(ctx context.Context, c model.TreeChange) error {
	query := `
		CREATE (c:TreeChange {
			id: $id, tree_id: $treeID, user_id: $userID, user_name: $userName,
			action: $action, entity_type: $entityType, entity_id: $entityID,
			details: $details, created_at: $createdAt
		})
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"id":         c.ID,
		"treeID":     c.TreeID,
		"userID":     c.UserID,
		"userName":   c.UserName,
		"action":     c.Action,
		"entityType": c.EntityType,
		"entityID":   c.EntityID,
		"details":    c.Details,
		"createdAt":  c.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to append change: %w", err)
	}
	return nil
}

func (r *Repository) ListChanges(ctx context.Context, treeID string, limit, offset int) ([]model.TreeChange, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (c:TreeChange {tree_id: $treeID})
		RETURN c.id AS id, c.tree_id AS tree_id, c.user_id AS user_id,
		       c.user_name AS user_name, c.action AS action,
		       c.entity_type AS entity_type, c.entity_id AS entity_id,
		       c.details AS details, c.created_at AS created_at
		ORDER BY c.created_at DESC
		SKIP $offset LIMIT $limit
	`, map[string]interface{}{
		"treeID": treeID,
		"offset": offset,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}

	changes := []model.TreeChange{}
	for result.Next(ctx) {
		record := result.Record()
		changes = append(changes, model.TreeChange{
			ID:         getStringFromRecord(record, "id"),
			TreeID:     getStringFromRecord(record, "tree_id"),
			UserID:     getStringFromRecord(record, "user_id"),
			UserName:   getStringFromRecord(record, "user_name"),
			Action:     getStringFromRecord(record, "action"),
			EntityType: getStringFromRecord(record, "entity_type"),
			EntityID:   getStringFromRecord(record, "entity_id"),
			Details:    getStringFromRecord(record, "details"),
			CreatedAt:  getStringFromRecord(record, "created_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}
	return changes, nil
}
