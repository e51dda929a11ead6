package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

const commentReturn = "c.id AS id, c.person_id AS person_id, c.tree_id AS tree_id, " +
	"c.author_id AS author_id, c.author_name AS author_name, " +
	"c.content AS content, c.created_at AS created_at"

func commentFromRecord(record *neo4j.Record) model.Comment {
	return model.Comment{
		ID:         getStringFromRecord(record, "id"),
		PersonID:   getStringFromRecord(record, "person_id"),
		TreeID:     getStringFromRecord(record, "tree_id"),
		AuthorID:   getStringFromRecord(record, "author_id"),
		AuthorName: getStringFromRecord(record, "author_name"),
		Content:    getStringFromRecord(record, "content"),
		CreatedAt:  getStringFromRecord(record, "created_at"),
	}
}

func (r *Repository) CreateComment(ctx context.Context, c model.Comment) error {
	query := `
		CREATE (c:PersonComment {
			id: $id, person_id: $personID, tree_id: $treeID,
			author_id: $authorID, author_name: $authorName,
			content: $content, created_at: $createdAt
		})
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"id":         c.ID,
		"personID":   c.PersonID,
		"treeID":     c.TreeID,
		"authorID":   c.AuthorID,
		"authorName": c.AuthorName,
		"content":    c.Content,
		"createdAt":  c.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (c:PersonComment {id: $id}) RETURN "+commentReturn,
		map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read comment: %w", err)
		}
		return nil, nil
	}
	c := commentFromRecord(result.Record())
	return &c, nil
}

func (r *Repository) ListComments(ctx context.Context, personID, treeID string) ([]model.Comment, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	query := "MATCH (c:PersonComment {person_id: $personID, tree_id: $treeID}) " +
		"RETURN " + commentReturn + " ORDER BY c.created_at"
	result, err := session.Run(ctx, query, map[string]interface{}{
		"personID": personID,
		"treeID":   treeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := []model.Comment{}
	for result.Next(ctx) {
		comments = append(comments, commentFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	if err := r.run(ctx,
		"MATCH (c:PersonComment {id: $id}) DELETE c",
		map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ReassignComments re-points every comment on one person to another and
// reports how many moved. The merge engine calls this before the remove
// side's cascade delete.
func (r *Repository) ReassignComments(ctx context.Context, fromPersonID, toPersonID string) (int, error) {
	session := r.write(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (c:PersonComment {person_id: $fromID})
		SET c.person_id = $toID
		RETURN count(c)
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromPersonID,
		"toID":   toPersonID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reassign comments: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count reassigned comments: %w", err)
	}
	if n, ok := record.Values[0].(int64); ok {
		return int(n), nil
	}
	return 0, nil
}
