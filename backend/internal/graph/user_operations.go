package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

const userReturn = "u.id AS id, u.email AS email, u.display_name AS display_name, " +
	"u.password_hash AS password_hash, u.is_admin AS is_admin, u.created_at AS created_at"

func userFromRecord(record *neo4j.Record) model.User {
	return model.User{
		ID:           getStringFromRecord(record, "id"),
		Email:        getStringFromRecord(record, "email"),
		DisplayName:  getStringFromRecord(record, "display_name"),
		PasswordHash: getStringFromRecord(record, "password_hash"),
		IsAdmin:      getBoolFromRecord(record, "is_admin"),
		CreatedAt:    getStringFromRecord(record, "created_at"),
	}
}

func (r *Repository) CreateUser(ctx context.Context, u model.User) error {
	query := `
		CREATE (u:User {
			id: $id, email: $email, display_name: $name,
			password_hash: $hash, is_admin: $isAdmin, created_at: $createdAt
		})
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.DisplayName,
		"hash":      u.PasswordHash,
		"isAdmin":   u.IsAdmin,
		"createdAt": u.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findUser(ctx,
		"MATCH (u:User {email: $key}) RETURN "+userReturn, email)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.findUser(ctx,
		"MATCH (u:User {id: $key}) RETURN "+userReturn, id)
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	return r.queryCount(ctx, "MATCH (u:User) RETURN count(u)", nil)
}

func (r *Repository) findUser(ctx context.Context, query, key string) (*model.User, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read user: %w", err)
		}
		return nil, nil
	}
	u := userFromRecord(result.Record())
	return &u, nil
}
