package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

const groupReturn = "g.id AS id, g.name AS name, g.description AS description, " +
	"g.created_by AS created_by, g.created_at AS created_at"

func groupFromRecord(record *neo4j.Record) model.UserGroup {
	return model.UserGroup{
		ID:          getStringFromRecord(record, "id"),
		Name:        getStringFromRecord(record, "name"),
		Description: getStringFromRecord(record, "description"),
		CreatedBy:   getStringFromRecord(record, "created_by"),
		CreatedAt:   getStringFromRecord(record, "created_at"),
	}
}

func (r *Repository) CreateGroup(ctx context.Context, g model.UserGroup) error {
	query := `
		CREATE (g:UserGroup {
			id: $id, name: $name, description: $description,
			created_by: $createdBy, created_at: $createdAt
		})
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
		"createdBy":   g.CreatedBy,
		"createdAt":   g.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *Repository) GetGroup(ctx context.Context, id string) (*model.UserGroup, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (g:UserGroup {id: $id}) RETURN "+groupReturn,
		map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read group: %w", err)
		}
		return nil, nil
	}
	g := groupFromRecord(result.Record())
	return &g, nil
}

func (r *Repository) UpdateGroup(ctx context.Context, id, name, description string) error {
	query := "MATCH (g:UserGroup {id: $id}) SET g.name = $name, g.description = $description"
	if err := r.run(ctx, query, map[string]interface{}{
		"id": id, "name": name, "description": description,
	}); err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *Repository) DeleteGroupCascade(ctx context.Context, id string) error {
	if err := r.run(ctx,
		"MATCH (g:UserGroup {id: $id}) DETACH DELETE g",
		map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (r *Repository) AddMember(ctx context.Context, groupID, userID, addedAt string) error {
	query := `
		MATCH (u:User {id: $userID}), (g:UserGroup {id: $groupID})
		MERGE (u)-[m:MEMBER_OF]->(g)
		ON CREATE SET m.added_at = $addedAt
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"userID": userID, "groupID": groupID, "addedAt": addedAt,
	}); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `
		MATCH (u:User {id: $userID})-[m:MEMBER_OF]->(g:UserGroup {id: $groupID})
		DELETE m
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"userID": userID, "groupID": groupID,
	}); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (r *Repository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	n, err := r.queryCount(ctx, `
		MATCH (u:User {id: $userID})-[m:MEMBER_OF]->(g:UserGroup {id: $groupID})
		RETURN count(m)
	`, map[string]interface{}{"userID": userID, "groupID": groupID})
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (u:User)-[m:MEMBER_OF]->(g:UserGroup {id: $groupID})
		RETURN u.id AS id, u.email AS email, u.display_name AS display_name,
		       m.added_at AS added_at
		ORDER BY u.email
	`, map[string]interface{}{"groupID": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := []model.GroupMember{}
	for result.Next(ctx) {
		record := result.Record()
		members = append(members, model.GroupMember{
			ID:          getStringFromRecord(record, "id"),
			Email:       getStringFromRecord(record, "email"),
			DisplayName: getStringFromRecord(record, "display_name"),
			AddedAt:     getStringFromRecord(record, "added_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return members, nil
}

// ListUserGroups returns groups the user created or belongs to, flagging
// actual membership.
func (r *Repository) ListUserGroups(ctx context.Context, userID string) ([]model.GroupSummary, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	params := map[string]interface{}{"userID": userID}
	byID := map[string]model.GroupSummary{}

	result, err := session.Run(ctx,
		"MATCH (g:UserGroup {created_by: $userID}) RETURN "+groupReturn, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list created groups: %w", err)
	}
	for result.Next(ctx) {
		g := groupFromRecord(result.Record())
		byID[g.ID] = model.GroupSummary{UserGroup: g}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read created groups: %w", err)
	}

	result, err = session.Run(ctx,
		"MATCH (u:User {id: $userID})-[:MEMBER_OF]->(g:UserGroup) RETURN "+groupReturn, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list member groups: %w", err)
	}
	for result.Next(ctx) {
		g := groupFromRecord(result.Record())
		byID[g.ID] = model.GroupSummary{UserGroup: g, IsMember: true}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read member groups: %w", err)
	}

	groups := make([]model.GroupSummary, 0, len(byID))
	for _, g := range byID {
		groups = append(groups, g)
	}
	sortGroupSummaries(groups)
	return groups, nil
}

func (r *Repository) ListAllGroups(ctx context.Context) ([]model.UserGroup, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (g:UserGroup) RETURN "+groupReturn+" ORDER BY g.name", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups := []model.UserGroup{}
	for result.Next(ctx) {
		groups = append(groups, groupFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}
	return groups, nil
}

func (r *Repository) ListGroupTrees(ctx context.Context, groupID string) ([]model.GroupTreeGrant, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (g:UserGroup {id: $groupID})-[r:GROUP_CAN_ACCESS]->(t:FamilyTree)
		RETURN t.id AS id, t.name AS name, r.role AS role, r.granted_at AS granted_at
		ORDER BY t.name
	`, map[string]interface{}{"groupID": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list group trees: %w", err)
	}

	trees := []model.GroupTreeGrant{}
	for result.Next(ctx) {
		record := result.Record()
		trees = append(trees, model.GroupTreeGrant{
			TreeID:    getStringFromRecord(record, "id"),
			Name:      getStringFromRecord(record, "name"),
			Role:      model.Role(getStringFromRecord(record, "role")),
			GrantedAt: getStringFromRecord(record, "granted_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group trees: %w", err)
	}
	return trees, nil
}
