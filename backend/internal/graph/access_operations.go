package graph

import (
	"context"
	"fmt"

	"kintree/backend/internal/model"
)

func (r *Repository) DirectRole(ctx context.Context, userID, treeID string) (model.Role, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (u:User {id: $userID})-[r:CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		RETURN r.role AS role
	`, map[string]interface{}{"userID": userID, "treeID": treeID})
	if err != nil {
		return model.RoleNone, fmt.Errorf("failed to query direct role: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return model.RoleNone, fmt.Errorf("failed to read direct role: %w", err)
		}
		return model.RoleNone, nil
	}
	return model.Role(getStringFromRecord(result.Record(), "role")), nil
}

func (r *Repository) GroupRoles(ctx context.Context, userID, treeID string) ([]model.Role, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (u:User {id: $userID})-[:MEMBER_OF]->(:UserGroup)-[r:GROUP_CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		RETURN r.role AS role
	`, map[string]interface{}{"userID": userID, "treeID": treeID})
	if err != nil {
		return nil, fmt.Errorf("failed to query group roles: %w", err)
	}
	roles := []model.Role{}
	for result.Next(ctx) {
		roles = append(roles, model.Role(getStringFromRecord(result.Record(), "role")))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group roles: %w", err)
	}
	return roles, nil
}

func (r *Repository) UpsertUserGrant(ctx context.Context, treeID, userID string, role model.Role, grantedAt string) error {
	query := `
		MATCH (u:User {id: $userID}), (t:FamilyTree {id: $treeID})
		MERGE (u)-[r:CAN_ACCESS]->(t)
		SET r.role = $role, r.granted_at = $grantedAt
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"userID":    userID,
		"treeID":    treeID,
		"role":      string(role),
		"grantedAt": grantedAt,
	}); err != nil {
		return fmt.Errorf("failed to upsert user grant: %w", err)
	}
	return nil
}

func (r *Repository) RevokeUserGrant(ctx context.Context, treeID, userID string) error {
	query := `
		MATCH (u:User {id: $userID})-[r:CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		DELETE r
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"userID": userID, "treeID": treeID,
	}); err != nil {
		return fmt.Errorf("failed to revoke user grant: %w", err)
	}
	return nil
}

func (r *Repository) GroupGrantRole(ctx context.Context, treeID, groupID string) (model.Role, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (g:UserGroup {id: $groupID})-[r:GROUP_CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		RETURN r.role AS role
	`, map[string]interface{}{"groupID": groupID, "treeID": treeID})
	if err != nil {
		return model.RoleNone, fmt.Errorf("failed to query group grant: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return model.RoleNone, fmt.Errorf("failed to read group grant: %w", err)
		}
		return model.RoleNone, nil
	}
	return model.Role(getStringFromRecord(result.Record(), "role")), nil
}

func (r *Repository) UpsertGroupGrant(ctx context.Context, treeID, groupID string, role model.Role, grantedAt string) error {
	query := `
		MATCH (g:UserGroup {id: $groupID}), (t:FamilyTree {id: $treeID})
		MERGE (g)-[r:GROUP_CAN_ACCESS]->(t)
		SET r.role = $role, r.granted_at = $grantedAt
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"groupID":   groupID,
		"treeID":    treeID,
		"role":      string(role),
		"grantedAt": grantedAt,
	}); err != nil {
		return fmt.Errorf("failed to upsert group grant: %w", err)
	}
	return nil
}

func (r *Repository) RevokeGroupGrant(ctx context.Context, treeID, groupID string) error {
	query := `
		MATCH (g:UserGroup {id: $groupID})-[r:GROUP_CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		DELETE r
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"groupID": groupID, "treeID": treeID,
	}); err != nil {
		return fmt.Errorf("failed to revoke group grant: %w", err)
	}
	return nil
}

// TreeMembership returns the owner, direct user grants, and group grants of
// a tree.
func (r *Repository) TreeMembership(ctx context.Context, treeID string) (*model.TreeMembership, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	params := map[string]interface{}{"treeID": treeID}
	membership := &model.TreeMembership{
		Users:  []model.TreeMember{},
		Groups: []model.TreeGroupGrant{},
	}

	result, err := session.Run(ctx, `
		MATCH (u:User)-[:OWNS]->(t:FamilyTree {id: $treeID})
		RETURN u.id AS id, u.email AS email, u.display_name AS display_name
	`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query tree owner: %w", err)
	}
	if result.Next(ctx) {
		record := result.Record()
		membership.Owner = &model.TreeMember{
			ID:          getStringFromRecord(record, "id"),
			Email:       getStringFromRecord(record, "email"),
			DisplayName: getStringFromRecord(record, "display_name"),
			Role:        model.RoleOwner,
		}
	} else if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tree owner: %w", err)
	}

	result, err = session.Run(ctx, `
		MATCH (u:User)-[r:CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		RETURN u.id AS id, u.email AS email, u.display_name AS display_name,
		       r.role AS role, r.granted_at AS granted_at
		ORDER BY u.email
	`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query direct grants: %w", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		membership.Users = append(membership.Users, model.TreeMember{
			ID:          getStringFromRecord(record, "id"),
			Email:       getStringFromRecord(record, "email"),
			DisplayName: getStringFromRecord(record, "display_name"),
			Role:        model.Role(getStringFromRecord(record, "role")),
			GrantedAt:   getStringFromRecord(record, "granted_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read direct grants: %w", err)
	}

	result, err = session.Run(ctx, `
		MATCH (g:UserGroup)-[r:GROUP_CAN_ACCESS]->(t:FamilyTree {id: $treeID})
		RETURN g.id AS id, g.name AS name, r.role AS role, r.granted_at AS granted_at
		ORDER BY g.name
	`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query group grants: %w", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		membership.Groups = append(membership.Groups, model.TreeGroupGrant{
			GroupID:   getStringFromRecord(record, "id"),
			Name:      getStringFromRecord(record, "name"),
			Role:      model.Role(getStringFromRecord(record, "role")),
			GrantedAt: getStringFromRecord(record, "granted_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group grants: %w", err)
	}

	return membership, nil
}
