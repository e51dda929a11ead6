package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

// CreateTree creates a tree and sets its single, immutable ownership edge.
func (s *Service) CreateTree(ctx context.Context, actor audit.Actor, name string) (*model.TreeSummary, error) {
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	t := model.Tree{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: model.Now(),
	}
	if err := s.store.CreateTree(ctx, t, actor.ID); err != nil {
		return nil, fmt.Errorf("create tree: %w", err)
	}
	s.audit.Record(ctx, actor, t.ID, "create", "tree", t.ID, name)
	return &model.TreeSummary{Tree: t, Role: model.RoleOwner}, nil
}

func (s *Service) GetTree(ctx context.Context, treeID string) (*model.Tree, error) {
	t, err := s.store.GetTree(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	if t == nil {
		return nil, apperrors.NotFound("tree not found")
	}
	return t, nil
}

func (s *Service) RenameTree(ctx context.Context, actor audit.Actor, treeID, name string) (*model.Tree, error) {
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if _, err := s.GetTree(ctx, treeID); err != nil {
		return nil, err
	}
	if err := s.store.RenameTree(ctx, treeID, name); err != nil {
		return nil, fmt.Errorf("rename tree: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "update", "tree", treeID, name)
	return s.GetTree(ctx, treeID)
}

// DeleteTree removes the tree and everything it owns: people (with their
// comments and edges), share links, and every access edge.
func (s *Service) DeleteTree(ctx context.Context, actor audit.Actor, treeID string) error {
	t, err := s.GetTree(ctx, treeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTreeCascade(ctx, treeID); err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	// The tree's own audit records go with it, so this only leaves a log line.
	s.logger.Info("tree deleted",
		zap.String("tree_id", treeID),
		zap.String("name", t.Name),
		zap.String("deleted_by", actor.ID),
	)
	return nil
}

// ListUserTrees returns every tree the user can reach with their best role.
func (s *Service) ListUserTrees(ctx context.Context, userID string) ([]model.TreeSummary, error) {
	return s.store.ListUserTrees(ctx, userID)
}

// Members returns the owner, direct grants, and group grants of a tree.
func (s *Service) Members(ctx context.Context, treeID string) (*model.TreeMembership, error) {
	return s.store.TreeMembership(ctx, treeID)
}

// ── Grant management (caller must already hold owner) ──

func (s *Service) GrantUserAccess(ctx context.Context, actor audit.Actor, treeID, userID string, role model.Role) error {
	if !role.Grantable() {
		return apperrors.Validation("invalid role: %s", role)
	}
	ownerID, err := s.store.TreeOwnerID(ctx, treeID)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}
	if userID == ownerID {
		return apperrors.Validation("the owner already has full access")
	}
	if err := s.store.UpsertUserGrant(ctx, treeID, userID, role, model.Now()); err != nil {
		return fmt.Errorf("grant user access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "grant", "access", userID, string(role))
	return nil
}

func (s *Service) UpdateUserAccess(ctx context.Context, actor audit.Actor, treeID, userID string, role model.Role) error {
	if !role.Grantable() {
		return apperrors.Validation("invalid role: %s", role)
	}
	existing, err := s.store.DirectRole(ctx, userID, treeID)
	if err != nil {
		return fmt.Errorf("resolve direct grant: %w", err)
	}
	if existing == model.RoleNone {
		return apperrors.NotFound("no access grant for this user")
	}
	if err := s.store.UpsertUserGrant(ctx, treeID, userID, role, model.Now()); err != nil {
		return fmt.Errorf("update user access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "update", "access", userID, string(role))
	return nil
}

func (s *Service) RevokeUserAccess(ctx context.Context, actor audit.Actor, treeID, userID string) error {
	if err := s.store.RevokeUserGrant(ctx, treeID, userID); err != nil {
		return fmt.Errorf("revoke user access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "revoke", "access", userID, "")
	return nil
}

func (s *Service) GrantGroupAccess(ctx context.Context, actor audit.Actor, treeID, groupID string, role model.Role) error {
	if !role.Grantable() {
		return apperrors.Validation("invalid role: %s", role)
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return apperrors.NotFound("group not found")
	}
	if err := s.store.UpsertGroupGrant(ctx, treeID, groupID, role, model.Now()); err != nil {
		return fmt.Errorf("grant group access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "grant", "group_access", groupID, string(role))
	return nil
}

func (s *Service) UpdateGroupAccess(ctx context.Context, actor audit.Actor, treeID, groupID string, role model.Role) error {
	if !role.Grantable() {
		return apperrors.Validation("invalid role: %s", role)
	}
	existing, err := s.store.GroupGrantRole(ctx, treeID, groupID)
	if err != nil {
		return fmt.Errorf("resolve group grant: %w", err)
	}
	if existing == model.RoleNone {
		return apperrors.NotFound("no access grant for this group")
	}
	if err := s.store.UpsertGroupGrant(ctx, treeID, groupID, role, model.Now()); err != nil {
		return fmt.Errorf("update group access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "update", "group_access", groupID, string(role))
	return nil
}

func (s *Service) RevokeGroupAccess(ctx context.Context, actor audit.Actor, treeID, groupID string) error {
	if err := s.store.RevokeGroupGrant(ctx, treeID, groupID); err != nil {
		return fmt.Errorf("revoke group access: %w", err)
	}
	s.audit.Record(ctx, actor, treeID, "revoke", "group_access", groupID, "")
	return nil
}
