// Package groups manages user groups: CRUD, membership, and the trees a
// group has been granted access to.
package groups

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/apperrors"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) CreateGroup(ctx context.Context, name, description, createdBy string) (*model.UserGroup, error) {
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	g := model.UserGroup{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   model.Now(),
	}
	if err := s.store.CreateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return &g, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (*model.UserGroup, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return nil, apperrors.NotFound("group not found")
	}
	return g, nil
}

func (s *Service) UpdateGroup(ctx context.Context, groupID, name, description string) (*model.UserGroup, error) {
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGroup(ctx, groupID, name, description); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.GetGroup(ctx, groupID)
}

// DeleteGroup removes the group along with its membership edges and tree
// grants.
func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroupCascade(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// CanManage reports whether the user may administer the group: its creator
// or a site admin.
func (s *Service) CanManage(ctx context.Context, groupID string, user *model.User) (bool, error) {
	if user.IsAdmin {
		return true, nil
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("get group: %w", err)
	}
	return g != nil && g.CreatedBy == user.ID, nil
}

// ── Membership ──

// AddMember is idempotent; adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, groupID, userID string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	member, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return nil
	}
	if err := s.store.AddMember(ctx, groupID, userID, model.Now()); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := s.store.RemoveMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// ListUserGroups returns groups the user created or belongs to.
func (s *Service) ListUserGroups(ctx context.Context, userID string) ([]model.GroupSummary, error) {
	return s.store.ListUserGroups(ctx, userID)
}

// ListAllGroups is the admin view.
func (s *Service) ListAllGroups(ctx context.Context) ([]model.UserGroup, error) {
	return s.store.ListAllGroups(ctx)
}

func (s *Service) ListGroupTrees(ctx context.Context, groupID string) ([]model.GroupTreeGrant, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGroupTrees(ctx, groupID)
}
