// Package access computes effective roles and manages trees and their
// grants. Every tree-scoped operation in the API is gated through
// RequireRole before it touches the graph.
package access

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/apperrors"
	"kintree/backend/pkg/logger"
)

// Service resolves roles and manages trees, direct grants, and group grants.
type Service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, rec audit.Recorder) *Service {
	return &Service{
		store:  st,
		audit:  rec,
		logger: logger.Get(),
	}
}

// EffectiveRole resolves a user's role on a tree. Ownership wins outright;
// otherwise the maximum across the direct grant and every group grant is
// taken. All sources are evaluated, because a higher-ranked grant can sit
// behind any path.
func (s *Service) EffectiveRole(ctx context.Context, userID, treeID string) (model.Role, error) {
	ownerID, err := s.store.TreeOwnerID(ctx, treeID)
	if err != nil {
		return model.RoleNone, fmt.Errorf("resolve owner: %w", err)
	}
	if ownerID != "" && ownerID == userID {
		return model.RoleOwner, nil
	}

	best := model.RoleNone

	direct, err := s.store.DirectRole(ctx, userID, treeID)
	if err != nil {
		return model.RoleNone, fmt.Errorf("resolve direct grant: %w", err)
	}
	best = model.MaxRole(best, direct)

	groupRoles, err := s.store.GroupRoles(ctx, userID, treeID)
	if err != nil {
		return model.RoleNone, fmt.Errorf("resolve group grants: %w", err)
	}
	for _, r := range groupRoles {
		best = model.MaxRole(best, r)
	}

	return best, nil
}

// RequireRole gates an operation on a minimum role. A user with no relation
// to the tree gets not-found rather than forbidden, so unauthorized callers
// cannot learn that the tree exists.
func (s *Service) RequireRole(ctx context.Context, userID, treeID string, min model.Role) (model.Role, error) {
	role, err := s.EffectiveRole(ctx, userID, treeID)
	if err != nil {
		return model.RoleNone, err
	}
	if role == model.RoleNone {
		return model.RoleNone, apperrors.NotFound("tree not found")
	}
	if !role.AtLeast(min) {
		return model.RoleNone, apperrors.Forbidden("requires %s access", min)
	}
	return role, nil
}
