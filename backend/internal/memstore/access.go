package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) DirectRole(ctx context.Context, userID, treeID string) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.userGrants[treeID][userID]; ok {
		return g.role, nil
	}
	return model.RoleNone, nil
}

func (s *Store) GroupRoles(ctx context.Context, userID, treeID string) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := []model.Role{}
	for groupID, g := range s.groupGrants[treeID] {
		if _, ok := s.members[groupID][userID]; ok {
			roles = append(roles, g.role)
		}
	}
	return roles, nil
}

func (s *Store) UpsertUserGrant(ctx context.Context, treeID, userID string, role model.Role, grantedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userGrants[treeID] == nil {
		s.userGrants[treeID] = map[string]grant{}
	}
	s.userGrants[treeID][userID] = grant{role: role, grantedAt: grantedAt}
	return nil
}

func (s *Store) RevokeUserGrant(ctx context.Context, treeID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userGrants[treeID], userID)
	return nil
}

func (s *Store) GroupGrantRole(ctx context.Context, treeID, groupID string) (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.groupGrants[treeID][groupID]; ok {
		return g.role, nil
	}
	return model.RoleNone, nil
}

func (s *Store) UpsertGroupGrant(ctx context.Context, treeID, groupID string, role model.Role, grantedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groupGrants[treeID] == nil {
		s.groupGrants[treeID] = map[string]grant{}
	}
	s.groupGrants[treeID][groupID] = grant{role: role, grantedAt: grantedAt}
	return nil
}

func (s *Store) RevokeGroupGrant(ctx context.Context, treeID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groupGrants[treeID], groupID)
	return nil
}

func (s *Store) TreeMembership(ctx context.Context, treeID string) (*model.TreeMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	membership := &model.TreeMembership{
		Users:  []model.TreeMember{},
		Groups: []model.TreeGroupGrant{},
	}
	if ownerID := s.owners[treeID]; ownerID != "" {
		if u, ok := s.users[ownerID]; ok {
			membership.Owner = &model.TreeMember{
				ID:          u.ID,
				Email:       u.Email,
				DisplayName: u.DisplayName,
				Role:        model.RoleOwner,
			}
		}
	}
	for userID, g := range s.userGrants[treeID] {
		u, ok := s.users[userID]
		if !ok {
			continue
		}
		membership.Users = append(membership.Users, model.TreeMember{
			ID:          u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        g.role,
			GrantedAt:   g.grantedAt,
		})
	}
	sort.Slice(membership.Users, func(i, j int) bool {
		return membership.Users[i].Email < membership.Users[j].Email
	})
	for groupID, g := range s.groupGrants[treeID] {
		grp, ok := s.groups[groupID]
		if !ok {
			continue
		}
		membership.Groups = append(membership.Groups, model.TreeGroupGrant{
			GroupID:   grp.ID,
			Name:      grp.Name,
			Role:      g.role,
			GrantedAt: g.grantedAt,
		})
	}
	sort.Slice(membership.Groups, func(i, j int) bool {
		return membership.Groups[i].Name < membership.Groups[j].Name
	})
	return membership, nil
}
