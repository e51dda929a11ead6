package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) CreateGroup(ctx context.Context, g model.UserGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
	return nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (*model.UserGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *Store) UpdateGroup(ctx context.Context, id, name, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.groups[id]; ok {
		g.Name = name
		g.Description = description
		s.groups[id] = g
	}
	return nil
}

func (s *Store) DeleteGroupCascade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, id)
	for treeID := range s.groupGrants {
		delete(s.groupGrants[treeID], id)
	}
	delete(s.groups, id)
	return nil
}

func (s *Store) AddMember(ctx context.Context, groupID, userID, addedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[groupID] == nil {
		s.members[groupID] = map[string]string{}
	}
	if _, ok := s.members[groupID][userID]; !ok {
		s.members[groupID][userID] = addedAt
	}
	return nil
}

func (s *Store) RemoveMember(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[groupID], userID)
	return nil
}

func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[groupID][userID]
	return ok, nil
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := []model.GroupMember{}
	for userID, addedAt := range s.members[groupID] {
		u, ok := s.users[userID]
		if !ok {
			continue
		}
		members = append(members, model.GroupMember{
			ID:          u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			AddedAt:     addedAt,
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Email < members[j].Email })
	return members, nil
}

func (s *Store) ListUserGroups(ctx context.Context, userID string) ([]model.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := map[string]model.GroupSummary{}
	for _, g := range s.groups {
		if g.CreatedBy == userID {
			byID[g.ID] = model.GroupSummary{UserGroup: g}
		}
		if _, ok := s.members[g.ID][userID]; ok {
			byID[g.ID] = model.GroupSummary{UserGroup: g, IsMember: true}
		}
	}
	groups := make([]model.GroupSummary, 0, len(byID))
	for _, g := range byID {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) ListAllGroups(ctx context.Context) ([]model.UserGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := []model.UserGroup{}
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) ListGroupTrees(ctx context.Context, groupID string) ([]model.GroupTreeGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trees := []model.GroupTreeGrant{}
	for treeID, grants := range s.groupGrants {
		g, ok := grants[groupID]
		if !ok {
			continue
		}
		t, ok := s.trees[treeID]
		if !ok {
			continue
		}
		trees = append(trees, model.GroupTreeGrant{
			TreeID:    t.ID,
			Name:      t.Name,
			Role:      g.role,
			GrantedAt: g.grantedAt,
		})
	}
	sort.Slice(trees, func(i, j int) bool { return trees[i].Name < trees[j].Name })
	return trees, nil
}
