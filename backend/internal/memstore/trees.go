package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) CreateTree(ctx context.Context, t model.Tree, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[t.ID] = t
	s.owners[t.ID] = ownerID
	return nil
}

func (s *Store) GetTree(ctx context.Context, id string) (*model.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) RenameTree(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trees[id]; ok {
		t.Name = name
		s.trees[id] = t
	}
	return nil
}

func (s *Store) DeleteTreeCascade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inTree := map[string]bool{}
	for pid, p := range s.people {
		if p.TreeID == id {
			inTree[pid] = true
			delete(s.people, pid)
		}
	}
	for eid, e := range s.edges {
		if inTree[e.FromPersonID] || inTree[e.ToPersonID] {
			delete(s.edges, eid)
		}
	}
	for cid, c := range s.comments {
		if c.TreeID == id {
			delete(s.comments, cid)
		}
	}
	for token, link := range s.links {
		if link.TreeID == id {
			delete(s.links, token)
			delete(s.linkViewers, token)
			delete(s.accessLog, token)
		}
	}
	delete(s.changes, id)
	delete(s.userGrants, id)
	delete(s.groupGrants, id)
	delete(s.owners, id)
	delete(s.trees, id)
	return nil
}

func (s *Store) TreeOwnerID(ctx context.Context, treeID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owners[treeID], nil
}

func (s *Store) ListUserTrees(ctx context.Context, userID string) ([]model.TreeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := map[string]model.Role{}
	for treeID, ownerID := range s.owners {
		if ownerID == userID {
			best[treeID] = model.RoleOwner
		}
	}
	for treeID, grants := range s.userGrants {
		if g, ok := grants[userID]; ok {
			if g.role.Rank() > best[treeID].Rank() {
				best[treeID] = g.role
			}
		}
	}
	for treeID, grants := range s.groupGrants {
		for groupID, g := range grants {
			if _, ok := s.members[groupID][userID]; !ok {
				continue
			}
			if g.role.Rank() > best[treeID].Rank() {
				best[treeID] = g.role
			}
		}
	}

	trees := []model.TreeSummary{}
	for treeID, role := range best {
		t, ok := s.trees[treeID]
		if !ok {
			continue
		}
		trees = append(trees, model.TreeSummary{Tree: t, Role: role})
	}
	sort.Slice(trees, func(i, j int) bool { return trees[i].Name < trees[j].Name })
	return trees, nil
}
