package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) CreateEdge(ctx context.Context, rel model.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[rel.ID] = rel
	return nil
}

func (s *Store) DeleteEdge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, id)
	return nil
}

func (s *Store) DeleteParentEdge(ctx context.Context, parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.edges {
		if e.Type == model.ParentOf && e.FromPersonID == parentID && e.ToPersonID == childID {
			delete(s.edges, id)
		}
	}
	return nil
}

func (s *Store) EdgeExists(ctx context.Context, fromID, toID string, t model.RelType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.edges {
		if e.Type == t && e.FromPersonID == fromID && e.ToPersonID == toID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) OutgoingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, e := range s.edges {
		if e.Type == t && e.FromPersonID == personID {
			ids = append(ids, e.ToPersonID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) IncomingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, e := range s.edges {
		if e.Type == t && e.ToPersonID == personID {
			ids = append(ids, e.FromPersonID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) Parents(ctx context.Context, personID string) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	people := []model.Person{}
	for _, e := range s.edges {
		if e.Type == model.ParentOf && e.ToPersonID == personID {
			if p, ok := s.people[e.FromPersonID]; ok {
				people = append(people, p)
			}
		}
	}
	sortPeople(people)
	return people, nil
}

func (s *Store) Children(ctx context.Context, personID string) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	people := []model.Person{}
	for _, e := range s.edges {
		if e.Type == model.ParentOf && e.FromPersonID == personID {
			if p, ok := s.people[e.ToPersonID]; ok {
				people = append(people, p)
			}
		}
	}
	sortPeople(people)
	return people, nil
}

func (s *Store) CountParents(ctx context.Context, personID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.edges {
		if e.Type == model.ParentOf && e.ToPersonID == personID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountSpouses(ctx context.Context, personID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.edges {
		if e.Type == model.SpouseOf && (e.FromPersonID == personID || e.ToPersonID == personID) {
			n++
		}
	}
	return n, nil
}

func (s *Store) ExportGraph(ctx context.Context, treeID string) (*model.GraphExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	export := &model.GraphExport{Nodes: []model.GraphNode{}, Edges: []model.GraphEdge{}}
	inTree := map[string]bool{}
	for _, p := range s.people {
		if p.TreeID == treeID {
			inTree[p.ID] = true
			export.Nodes = append(export.Nodes, model.GraphNode{ID: p.ID, Label: p.DisplayName})
		}
	}
	for _, e := range s.edges {
		if inTree[e.FromPersonID] && inTree[e.ToPersonID] {
			export.Edges = append(export.Edges, model.GraphEdge{
				ID:     e.ID,
				Source: e.FromPersonID,
				Target: e.ToPersonID,
				Type:   e.Type,
			})
		}
	}
	sort.Slice(export.Nodes, func(i, j int) bool { return export.Nodes[i].ID < export.Nodes[j].ID })
	sort.Slice(export.Edges, func(i, j int) bool { return export.Edges[i].ID < export.Edges[j].ID })
	return export, nil
}

func sortPeople(people []model.Person) {
	sort.Slice(people, func(i, j int) bool {
		return people[i].DisplayName < people[j].DisplayName
	})
}
