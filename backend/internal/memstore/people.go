package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) CreatePerson(ctx context.Context, p model.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) GetPersonInTree(ctx context.Context, id, treeID string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok || p.TreeID != treeID {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) ListPeople(ctx context.Context, treeID string) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	people := []model.Person{}
	for _, p := range s.people {
		if p.TreeID == treeID {
			people = append(people, p)
		}
	}
	sort.Slice(people, func(i, j int) bool {
		return people[i].DisplayName < people[j].DisplayName
	})
	return people, nil
}

func (s *Store) FindPersonByName(ctx context.Context, displayName, treeID string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.people {
		if p.TreeID == treeID && p.DisplayName == displayName {
			match := p
			return &match, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdatePerson(ctx context.Context, p model.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[p.ID]; ok {
		s.people[p.ID] = p
	}
	return nil
}

func (s *Store) DeletePersonCascade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cid, c := range s.comments {
		if c.PersonID == id {
			delete(s.comments, cid)
		}
	}
	for eid, e := range s.edges {
		if e.FromPersonID == id || e.ToPersonID == id {
			delete(s.edges, eid)
		}
	}
	delete(s.people, id)
	return nil
}
