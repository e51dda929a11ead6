package memstore

import (
	"context"
	"sort"

	"kintree/backend/internal/model"
)

func (s *Store) CreateComment(ctx context.Context, c model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.ID] = c
	return nil
}

func (s *Store) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) ListComments(ctx context.Context, personID, treeID string) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comments := []model.Comment{}
	for _, c := range s.comments {
		if c.PersonID == personID && c.TreeID == treeID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt != comments[j].CreatedAt {
			return comments[i].CreatedAt < comments[j].CreatedAt
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

func (s *Store) ReassignComments(ctx context.Context, fromPersonID, toPersonID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved := 0
	for id, c := range s.comments {
		if c.PersonID == fromPersonID {
			c.PersonID = toPersonID
			s.comments[id] = c
			moved++
		}
	}
	return moved, nil
}
