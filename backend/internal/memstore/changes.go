package memstore

import (
	"context"

	"kintree/backend/internal/model"
)

func (s *Store) AppendChange(ctx context.Context, c model.TreeChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes[c.TreeID] = append(s.changes[c.TreeID], c)
	return nil
}

func (s *Store) ListChanges(ctx context.Context, treeID string, limit, offset int) ([]model.TreeChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.changes[treeID]
	// Newest first; appends arrive in chronological order.
	reversed := make([]model.TreeChange, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		reversed = append(reversed, all[i])
	}
	if offset >= len(reversed) {
		return []model.TreeChange{}, nil
	}
	reversed = reversed[offset:]
	if limit > 0 && limit < len(reversed) {
		reversed = reversed[:limit]
	}
	return reversed, nil
}
