package family

import (
	"context"
	"fmt"

	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

// validateEdge is the cardinality gate run before every edge creation:
// a person has at most two parents and at most one spouse. The check is
// read-then-write at the mutation boundary, not a database constraint, so
// two concurrent writers can race past it; with human-paced edits that
// window is accepted and a violation is repaired by deleting the extra edge.
func (s *Service) validateEdge(ctx context.Context, fromID, toID string, t model.RelType) error {
	switch t {
	case model.ParentOf:
		n, err := s.store.CountParents(ctx, toID)
		if err != nil {
			return fmt.Errorf("count parents: %w", err)
		}
		if n >= 2 {
			return apperrors.ErrParentLimitExceeded
		}
	case model.SpouseOf:
		for _, id := range []string{fromID, toID} {
			n, err := s.store.CountSpouses(ctx, id)
			if err != nil {
				return fmt.Errorf("count spouses: %w", err)
			}
			if n >= 1 {
				return apperrors.ErrSpouseLimitExceeded
			}
		}
	}
	return nil
}

// edgeExists checks for an equivalent edge. SPOUSE_OF is stored directed but
// is logically symmetric, so the reverse direction counts too.
func (s *Service) edgeExists(ctx context.Context, fromID, toID string, t model.RelType) (bool, error) {
	ok, err := s.store.EdgeExists(ctx, fromID, toID, t)
	if err != nil || ok {
		return ok, err
	}
	if t == model.SpouseOf {
		return s.store.EdgeExists(ctx, toID, fromID, t)
	}
	return false, nil
}
