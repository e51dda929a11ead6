package family

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

// Merge collapses remove into keep: fills keep's empty fields from remove,
// re-points every edge, reassigns remove's comments, and only then deletes
// remove. Single edge failures are logged and skipped so one bad edge cannot
// abort the rest of the transfer; re-running a merge never duplicates edges.
//
// The steps are not wrapped in one transaction. A crash mid-merge leaves a
// partially transferred state that needs manual repair, which is why every
// skipped edge is logged with both ids.
func (s *Service) Merge(ctx context.Context, actor audit.Actor, treeID, keepID, removeID string) error {
	if keepID == removeID {
		return apperrors.Validation("cannot merge a person into themselves")
	}
	keep, err := s.GetPerson(ctx, treeID, keepID)
	if err != nil {
		return err
	}
	remove, err := s.GetPerson(ctx, treeID, removeID)
	if err != nil {
		return err
	}

	if err := s.mergeProperties(ctx, keep, remove); err != nil {
		return err
	}

	s.transferEdges(ctx, keepID, removeID)

	// Comments move before the cascade delete runs; the delete path would
	// otherwise destroy them.
	moved, err := s.store.ReassignComments(ctx, removeID, keepID)
	if err != nil {
		return fmt.Errorf("reassign comments from %s to %s: %w", removeID, keepID, err)
	}
	if moved > 0 {
		s.logger.Info("comments reassigned during merge",
			zap.String("keep_id", keepID),
			zap.String("remove_id", removeID),
			zap.Int("count", moved),
		)
	}

	if err := s.store.DeletePersonCascade(ctx, removeID); err != nil {
		return fmt.Errorf("delete merged person %s: %w", removeID, err)
	}

	mergesTotal.Inc()
	s.audit.Record(ctx, actor, treeID, "merge", "person", keepID,
		fmt.Sprintf("merged %s (%s) into %s", removeID, remove.DisplayName, keepID))
	return nil
}

// mergeProperties fills gaps in keep from remove. Keep always wins a genuine
// conflict; only empty, U, or false fields are adopted. Persists only when
// something changed.
func (s *Service) mergeProperties(ctx context.Context, keep, remove *model.Person) error {
	changed := false

	if keep.Sex == model.SexUnknown && remove.Sex != model.SexUnknown {
		keep.Sex = remove.Sex
		changed = true
	}
	if keep.Notes == "" && remove.Notes != "" {
		keep.Notes = remove.Notes
		changed = true
	}
	if keep.BirthDate == "" && remove.BirthDate != "" {
		keep.BirthDate = remove.BirthDate
		changed = true
	}
	if keep.DeathDate == "" && remove.DeathDate != "" {
		keep.DeathDate = remove.DeathDate
		changed = true
	}
	if !keep.IsDeceased && remove.IsDeceased {
		keep.IsDeceased = true
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.store.UpdatePerson(ctx, *keep); err != nil {
		return fmt.Errorf("merge properties onto %s: %w", keep.ID, err)
	}
	return nil
}

// transferEdges re-points remove's edges onto keep: outgoing then incoming,
// for each relationship type. Self-edges are never created and existing
// equivalents (reverse-aware for SPOUSE_OF) are left alone.
func (s *Service) transferEdges(ctx context.Context, keepID, removeID string) {
	for _, t := range []model.RelType{model.ParentOf, model.SpouseOf} {
		targets, err := s.store.OutgoingNeighbors(ctx, removeID, t)
		if err != nil {
			s.logMergeEdgeFailure("list outgoing", removeID, "", t, err)
			continue
		}
		for _, target := range targets {
			if target == keepID {
				continue
			}
			s.transferEdge(ctx, keepID, target, t)
		}
	}

	for _, t := range []model.RelType{model.ParentOf, model.SpouseOf} {
		sources, err := s.store.IncomingNeighbors(ctx, removeID, t)
		if err != nil {
			s.logMergeEdgeFailure("list incoming", "", removeID, t, err)
			continue
		}
		for _, source := range sources {
			if source == keepID {
				continue
			}
			s.transferEdge(ctx, source, keepID, t)
		}
	}
}

func (s *Service) transferEdge(ctx context.Context, fromID, toID string, t model.RelType) {
	exists, err := s.edgeExists(ctx, fromID, toID, t)
	if err != nil {
		s.logMergeEdgeFailure("check", fromID, toID, t, err)
		return
	}
	if exists {
		return
	}
	rel := model.Relationship{
		ID:           uuid.NewString(),
		FromPersonID: fromID,
		ToPersonID:   toID,
		Type:         t,
	}
	if err := s.store.CreateEdge(ctx, rel); err != nil {
		s.logMergeEdgeFailure("create", fromID, toID, t, err)
	}
}

func (s *Service) logMergeEdgeFailure(op, fromID, toID string, t model.RelType, err error) {
	mergeEdgeFailures.Inc()
	s.logger.Warn("merge edge transfer failed",
		zap.String("op", op),
		zap.String("from_id", fromID),
		zap.String("to_id", toID),
		zap.String("type", string(t)),
		zap.Error(err),
	)
}
