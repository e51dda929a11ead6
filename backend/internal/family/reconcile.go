package family

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
)

// reconcileChildren runs after a SPOUSE_OF edge is created between a and b.
// Partners entered from separate sources often list the same child twice
// (once under each name) while other children appear under only one parent.
// The pass merges same-named children into one node and shares every
// remaining child with the other partner.
//
// Best-effort throughout: a failed merge or edge creation is logged and
// skipped, never surfaced to the caller.
func (s *Service) reconcileChildren(ctx context.Context, actor audit.Actor, treeID, aID, bID string) *model.ReconciliationReport {
	report := &model.ReconciliationReport{
		Merged:      []model.MergedChild{},
		SharedWithA: []string{},
		SharedWithB: []string{},
	}

	childrenA, err := s.store.Children(ctx, aID)
	if err != nil {
		s.logger.Warn("reconcile: listing children failed", zap.String("person_id", aID), zap.Error(err))
		return report
	}
	childrenB, err := s.store.Children(ctx, bID)
	if err != nil {
		s.logger.Warn("reconcile: listing children failed", zap.String("person_id", bID), zap.Error(err))
		return report
	}

	aByName := bucketByName(childrenA)
	bByName := bucketByName(childrenB)

	var common, aOnly, bOnly []string
	for name := range aByName {
		if _, ok := bByName[name]; ok {
			common = append(common, name)
		} else {
			aOnly = append(aOnly, name)
		}
	}
	for name := range bByName {
		if _, ok := aByName[name]; !ok {
			bOnly = append(bOnly, name)
		}
	}
	// Sorted order keeps the pass deterministic across runs.
	sort.Strings(common)
	sort.Strings(aOnly)
	sort.Strings(bOnly)

	// Same name under both partners: collapse into A's record.
	for _, name := range common {
		keep := aByName[name]
		remove := bByName[name]
		if keep.ID == remove.ID {
			continue
		}
		if err := s.Merge(ctx, actor, treeID, keep.ID, remove.ID); err != nil {
			s.logger.Warn("reconcile: child merge failed",
				zap.String("name", name),
				zap.String("keep_id", keep.ID),
				zap.String("remove_id", remove.ID),
				zap.Error(err),
			)
			continue
		}
		report.Merged = append(report.Merged, model.MergedChild{
			Name:      name,
			KeptID:    keep.ID,
			RemovedID: remove.ID,
		})
	}

	// Children known only to one partner become children of both.
	report.SharedWithB = s.shareChildren(ctx, bID, aOnly, aByName)
	report.SharedWithA = s.shareChildren(ctx, aID, bOnly, bByName)

	return report
}

func (s *Service) shareChildren(ctx context.Context, parentID string, names []string, byName map[string]model.Person) []string {
	shared := []string{}
	for _, name := range names {
		child := byName[name]
		exists, err := s.store.EdgeExists(ctx, parentID, child.ID, model.ParentOf)
		if err != nil {
			s.logger.Warn("reconcile: edge check failed",
				zap.String("parent_id", parentID),
				zap.String("child_id", child.ID),
				zap.Error(err),
			)
			continue
		}
		if exists {
			continue
		}
		rel := model.Relationship{
			ID:           uuid.NewString(),
			FromPersonID: parentID,
			ToPersonID:   child.ID,
			Type:         model.ParentOf,
		}
		if err := s.store.CreateEdge(ctx, rel); err != nil {
			s.logger.Warn("reconcile: sharing child failed",
				zap.String("parent_id", parentID),
				zap.String("child_id", child.ID),
				zap.Error(err),
			)
			continue
		}
		shared = append(shared, name)
	}
	return shared
}

func bucketByName(people []model.Person) map[string]model.Person {
	byName := make(map[string]model.Person, len(people))
	for _, p := range people {
		byName[p.DisplayName] = p
	}
	return byName
}
