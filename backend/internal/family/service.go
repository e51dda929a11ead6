// Package family is the graph consistency engine: person and relationship
// mutations, the cardinality constraint gate, duplicate-person merging, and
// the child reconciliation pass that runs when spouses are linked.
package family

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
	"kintree/backend/pkg/apperrors"
	"kintree/backend/pkg/logger"
)

// Service executes all tree-scoped graph mutations. Access control runs
// before any of these methods are reached; the service itself only enforces
// graph invariants.
type Service struct {
	store  store.Store
	audit  audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, rec audit.Recorder) *Service {
	return &Service{
		store:  st,
		audit:  rec,
		logger: logger.Get(),
	}
}

// PersonInput carries the writable fields of a person. IsDeceased is a
// pointer so "not supplied" is distinguishable from an explicit false.
type PersonInput struct {
	DisplayName string
	Sex         model.Sex
	Notes       string
	BirthDate   string
	DeathDate   string
	IsDeceased  *bool
}

// deceasedFor derives is_deceased: a non-empty death date implies deceased
// unless the caller said otherwise explicitly.
func deceasedFor(in PersonInput) bool {
	if in.IsDeceased != nil {
		return *in.IsDeceased
	}
	return in.DeathDate != ""
}

func (s *Service) CreatePerson(ctx context.Context, actor audit.Actor, treeID string, in PersonInput) (*model.Person, error) {
	if in.DisplayName == "" {
		return nil, apperrors.Validation("display_name is required")
	}
	if in.Sex == "" {
		in.Sex = model.SexUnknown
	}
	if !model.ValidSex(in.Sex) {
		return nil, apperrors.Validation("invalid sex: %s", in.Sex)
	}

	p := model.Person{
		ID:          uuid.NewString(),
		DisplayName: in.DisplayName,
		Sex:         in.Sex,
		Notes:       in.Notes,
		TreeID:      treeID,
		BirthDate:   in.BirthDate,
		DeathDate:   in.DeathDate,
		IsDeceased:  deceasedFor(in),
	}
	if err := s.store.CreatePerson(ctx, p); err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}

	mutationsTotal.WithLabelValues("person", "create").Inc()
	s.audit.Record(ctx, actor, treeID, "create", "person", p.ID, p.DisplayName)
	return &p, nil
}

func (s *Service) GetPerson(ctx context.Context, treeID, id string) (*model.Person, error) {
	p, err := s.store.GetPersonInTree(ctx, id, treeID)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if p == nil {
		return nil, apperrors.NotFound("person not found")
	}
	return p, nil
}

func (s *Service) ListPeople(ctx context.Context, treeID string) ([]model.Person, error) {
	return s.store.ListPeople(ctx, treeID)
}

func (s *Service) FindPersonByName(ctx context.Context, treeID, displayName string) (*model.Person, error) {
	return s.store.FindPersonByName(ctx, displayName, treeID)
}

func (s *Service) UpdatePerson(ctx context.Context, actor audit.Actor, treeID, id string, in PersonInput) (*model.Person, error) {
	existing, err := s.GetPerson(ctx, treeID, id)
	if err != nil {
		return nil, err
	}
	if in.DisplayName == "" {
		return nil, apperrors.Validation("display_name is required")
	}
	if in.Sex == "" {
		in.Sex = model.SexUnknown
	}
	if !model.ValidSex(in.Sex) {
		return nil, apperrors.Validation("invalid sex: %s", in.Sex)
	}

	p := model.Person{
		ID:          existing.ID,
		DisplayName: in.DisplayName,
		Sex:         in.Sex,
		Notes:       in.Notes,
		TreeID:      existing.TreeID,
		BirthDate:   in.BirthDate,
		DeathDate:   in.DeathDate,
		IsDeceased:  deceasedFor(in),
	}
	if err := s.store.UpdatePerson(ctx, p); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}

	mutationsTotal.WithLabelValues("person", "update").Inc()
	s.audit.Record(ctx, actor, treeID, "update", "person", p.ID, p.DisplayName)
	return &p, nil
}

// DeletePerson removes the person, their comments, and every incident edge.
func (s *Service) DeletePerson(ctx context.Context, actor audit.Actor, treeID, id string) error {
	p, err := s.GetPerson(ctx, treeID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePersonCascade(ctx, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	mutationsTotal.WithLabelValues("person", "delete").Inc()
	s.audit.Record(ctx, actor, treeID, "delete", "person", id, p.DisplayName)
	return nil
}

func (s *Service) Parents(ctx context.Context, treeID, id string) ([]model.Person, error) {
	if _, err := s.GetPerson(ctx, treeID, id); err != nil {
		return nil, err
	}
	return s.store.Parents(ctx, id)
}

func (s *Service) Children(ctx context.Context, treeID, id string) ([]model.Person, error) {
	if _, err := s.GetPerson(ctx, treeID, id); err != nil {
		return nil, err
	}
	return s.store.Children(ctx, id)
}

func (s *Service) CountParents(ctx context.Context, personID string) (int, error) {
	return s.store.CountParents(ctx, personID)
}

func (s *Service) CountSpouses(ctx context.Context, personID string) (int, error) {
	return s.store.CountSpouses(ctx, personID)
}

// CreateRelationship validates cardinality and writes one edge. PARENT_OF
// goes parent -> child.
func (s *Service) CreateRelationship(ctx context.Context, actor audit.Actor, treeID, fromID, toID string, t model.RelType) (*model.Relationship, error) {
	if !model.ValidRelType(t) {
		return nil, apperrors.Validation("invalid relationship type: %s", t)
	}
	if fromID == toID {
		return nil, apperrors.Validation("cannot relate a person to themselves")
	}
	if _, err := s.GetPerson(ctx, treeID, fromID); err != nil {
		return nil, err
	}
	if _, err := s.GetPerson(ctx, treeID, toID); err != nil {
		return nil, err
	}
	if err := s.validateEdge(ctx, fromID, toID, t); err != nil {
		return nil, err
	}

	rel := model.Relationship{
		ID:           uuid.NewString(),
		FromPersonID: fromID,
		ToPersonID:   toID,
		Type:         t,
	}
	if err := s.store.CreateEdge(ctx, rel); err != nil {
		return nil, fmt.Errorf("create relationship: %w", err)
	}

	mutationsTotal.WithLabelValues("relationship", "create").Inc()
	s.audit.Record(ctx, actor, treeID, "create", "relationship", rel.ID,
		fmt.Sprintf("%s %s -> %s", t, fromID, toID))
	return &rel, nil
}

// DeleteRelationship removes one edge by id. Deletion is never constrained.
func (s *Service) DeleteRelationship(ctx context.Context, actor audit.Actor, treeID, relID string) error {
	if err := s.store.DeleteEdge(ctx, relID); err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	mutationsTotal.WithLabelValues("relationship", "delete").Inc()
	s.audit.Record(ctx, actor, treeID, "delete", "relationship", relID, "")
	return nil
}

// DeleteParentEdge removes the PARENT_OF edge between a specific parent and
// child.
func (s *Service) DeleteParentEdge(ctx context.Context, actor audit.Actor, treeID, parentID, childID string) error {
	if err := s.store.DeleteParentEdge(ctx, parentID, childID); err != nil {
		return fmt.Errorf("delete parent edge: %w", err)
	}
	mutationsTotal.WithLabelValues("relationship", "delete").Inc()
	s.audit.Record(ctx, actor, treeID, "delete", "relationship", "",
		fmt.Sprintf("PARENT_OF %s -> %s", parentID, childID))
	return nil
}

// LinkSpouses creates the SPOUSE_OF edge between a and b, then reconciles
// their children. The reconciliation pass is best-effort and never fails the
// link itself.
func (s *Service) LinkSpouses(ctx context.Context, actor audit.Actor, treeID, aID, bID string) (*model.ReconciliationReport, error) {
	if _, err := s.CreateRelationship(ctx, actor, treeID, aID, bID, model.SpouseOf); err != nil {
		return nil, err
	}
	report := s.reconcileChildren(ctx, actor, treeID, aID, bID)
	s.audit.Record(ctx, actor, treeID, "link_spouses", "relationship", "",
		fmt.Sprintf("%s <-> %s", aID, bID))
	return report, nil
}

// ── Comments ──

func (s *Service) AddComment(ctx context.Context, actor audit.Actor, treeID, personID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, apperrors.Validation("content is required")
	}
	if _, err := s.GetPerson(ctx, treeID, personID); err != nil {
		return nil, err
	}

	c := model.Comment{
		ID:         uuid.NewString(),
		PersonID:   personID,
		TreeID:     treeID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Content:    content,
		CreatedAt:  model.Now(),
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	mutationsTotal.WithLabelValues("comment", "create").Inc()
	s.audit.Record(ctx, actor, treeID, "create", "comment", c.ID, "")
	return &c, nil
}

func (s *Service) ListComments(ctx context.Context, treeID, personID string) ([]model.Comment, error) {
	return s.store.ListComments(ctx, personID, treeID)
}

func (s *Service) GetComment(ctx context.Context, treeID, commentID string) (*model.Comment, error) {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil || c.TreeID != treeID {
		return nil, apperrors.NotFound("comment not found")
	}
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, actor audit.Actor, treeID, commentID string) error {
	if _, err := s.GetComment(ctx, treeID, commentID); err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	mutationsTotal.WithLabelValues("comment", "delete").Inc()
	s.audit.Record(ctx, actor, treeID, "delete", "comment", commentID, "")
	return nil
}

// ExportGraph returns the nodes and typed edges of a tree for rendering
// clients.
func (s *Service) ExportGraph(ctx context.Context, treeID string) (*model.GraphExport, error) {
	return s.store.ExportGraph(ctx, treeID)
}
