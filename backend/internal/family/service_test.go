package family

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/memstore"
	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

const testTree = "tree-1"

var testActor = audit.Actor{ID: "user-1", Name: "Test User"}

func newTestService() (*Service, *memstore.Store) {
	st := memstore.New()
	return NewService(st, audit.NewLog(st)), st
}

func mustCreatePerson(t *testing.T, s *Service, name string) *model.Person {
	t.Helper()
	p, err := s.CreatePerson(context.Background(), testActor, testTree, PersonInput{DisplayName: name})
	require.NoError(t, err)
	return p
}

func TestCreatePerson(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{
		DisplayName: "Ada Lovelace",
		Sex:         model.SexFemale,
		BirthDate:   "1815-12-10",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, testTree, p.TreeID)
	assert.False(t, p.IsDeceased)

	got, err := s.GetPerson(ctx, testTree, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.DisplayName)
}

func TestCreatePersonRequiresName(t *testing.T) {
	s, _ := newTestService()
	_, err := s.CreatePerson(context.Background(), testActor, testTree, PersonInput{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreatePersonRejectsInvalidSex(t *testing.T) {
	s, _ := newTestService()
	_, err := s.CreatePerson(context.Background(), testActor, testTree, PersonInput{
		DisplayName: "X",
		Sex:         model.Sex("Q"),
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreatePersonDefaultsSexToUnknown(t *testing.T) {
	s, _ := newTestService()
	p, err := s.CreatePerson(context.Background(), testActor, testTree, PersonInput{DisplayName: "X"})
	require.NoError(t, err)
	assert.Equal(t, model.SexUnknown, p.Sex)
}

func TestDeathDateImpliesDeceased(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{
		DisplayName: "X",
		DeathDate:   "1901-01-01",
	})
	require.NoError(t, err)
	assert.True(t, p.IsDeceased)

	// An explicit false overrides the derivation.
	alive := false
	p2, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{
		DisplayName: "Y",
		DeathDate:   "1901-01-01",
		IsDeceased:  &alive,
	})
	require.NoError(t, err)
	assert.False(t, p2.IsDeceased)
}

func TestGetPersonScopedToTree(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p := mustCreatePerson(t, s, "Scoped")
	_, err := s.GetPerson(ctx, "other-tree", p.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateRelationshipRejectsSelfEdge(t *testing.T) {
	s, _ := newTestService()
	p := mustCreatePerson(t, s, "Solo")

	_, err := s.CreateRelationship(context.Background(), testActor, testTree, p.ID, p.ID, model.ParentOf)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateRelationshipRejectsUnknownType(t *testing.T) {
	s, _ := newTestService()
	a := mustCreatePerson(t, s, "A")
	b := mustCreatePerson(t, s, "B")

	_, err := s.CreateRelationship(context.Background(), testActor, testTree, a.ID, b.ID, model.RelType("SIBLING_OF"))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateRelationshipRequiresBothInTree(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	a := mustCreatePerson(t, s, "A")

	other, err := s.CreatePerson(ctx, testActor, "other-tree", PersonInput{DisplayName: "Elsewhere"})
	require.NoError(t, err)

	_, err = s.CreateRelationship(ctx, testActor, testTree, a.ID, other.ID, model.ParentOf)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestParentsAndChildren(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	parent := mustCreatePerson(t, s, "Parent")
	child := mustCreatePerson(t, s, "Child")

	_, err := s.CreateRelationship(ctx, testActor, testTree, parent.ID, child.ID, model.ParentOf)
	require.NoError(t, err)

	parents, err := s.Parents(ctx, testTree, child.ID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, parent.ID, parents[0].ID)

	children, err := s.Children(ctx, testTree, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

func TestDeletePersonCascadesEdgesAndComments(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	parent := mustCreatePerson(t, s, "Parent")
	child := mustCreatePerson(t, s, "Child")
	_, err := s.CreateRelationship(ctx, testActor, testTree, parent.ID, child.ID, model.ParentOf)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, testActor, testTree, child.ID, "note")
	require.NoError(t, err)

	require.NoError(t, s.DeletePerson(ctx, testActor, testTree, child.ID))

	_, err = s.GetPerson(ctx, testTree, child.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	children, err := s.Children(ctx, testTree, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestComments(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p := mustCreatePerson(t, s, "Commented")

	_, err := s.AddComment(ctx, testActor, testTree, p.ID, "")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	c, err := s.AddComment(ctx, testActor, testTree, p.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, testActor.ID, c.AuthorID)

	list, err := s.ListComments(ctx, testTree, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// A comment is invisible through the wrong tree.
	_, err = s.GetComment(ctx, "other-tree", c.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	require.NoError(t, s.DeleteComment(ctx, testActor, testTree, c.ID))
	list, err = s.ListComments(ctx, testTree, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExportGraph(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "A")
	b := mustCreatePerson(t, s, "B")
	_, err := s.CreateRelationship(ctx, testActor, testTree, a.ID, b.ID, model.ParentOf)
	require.NoError(t, err)

	export, err := s.ExportGraph(ctx, testTree)
	require.NoError(t, err)
	assert.Len(t, export.Nodes, 2)
	require.Len(t, export.Edges, 1)
	assert.Equal(t, model.ParentOf, export.Edges[0].Type)
}
