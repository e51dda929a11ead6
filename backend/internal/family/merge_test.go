package family

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

func TestMergeFillsGapsKeepWins(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{
		DisplayName: "John Smith",
		Sex:         model.SexMale,
		BirthDate:   "1900-01-01",
	})
	require.NoError(t, err)
	remove, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{
		DisplayName: "John Smith",
		Sex:         model.SexMale,
		BirthDate:   "1899-12-31",
		DeathDate:   "1960-05-05",
		Notes:       "from import",
	})
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	merged, err := s.GetPerson(ctx, testTree, keep.ID)
	require.NoError(t, err)
	// Keep's birth date survives the conflict; the gaps are filled.
	assert.Equal(t, "1900-01-01", merged.BirthDate)
	assert.Equal(t, "1960-05-05", merged.DeathDate)
	assert.Equal(t, "from import", merged.Notes)
	assert.True(t, merged.IsDeceased)

	_, err = s.GetPerson(ctx, testTree, remove.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestMergeUnknownSexIsAGap(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{DisplayName: "X"})
	require.NoError(t, err)
	remove, err := s.CreatePerson(ctx, testActor, testTree, PersonInput{DisplayName: "X", Sex: model.SexFemale})
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	merged, err := s.GetPerson(ctx, testTree, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SexFemale, merged.Sex)
}

func TestMergeRepointsEdges(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep := mustCreatePerson(t, s, "Keep")
	remove := mustCreatePerson(t, s, "Remove")
	child := mustCreatePerson(t, s, "Child")
	parent := mustCreatePerson(t, s, "Parent")

	_, err := s.CreateRelationship(ctx, testActor, testTree, remove.ID, child.ID, model.ParentOf)
	require.NoError(t, err)
	_, err = s.CreateRelationship(ctx, testActor, testTree, parent.ID, remove.ID, model.ParentOf)
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	children, err := s.Children(ctx, testTree, keep.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	parents, err := s.Parents(ctx, testTree, keep.ID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, parent.ID, parents[0].ID)
}

func TestMergeNeverDuplicatesEdges(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep := mustCreatePerson(t, s, "Keep")
	remove := mustCreatePerson(t, s, "Remove")
	child := mustCreatePerson(t, s, "Child")

	// Both records already parent the same child.
	_, err := s.CreateRelationship(ctx, testActor, testTree, keep.ID, child.ID, model.ParentOf)
	require.NoError(t, err)
	_, err = s.CreateRelationship(ctx, testActor, testTree, remove.ID, child.ID, model.ParentOf)
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	n, err := s.CountParents(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMergeSkipsSelfEdges(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep := mustCreatePerson(t, s, "Keep")
	remove := mustCreatePerson(t, s, "Remove")

	// remove -> keep would become keep -> keep; it must be dropped.
	_, err := s.CreateRelationship(ctx, testActor, testTree, remove.ID, keep.ID, model.ParentOf)
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	n, err := s.CountParents(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMergeSpouseEdgeReverseAware(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep := mustCreatePerson(t, s, "Keep")
	remove := mustCreatePerson(t, s, "Remove")
	spouse := mustCreatePerson(t, s, "Spouse")

	// keep is already married to spouse (stored keep -> spouse); remove's
	// marriage is stored in the other direction.
	_, err := s.CreateRelationship(ctx, testActor, testTree, keep.ID, spouse.ID, model.SpouseOf)
	require.NoError(t, err)
	_, err = s.LinkSpouses(ctx, testActor, testTree, spouse.ID, remove.ID)
	assert.Error(t, err) // spouse already married; set up the edge directly instead
	require.NoError(t, s.store.CreateEdge(ctx, model.Relationship{
		ID: "edge-rev", FromPersonID: spouse.ID, ToPersonID: remove.ID, Type: model.SpouseOf,
	}))

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	// No duplicate spouse edge in either direction.
	n, err := s.CountSpouses(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMergeReassignsCommentsBeforeDelete(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	keep := mustCreatePerson(t, s, "Keep")
	remove := mustCreatePerson(t, s, "Remove")

	_, err := s.AddComment(ctx, testActor, testTree, remove.ID, "researched in parish records")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, testActor, testTree, keep.ID, "existing note")
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, testActor, testTree, keep.ID, remove.ID))

	comments, err := s.ListComments(ctx, testTree, keep.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestMergeRejectsSelfMerge(t *testing.T) {
	s, _ := newTestService()
	p := mustCreatePerson(t, s, "Solo")

	err := s.Merge(context.Background(), testActor, testTree, p.ID, p.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestMergeUnknownPersons(t *testing.T) {
	s, _ := newTestService()
	p := mustCreatePerson(t, s, "Known")

	err := s.Merge(context.Background(), testActor, testTree, p.ID, "missing")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	err = s.Merge(context.Background(), testActor, testTree, "missing", p.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
