package family

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/model"
	"kintree/backend/pkg/apperrors"
)

func TestParentLimit(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	child := mustCreatePerson(t, s, "Child")
	p1 := mustCreatePerson(t, s, "Parent 1")
	p2 := mustCreatePerson(t, s, "Parent 2")
	p3 := mustCreatePerson(t, s, "Parent 3")

	_, err := s.CreateRelationship(ctx, testActor, testTree, p1.ID, child.ID, model.ParentOf)
	require.NoError(t, err)
	_, err = s.CreateRelationship(ctx, testActor, testTree, p2.ID, child.ID, model.ParentOf)
	require.NoError(t, err)

	_, err = s.CreateRelationship(ctx, testActor, testTree, p3.ID, child.ID, model.ParentOf)
	assert.True(t, errors.Is(err, apperrors.ErrParentLimitExceeded))

	// The limit is per child; the third parent can still have children.
	other := mustCreatePerson(t, s, "Other Child")
	_, err = s.CreateRelationship(ctx, testActor, testTree, p3.ID, other.ID, model.ParentOf)
	assert.NoError(t, err)
}

func TestSpouseLimit(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "A")
	b := mustCreatePerson(t, s, "B")
	c := mustCreatePerson(t, s, "C")

	_, err := s.CreateRelationship(ctx, testActor, testTree, a.ID, b.ID, model.SpouseOf)
	require.NoError(t, err)

	// Either endpoint being married blocks the new edge, regardless of the
	// stored direction of the existing one.
	_, err = s.CreateRelationship(ctx, testActor, testTree, a.ID, c.ID, model.SpouseOf)
	assert.True(t, errors.Is(err, apperrors.ErrSpouseLimitExceeded))

	_, err = s.CreateRelationship(ctx, testActor, testTree, c.ID, b.ID, model.SpouseOf)
	assert.True(t, errors.Is(err, apperrors.ErrSpouseLimitExceeded))
}

func TestSpouseLimitChecksBothDirections(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "A")
	b := mustCreatePerson(t, s, "B")

	_, err := s.CreateRelationship(ctx, testActor, testTree, a.ID, b.ID, model.SpouseOf)
	require.NoError(t, err)

	// The reverse edge counts as a second marriage for both endpoints.
	_, err = s.CreateRelationship(ctx, testActor, testTree, b.ID, a.ID, model.SpouseOf)
	assert.True(t, errors.Is(err, apperrors.ErrSpouseLimitExceeded))
}

func TestDeleteFreesCardinalitySlot(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "A")
	b := mustCreatePerson(t, s, "B")
	c := mustCreatePerson(t, s, "C")

	rel, err := s.CreateRelationship(ctx, testActor, testTree, a.ID, b.ID, model.SpouseOf)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRelationship(ctx, testActor, testTree, rel.ID))

	_, err = s.CreateRelationship(ctx, testActor, testTree, a.ID, c.ID, model.SpouseOf)
	assert.NoError(t, err)
}
