package family

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/model"
)

func linkParent(t *testing.T, s *Service, parentID, childID string) {
	t.Helper()
	_, err := s.CreateRelationship(context.Background(), testActor, testTree, parentID, childID, model.ParentOf)
	require.NoError(t, err)
}

func TestLinkSpousesMergesCommonChildren(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")
	childA := mustCreatePerson(t, s, "Carol")
	childB := mustCreatePerson(t, s, "Carol") // same child entered twice
	linkParent(t, s, a.ID, childA.ID)
	linkParent(t, s, b.ID, childB.ID)

	report, err := s.LinkSpouses(ctx, testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)

	require.Len(t, report.Merged, 1)
	assert.Equal(t, "Carol", report.Merged[0].Name)
	// A's record wins.
	assert.Equal(t, childA.ID, report.Merged[0].KeptID)
	assert.Equal(t, childB.ID, report.Merged[0].RemovedID)

	// The duplicate is gone and the survivor has both parents.
	_, err = s.GetPerson(ctx, testTree, childB.ID)
	assert.Error(t, err)
	n, err := s.CountParents(ctx, childA.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLinkSpousesSharesSingleSidedChildren(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")
	onlyA := mustCreatePerson(t, s, "Dan")
	onlyB := mustCreatePerson(t, s, "Eve")
	linkParent(t, s, a.ID, onlyA.ID)
	linkParent(t, s, b.ID, onlyB.ID)

	report, err := s.LinkSpouses(ctx, testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)

	assert.Empty(t, report.Merged)
	assert.Equal(t, []string{"Dan"}, report.SharedWithB)
	assert.Equal(t, []string{"Eve"}, report.SharedWithA)

	for _, childID := range []string{onlyA.ID, onlyB.ID} {
		n, err := s.CountParents(ctx, childID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
}

func TestLinkSpousesSkipsAlreadySharedChild(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")
	child := mustCreatePerson(t, s, "Carol")
	linkParent(t, s, a.ID, child.ID)
	linkParent(t, s, b.ID, child.ID)

	report, err := s.LinkSpouses(ctx, testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)

	// Same node under both parents: nothing to merge, nothing to share.
	assert.Empty(t, report.Merged)
	assert.Empty(t, report.SharedWithA)
	assert.Empty(t, report.SharedWithB)

	n, err := s.CountParents(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLinkSpousesNoChildren(t *testing.T) {
	s, _ := newTestService()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")

	report, err := s.LinkSpouses(context.Background(), testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, report.Merged)
	assert.Empty(t, report.Merged)
	assert.Empty(t, report.SharedWithA)
	assert.Empty(t, report.SharedWithB)
}

func TestLinkSpousesReportDeterministicOrder(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")
	for _, name := range []string{"Zed", "Amy", "Mia"} {
		child := mustCreatePerson(t, s, name)
		linkParent(t, s, a.ID, child.ID)
	}

	report, err := s.LinkSpouses(ctx, testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy", "Mia", "Zed"}, report.SharedWithB)
}

func TestLinkSpousesFailsWhenAlreadyMarried(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	a := mustCreatePerson(t, s, "Alice")
	b := mustCreatePerson(t, s, "Bob")
	c := mustCreatePerson(t, s, "Carl")

	_, err := s.LinkSpouses(ctx, testActor, testTree, a.ID, b.ID)
	require.NoError(t, err)

	_, err = s.LinkSpouses(ctx, testActor, testTree, a.ID, c.ID)
	assert.Error(t, err)
}
