package graph

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

// These tests require a running Neo4j instance at bolt://localhost:7687.
// Run with -short to skip them.

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanupTree(ctx context.Context, driver neo4j.DriverWithContext, treeID string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (p:Person {tree_id: $id}) DETACH DELETE p", map[string]interface{}{"id": treeID})
	_, _ = session.Run(ctx, "MATCH (c:PersonComment {tree_id: $id}) DELETE c", map[string]interface{}{"id": treeID})
	_, _ = session.Run(ctx, "MATCH (t:FamilyTree {id: $id}) DETACH DELETE t", map[string]interface{}{"id": treeID})
}

func TestRepository_PersonLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	treeID := "test-tree-" + time.Now().Format("20060102150405")
	defer cleanupTree(ctx, driver, treeID)

	p := model.Person{
		ID:          uuid.NewString(),
		DisplayName: "Integration Person",
		Sex:         model.SexFemale,
		TreeID:      treeID,
		BirthDate:   "1900-01-01",
	}
	if err := repo.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	got, err := repo.GetPersonInTree(ctx, p.ID, treeID)
	if err != nil {
		t.Fatalf("GetPersonInTree failed: %v", err)
	}
	if got == nil || got.DisplayName != "Integration Person" {
		t.Errorf("Expected person 'Integration Person', got %+v", got)
	}

	// Wrong tree scopes the lookup away.
	got, err = repo.GetPersonInTree(ctx, p.ID, "other-tree")
	if err != nil {
		t.Fatalf("GetPersonInTree failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for wrong tree, got %+v", got)
	}

	if err := repo.DeletePersonCascade(ctx, p.ID); err != nil {
		t.Fatalf("DeletePersonCascade failed: %v", err)
	}
	got, err = repo.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected person deleted, got %+v", got)
	}
}

func TestRepository_EdgeCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	treeID := "test-tree-" + time.Now().Format("20060102150405")
	defer cleanupTree(ctx, driver, treeID)

	ids := make([]string, 3)
	for i, name := range []string{"A", "B", "C"} {
		p := model.Person{ID: uuid.NewString(), DisplayName: name, Sex: model.SexUnknown, TreeID: treeID}
		if err := repo.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
		ids[i] = p.ID
	}

	// A and B parent C; A spouses B.
	for _, rel := range []model.Relationship{
		{ID: uuid.NewString(), FromPersonID: ids[0], ToPersonID: ids[2], Type: model.ParentOf},
		{ID: uuid.NewString(), FromPersonID: ids[1], ToPersonID: ids[2], Type: model.ParentOf},
		{ID: uuid.NewString(), FromPersonID: ids[0], ToPersonID: ids[1], Type: model.SpouseOf},
	} {
		if err := repo.CreateEdge(ctx, rel); err != nil {
			t.Fatalf("CreateEdge failed: %v", err)
		}
	}

	n, err := repo.CountParents(ctx, ids[2])
	if err != nil {
		t.Fatalf("CountParents failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 parents, got %d", n)
	}

	// The spouse count is direction-blind.
	for _, id := range []string{ids[0], ids[1]} {
		n, err = repo.CountSpouses(ctx, id)
		if err != nil {
			t.Fatalf("CountSpouses failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 spouse for %s, got %d", id, n)
		}
	}

	exists, err := repo.EdgeExists(ctx, ids[0], ids[1], model.SpouseOf)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected stored direction to exist")
	}
	exists, err = repo.EdgeExists(ctx, ids[1], ids[0], model.SpouseOf)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if exists {
		t.Error("EdgeExists must check the exact direction only")
	}
}

func TestRepository_ReassignComments(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	treeID := "test-tree-" + time.Now().Format("20060102150405")
	defer cleanupTree(ctx, driver, treeID)

	from := model.Person{ID: uuid.NewString(), DisplayName: "From", Sex: model.SexUnknown, TreeID: treeID}
	to := model.Person{ID: uuid.NewString(), DisplayName: "To", Sex: model.SexUnknown, TreeID: treeID}
	for _, p := range []model.Person{from, to} {
		if err := repo.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
	}
	c := model.Comment{
		ID: uuid.NewString(), PersonID: from.ID, TreeID: treeID,
		AuthorID: "tester", AuthorName: "Tester", Content: "note", CreatedAt: model.Now(),
	}
	if err := repo.CreateComment(ctx, c); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	moved, err := repo.ReassignComments(ctx, from.ID, to.ID)
	if err != nil {
		t.Fatalf("ReassignComments failed: %v", err)
	}
	if moved != 1 {
		t.Errorf("Expected 1 comment moved, got %d", moved)
	}

	comments, err := repo.ListComments(ctx, to.ID, treeID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment on target, got %d", len(comments))
	}
}
