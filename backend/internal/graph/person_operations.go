package graph

import (
	"context"
	"fmt"

	"kintree/backend/internal/model"
)

func (r *Repository) CreatePerson(ctx context.Context, p model.Person) error {
	query := `
		CREATE (p:Person {
			id: $id, display_name: $name, sex: $sex, notes: $notes,
			tree_id: $treeID, birth_date: $birthDate, death_date: $deathDate,
			is_deceased: $isDeceased
		})
	`
	if err := r.run(ctx, query, personParams(p)); err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

func (r *Repository) GetPerson(ctx context.Context, id string) (*model.Person, error) {
	return r.findPerson(ctx,
		"MATCH (p:Person {id: $id}) RETURN "+personReturn,
		map[string]interface{}{"id": id})
}

func (r *Repository) GetPersonInTree(ctx context.Context, id, treeID string) (*model.Person, error) {
	return r.findPerson(ctx,
		"MATCH (p:Person {id: $id, tree_id: $treeID}) RETURN "+personReturn,
		map[string]interface{}{"id": id, "treeID": treeID})
}

func (r *Repository) FindPersonByName(ctx context.Context, displayName, treeID string) (*model.Person, error) {
	return r.findPerson(ctx,
		"MATCH (p:Person {display_name: $name, tree_id: $treeID}) RETURN "+personReturn,
		map[string]interface{}{"name": displayName, "treeID": treeID})
}

func (r *Repository) ListPeople(ctx context.Context, treeID string) ([]model.Person, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	query := "MATCH (p:Person {tree_id: $treeID}) RETURN " + personReturn +
		" ORDER BY p.display_name"
	result, err := session.Run(ctx, query, map[string]interface{}{"treeID": treeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	people := []model.Person{}
	for result.Next(ctx) {
		people = append(people, personFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read people: %w", err)
	}
	return people, nil
}

func (r *Repository) UpdatePerson(ctx context.Context, p model.Person) error {
	query := `
		MATCH (p:Person {id: $id})
		SET p.display_name = $name, p.sex = $sex, p.notes = $notes,
		    p.birth_date = $birthDate, p.death_date = $deathDate,
		    p.is_deceased = $isDeceased
	`
	if err := r.run(ctx, query, personParams(p)); err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

// DeletePersonCascade removes the person's comments first, then the node
// with every incident edge.
func (r *Repository) DeletePersonCascade(ctx context.Context, id string) error {
	session := r.write(ctx)
	defer session.Close(ctx)

	params := map[string]interface{}{"id": id}
	if _, err := session.Run(ctx,
		"MATCH (c:PersonComment {person_id: $id}) DELETE c", params); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if _, err := session.Run(ctx,
		"MATCH (p:Person {id: $id}) DETACH DELETE p", params); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

func (r *Repository) findPerson(ctx context.Context, query string, params map[string]interface{}) (*model.Person, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query person: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read person: %w", err)
		}
		return nil, nil
	}
	p := personFromRecord(result.Record())
	return &p, nil
}
