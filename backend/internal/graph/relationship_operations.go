package graph

import (
	"context"
	"fmt"

	"kintree/backend/internal/model"
)

// Relationship types appear in Cypher as edge labels and cannot be
// parameterized; every interpolation goes through this guard.
func edgeLabel(t model.RelType) (string, error) {
	if !model.ValidRelType(t) {
		return "", fmt.Errorf("invalid relationship type: %s", t)
	}
	return string(t), nil
}

func (r *Repository) CreateEdge(ctx context.Context, rel model.Relationship) error {
	label, err := edgeLabel(rel.Type)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		MATCH (a:Person {id: $fromID}), (b:Person {id: $toID})
		CREATE (a)-[:%s {id: $id}]->(b)
	`, label)
	if err := r.run(ctx, query, map[string]interface{}{
		"fromID": rel.FromPersonID,
		"toID":   rel.ToPersonID,
		"id":     rel.ID,
	}); err != nil {
		return fmt.Errorf("failed to create %s edge: %w", rel.Type, err)
	}
	return nil
}

func (r *Repository) DeleteEdge(ctx context.Context, id string) error {
	query := "MATCH ()-[r:PARENT_OF|SPOUSE_OF]->() WHERE r.id = $id DELETE r"
	if err := r.run(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}

func (r *Repository) DeleteParentEdge(ctx context.Context, parentID, childID string) error {
	query := `
		MATCH (a:Person {id: $parentID})-[r:PARENT_OF]->(b:Person {id: $childID})
		DELETE r
	`
	if err := r.run(ctx, query, map[string]interface{}{
		"parentID": parentID,
		"childID":  childID,
	}); err != nil {
		return fmt.Errorf("failed to delete parent edge: %w", err)
	}
	return nil
}

func (r *Repository) EdgeExists(ctx context.Context, fromID, toID string, t model.RelType) (bool, error) {
	label, err := edgeLabel(t)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(
		"MATCH (a:Person {id: $fromID})-[r:%s]->(b:Person {id: $toID}) RETURN count(r)",
		label)
	n, err := r.queryCount(ctx, query, map[string]interface{}{
		"fromID": fromID,
		"toID":   toID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check edge: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) OutgoingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error) {
	label, err := edgeLabel(t)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"MATCH (a:Person {id: $id})-[:%s]->(b:Person) RETURN b.id AS id", label)
	return r.queryIDs(ctx, query, personID)
}

func (r *Repository) IncomingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error) {
	label, err := edgeLabel(t)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"MATCH (a:Person)-[:%s]->(b:Person {id: $id}) RETURN a.id AS id", label)
	return r.queryIDs(ctx, query, personID)
}

func (r *Repository) Parents(ctx context.Context, personID string) ([]model.Person, error) {
	query := "MATCH (p:Person)-[:PARENT_OF]->(c:Person {id: $id}) RETURN " + personReturn
	return r.queryPeople(ctx, query, map[string]interface{}{"id": personID})
}

func (r *Repository) Children(ctx context.Context, personID string) ([]model.Person, error) {
	query := "MATCH (a:Person {id: $id})-[:PARENT_OF]->(p:Person) RETURN " + personReturn
	return r.queryPeople(ctx, query, map[string]interface{}{"id": personID})
}

func (r *Repository) CountParents(ctx context.Context, personID string) (int, error) {
	query := "MATCH (:Person)-[r:PARENT_OF]->(c:Person {id: $id}) RETURN count(r)"
	return r.queryCount(ctx, query, map[string]interface{}{"id": personID})
}

// CountSpouses matches the SPOUSE_OF edge undirected, covering both stored
// directions.
func (r *Repository) CountSpouses(ctx context.Context, personID string) (int, error) {
	query := "MATCH (a:Person {id: $id})-[r:SPOUSE_OF]-(:Person) RETURN count(r)"
	return r.queryCount(ctx, query, map[string]interface{}{"id": personID})
}

func (r *Repository) ExportGraph(ctx context.Context, treeID string) (*model.GraphExport, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	export := &model.GraphExport{Nodes: []model.GraphNode{}, Edges: []model.GraphEdge{}}
	params := map[string]interface{}{"treeID": treeID}

	result, err := session.Run(ctx,
		"MATCH (p:Person {tree_id: $treeID}) RETURN p.id AS id, p.display_name AS label",
		params)
	if err != nil {
		return nil, fmt.Errorf("failed to export nodes: %w", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		export.Nodes = append(export.Nodes, model.GraphNode{
			ID:    getStringFromRecord(record, "id"),
			Label: getStringFromRecord(record, "label"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}

	for _, t := range []model.RelType{model.ParentOf, model.SpouseOf} {
		query := fmt.Sprintf(`
			MATCH (a:Person {tree_id: $treeID})-[r:%s]->(b:Person)
			RETURN r.id AS id, a.id AS source, b.id AS target
		`, t)
		result, err := session.Run(ctx, query, params)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s edges: %w", t, err)
		}
		for result.Next(ctx) {
			record := result.Record()
			export.Edges = append(export.Edges, model.GraphEdge{
				ID:     getStringFromRecord(record, "id"),
				Source: getStringFromRecord(record, "source"),
				Target: getStringFromRecord(record, "target"),
				Type:   t,
			})
		}
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s edges: %w", t, err)
		}
	}

	return export, nil
}

func (r *Repository) queryIDs(ctx context.Context, query, personID string) ([]string, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"id": personID})
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors: %w", err)
	}
	ids := []string{}
	for result.Next(ctx) {
		ids = append(ids, getStringFromRecord(result.Record(), "id"))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read neighbors: %w", err)
	}
	return ids, nil
}

func (r *Repository) queryPeople(ctx context.Context, query string, params map[string]interface{}) ([]model.Person, error) {
	session := r.read(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
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
