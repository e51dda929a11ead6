package graph

import (
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"kintree/backend/internal/model"
)

func sortTreeSummaries(trees []model.TreeSummary) {
	sort.Slice(trees, func(i, j int) bool {
		return trees[i].Name < trees[j].Name
	})
}

func sortGroupSummaries(groups []model.GroupSummary) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getBoolFromRecord(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return false
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return false
}

// personReturn is the projection every person query shares. Callers alias
// their node variable to p.
const personReturn = "p.id AS id, p.display_name AS display_name, p.sex AS sex, " +
	"p.notes AS notes, p.tree_id AS tree_id, p.birth_date AS birth_date, " +
	"p.death_date AS death_date, p.is_deceased AS is_deceased"

func personFromRecord(record *neo4j.Record) model.Person {
	return model.Person{
		ID:          getStringFromRecord(record, "id"),
		DisplayName: getStringFromRecord(record, "display_name"),
		Sex:         model.Sex(getStringFromRecord(record, "sex")),
		Notes:       getStringFromRecord(record, "notes"),
		TreeID:      getStringFromRecord(record, "tree_id"),
		BirthDate:   getStringFromRecord(record, "birth_date"),
		DeathDate:   getStringFromRecord(record, "death_date"),
		IsDeceased:  getBoolFromRecord(record, "is_deceased"),
	}
}

func personParams(p model.Person) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.DisplayName,
		"sex":         string(p.Sex),
		"notes":       p.Notes,
		"treeID":      p.TreeID,
		"birthDate":   p.BirthDate,
		"deathDate":   p.DeathDate,
		"isDeceased":  p.IsDeceased,
	}
}
