// Package memstore is an in-memory store.Store used by unit tests. It mirrors
// the Neo4j repository's observable behavior, including lookup methods that
// return (nil, nil) on absence and the sorted orderings of the list queries.
package memstore

import (
	"sync"

	"kintree/backend/internal/model"
	"kintree/backend/internal/store"
)

var _ store.Store = (*Store)(nil)

type grant struct {
	role      model.Role
	grantedAt string
}

// Store keeps everything in maps behind one mutex. It is safe for concurrent
// use but makes no atomicity promises beyond single calls, same as the graph
// repository.
type Store struct {
	mu sync.RWMutex

	people   map[string]model.Person
	edges    map[string]model.Relationship
	comments map[string]model.Comment

	trees  map[string]model.Tree
	owners map[string]string // treeID -> userID

	userGrants  map[string]map[string]grant // treeID -> userID
	groupGrants map[string]map[string]grant // treeID -> groupID

	users   map[string]model.User
	groups  map[string]model.UserGroup
	members map[string]map[string]string // groupID -> userID -> addedAt

	links       map[string]model.ShareLink
	viewers     map[string]model.Viewer
	linkViewers map[string]map[string]string // token -> viewerID -> grantedAt
	accessLog   map[string][]model.ShareAccess

	changes map[string][]model.TreeChange
}

func New() *Store {
	return &Store{
		people:      map[string]model.Person{},
		edges:       map[string]model.Relationship{},
		comments:    map[string]model.Comment{},
		trees:       map[string]model.Tree{},
		owners:      map[string]string{},
		userGrants:  map[string]map[string]grant{},
		groupGrants: map[string]map[string]grant{},
		users:       map[string]model.User{},
		groups:      map[string]model.UserGroup{},
		members:     map[string]map[string]string{},
		links:       map[string]model.ShareLink{},
		viewers:     map[string]model.Viewer{},
		linkViewers: map[string]map[string]string{},
		accessLog:   map[string][]model.ShareAccess{},
		changes:     map[string][]model.TreeChange{},
	}
}
