// Package store defines the graph-store boundary consumed by the service
// layer. The production implementation lives in internal/graph (Neo4j);
// internal/memstore provides an isolated in-memory instance for tests.
//
// Lookup methods return (nil, nil) when the entity does not exist; mapping
// absence onto the error taxonomy is the caller's job.
package store

import (
	"context"

	"kintree/backend/internal/model"
)

// Store is the full persistence surface.
type Store interface {
	PersonStore
	RelationshipStore
	CommentStore
	TreeStore
	AccessStore
	UserStore
	GroupStore
	ShareStore
	ChangeStore
}

// PersonStore is node CRUD for people.
type PersonStore interface {
	CreatePerson(ctx context.Context, p model.Person) error
	GetPerson(ctx context.Context, id string) (*model.Person, error)
	// GetPersonInTree additionally requires the person to belong to treeID.
	GetPersonInTree(ctx context.Context, id, treeID string) (*model.Person, error)
	ListPeople(ctx context.Context, treeID string) ([]model.Person, error)
	FindPersonByName(ctx context.Context, displayName, treeID string) (*model.Person, error)
	UpdatePerson(ctx context.Context, p model.Person) error
	// DeletePersonCascade removes the person's comments, every incident
	// relationship edge, and the node itself.
	DeletePersonCascade(ctx context.Context, id string) error
}

// RelationshipStore is edge CRUD and the degree queries the constraint
// validator depends on.
type RelationshipStore interface {
	CreateEdge(ctx context.Context, rel model.Relationship) error
	DeleteEdge(ctx context.Context, id string) error
	DeleteParentEdge(ctx context.Context, parentID, childID string) error
	// EdgeExists checks the exact direction only; symmetric lookups are
	// composed by the caller.
	EdgeExists(ctx context.Context, fromID, toID string, t model.RelType) (bool, error)
	OutgoingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error)
	IncomingNeighbors(ctx context.Context, personID string, t model.RelType) ([]string, error)
	Parents(ctx context.Context, personID string) ([]model.Person, error)
	Children(ctx context.Context, personID string) ([]model.Person, error)
	CountParents(ctx context.Context, personID string) (int, error)
	// CountSpouses counts SPOUSE_OF edges touching the person in either
	// direction.
	CountSpouses(ctx context.Context, personID string) (int, error)
	ExportGraph(ctx context.Context, treeID string) (*model.GraphExport, error)
}

// CommentStore is comment CRUD plus the bulk reassignment the merge engine
// runs before the remove-side cascade delete.
type CommentStore interface {
	CreateComment(ctx context.Context, c model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ListComments(ctx context.Context, personID, treeID string) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	// ReassignComments moves every comment from one person to another and
	// returns how many moved.
	ReassignComments(ctx context.Context, fromPersonID, toPersonID string) (int, error)
}

// TreeStore is tree CRUD. Deleting a tree cascades over everything it owns.
type TreeStore interface {
	CreateTree(ctx context.Context, t model.Tree, ownerID string) error
	GetTree(ctx context.Context, id string) (*model.Tree, error)
	RenameTree(ctx context.Context, id, name string) error
	DeleteTreeCascade(ctx context.Context, id string) error
	// TreeOwnerID returns "" when the tree has no owner edge.
	TreeOwnerID(ctx context.Context, treeID string) (string, error)
	ListUserTrees(ctx context.Context, userID string) ([]model.TreeSummary, error)
}

// AccessStore holds the grant edges the role resolver evaluates.
type AccessStore interface {
	// DirectRole returns RoleNone when the user holds no direct grant.
	DirectRole(ctx context.Context, userID, treeID string) (model.Role, error)
	// GroupRoles returns one role per grant held by a group the user
	// belongs to; all of them are evaluated, none short-circuits.
	GroupRoles(ctx context.Context, userID, treeID string) ([]model.Role, error)
	UpsertUserGrant(ctx context.Context, treeID, userID string, role model.Role, grantedAt string) error
	RevokeUserGrant(ctx context.Context, treeID, userID string) error
	GroupGrantRole(ctx context.Context, treeID, groupID string) (model.Role, error)
	UpsertGroupGrant(ctx context.Context, treeID, groupID string, role model.Role, grantedAt string) error
	RevokeGroupGrant(ctx context.Context, treeID, groupID string) error
	TreeMembership(ctx context.Context, treeID string) (*model.TreeMembership, error)
}

// UserStore is account CRUD. Email uniqueness is checked at the service
// boundary; the stored email is always case-folded.
type UserStore interface {
	CreateUser(ctx context.Context, u model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// GroupStore is user-group CRUD and membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, g model.UserGroup) error
	GetGroup(ctx context.Context, id string) (*model.UserGroup, error)
	UpdateGroup(ctx context.Context, id, name, description string) error
	// DeleteGroupCascade removes the group with its membership and grant
	// edges.
	DeleteGroupCascade(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, userID, addedAt string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error)
	ListUserGroups(ctx context.Context, userID string) ([]model.GroupSummary, error)
	ListAllGroups(ctx context.Context) ([]model.UserGroup, error)
	ListGroupTrees(ctx context.Context, groupID string) ([]model.GroupTreeGrant, error)
}

// ShareStore is share-link and viewer access persistence.
type ShareStore interface {
	CreateShareLink(ctx context.Context, s model.ShareLink) error
	GetShareLink(ctx context.Context, token string) (*model.ShareLink, error)
	ListShareLinks(ctx context.Context, treeID string) ([]model.ShareLink, error)
	DeleteShareLink(ctx context.Context, token string) error
	AddViewer(ctx context.Context, token, email, name string) (*model.Viewer, error)
	RemoveViewer(ctx context.Context, token, viewerID string) error
	ListViewers(ctx context.Context, token string) ([]model.Viewer, error)
	CheckViewerAccess(ctx context.Context, token, email string) (*model.Viewer, error)
	LogShareAccess(ctx context.Context, token, viewerID, ip, viewedAt string) error
	ShareAccessLog(ctx context.Context, token string) ([]model.ShareAccess, error)
}

// ChangeStore is the append-only audit log.
type ChangeStore interface {
	AppendChange(ctx context.Context, c model.TreeChange) error
	ListChanges(ctx context.Context, treeID string, limit, offset int) ([]model.TreeChange, error)
}
