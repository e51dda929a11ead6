package model

import "time"

// Sex is the recorded sex of a Person. U means unknown.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// ValidSex reports whether s is one of the accepted values.
func ValidSex(s Sex) bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

// RelType is the kind of a relationship edge between two people.
// ParentOf is directed (parent -> child). SpouseOf is logically symmetric
// but stored as a single directed edge, so queries check both directions.
type RelType string

const (
	ParentOf RelType = "PARENT_OF"
	SpouseOf RelType = "SPOUSE_OF"
)

// ValidRelType reports whether t is one of the accepted edge kinds.
func ValidRelType(t RelType) bool {
	return t == ParentOf || t == SpouseOf
}

// Person is a node in a family tree. Dates are ISO strings; empty means unset.
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Sex         Sex    `json:"sex"`
	Notes       string `json:"notes,omitempty"`
	TreeID      string `json:"tree_id,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	DeathDate   string `json:"death_date,omitempty"`
	IsDeceased  bool   `json:"is_deceased"`
}

// Relationship is a directed edge between two Person nodes.
type Relationship struct {
	ID           string  `json:"id"`
	FromPersonID string  `json:"from_person_id"`
	ToPersonID   string  `json:"to_person_id"`
	Type         RelType `json:"type"`
}

// Comment is a note attached to a single Person. Its lifecycle follows that
// person: deleted with the person, reassigned (never dropped) on merge.
type Comment struct {
	ID         string `json:"id"`
	PersonID   string `json:"person_id"`
	TreeID     string `json:"tree_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// Tree is a tenant-scoped genealogical dataset. It owns every Person,
// Relationship, Comment, and ShareLink carrying its id.
type Tree struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// TreeSummary is a tree together with the caller's resolved role on it.
type TreeSummary struct {
	Tree
	Role Role `json:"role"`
}

// User is an account. Email is unique and stored case-folded.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}

// UserGroup is a named set of users that can hold tree grants of its own.
type UserGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

// GroupSummary is a group together with whether the listing user is a member
// (they may only be its creator).
type GroupSummary struct {
	UserGroup
	IsMember bool `json:"is_member"`
}

// GroupMember is a user's membership row within a group.
type GroupMember struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AddedAt     string `json:"added_at"`
}

// TreeMember is a direct user grant on a tree.
type TreeMember struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	GrantedAt   string `json:"granted_at,omitempty"`
}

// TreeGroupGrant is a group grant on a tree.
type TreeGroupGrant struct {
	GroupID   string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	GrantedAt string `json:"granted_at"`
}

// TreeMembership is the full access picture of a tree.
type TreeMembership struct {
	Owner  *TreeMember      `json:"owner"`
	Users  []TreeMember     `json:"users"`
	Groups []TreeGroupGrant `json:"groups"`
}

// GroupTreeGrant is a tree a group can access, from the group's side.
type GroupTreeGrant struct {
	TreeID    string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	GrantedAt string `json:"granted_at"`
}

// ShareLink is a token granting read access to a tree for invited viewers.
type ShareLink struct {
	Token     string `json:"token"`
	TreeID    string `json:"tree_id"`
	CreatedAt string `json:"created_at"`
}

// Viewer is an external (non-account) reader invited through a share link.
type Viewer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ShareAccess is one entry in a share link's access log.
type ShareAccess struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ViewedAt string `json:"viewed_at"`
	IP       string `json:"ip"`
}

// TreeChange is one append-only audit record for a tree mutation.
type TreeChange struct {
	ID         string `json:"id"`
	TreeID     string `json:"tree_id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// MergedChild records one child pair collapsed during spousal reconciliation.
type MergedChild struct {
	Name      string `json:"name"`
	KeptID    string `json:"kept_id"`
	RemovedID string `json:"removed_id"`
}

// ReconciliationReport is the outcome of the child-sharing pass that runs
// after two people are linked as spouses.
type ReconciliationReport struct {
	Merged      []MergedChild `json:"merged"`
	SharedWithA []string      `json:"shared_with_a"`
	SharedWithB []string      `json:"shared_with_b"`
}

// GraphNode and GraphEdge are the export shape consumed by rendering clients.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type GraphEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   RelType `json:"type"`
}

type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Timestamp formats t the way every persisted created_at/granted_at field is
// stored: UTC RFC 3339.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Now is the current time in the persisted timestamp format.
func Now() string {
	return Timestamp(time.Now())
}
