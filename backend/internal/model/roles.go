package model

// Role is a user's access level on a tree.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// roleRank is the fixed hierarchy: owner > editor > viewer > none.
var roleRank = map[Role]int{
	RoleOwner:  3,
	RoleEditor: 2,
	RoleViewer: 1,
	RoleNone:   0,
}

// Rank returns the numeric position of r in the hierarchy. Unknown roles
// rank as none.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r meets or exceeds min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// Grantable reports whether r can be handed out as a direct or group grant.
// Ownership is assigned once at tree creation and is never grantable.
func (r Role) Grantable() bool {
	return r == RoleEditor || r == RoleViewer
}

// MaxRole returns the higher-ranked of a and b.
func MaxRole(a, b Role) Role {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
