package session

// Role is the access-level classification returned by authentication.
type Role string

// Known role categories, matched case-sensitively against upstream values.
const (
	RoleDebtor         Role = "Debtor"
	RoleFIAdmin        Role = "FI Admin"
	RoleResohubAdmin   Role = "Resohub Admin"
	RoleDeltabotsAdmin Role = "Deltabots Admin"
	RoleUnknown        Role = ""
)

// knownRoles is the fixed set of categories the console recognizes.
var knownRoles = map[Role]struct{}{
	RoleDebtor:         {},
	RoleFIAdmin:        {},
	RoleResohubAdmin:   {},
	RoleDeltabotsAdmin: {},
}

// Known reports whether the role is one of the fixed categories.
func (r Role) Known() bool {
	_, ok := knownRoles[r]
	return ok
}

// NormalizeRole maps an upstream role-category string onto a Role.
//
// Values in the fixed set map to themselves. Anything else passes through
// unchanged so a backend role addition degrades to an unrecognized role
// instead of a hard failure; callers use Known to branch on membership.
func NormalizeRole(category string) Role {
	return Role(category)
}
