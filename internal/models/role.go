package models

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleDesigner   Role = "designer"
	RoleDeveloper  Role = "developer"
	RoleBD         Role = "bd"
)

// roleAliases maps legacy role names still present in stored profiles to
// their canonical equivalents.
var roleAliases = map[string]Role{
	"manager":       RoleAdmin,
	"super_manager": RoleSuperAdmin,
}

// SpellingsOf returns every stored spelling that resolves to the role,
// the canonical name plus any legacy aliases. Queries over stored
// profiles must match all of them, since old rows may still carry an
// alias.
func SpellingsOf(role Role) []string {
	spellings := []string{string(role)}
	for alias, canonical := range roleAliases {
		if canonical == role {
			spellings = append(spellings, alias)
		}
	}
	return spellings
}

// ParseRole resolves a stored role string, accepting legacy aliases.
// Unknown values are returned as-is with ok=false; permission checks
// fail closed for them.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleDesigner, RoleDeveloper, RoleBD:
		return Role(s), true
	}
	if r, ok := roleAliases[s]; ok {
		return r, true
	}
	return Role(s), false
}
