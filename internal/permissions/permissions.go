package permissions

import (
	"github.com/teamboard/teamboard-api/internal/models"
)

// Capability is a single named authorization bit.
type Capability string

const (
	CapEditTasks     Capability = "edit_tasks"
	CapDeleteTasks   Capability = "delete_tasks"
	CapMoveTasks     Capability = "move_tasks"
	CapManageTasks   Capability = "manage_tasks"
	CapAssignTasks   Capability = "assign_tasks"
	CapViewAnalytics Capability = "view_analytics"
	CapViewOwnTasks  Capability = "view_own_tasks"
	CapManageUsers   Capability = "manage_users"
)

// WildcardRole holds every capability unconditionally. At most one
// active user may hold it system-wide; UserService enforces that on
// every role assignment.
const WildcardRole = models.RoleSuperAdmin

// table maps each role to its capability set. Static deployment
// configuration; the only way to change a user's capabilities at
// runtime is to change their role.
var table = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		CapEditTasks:     true,
		CapDeleteTasks:   true,
		CapMoveTasks:     true,
		CapManageTasks:   true,
		CapAssignTasks:   true,
		CapViewAnalytics: true,
		CapManageUsers:   true,
	},
	models.RoleDesigner: {
		CapMoveTasks:    true,
		CapViewOwnTasks: true,
		CapAssignTasks:  true,
	},
	models.RoleDeveloper: {
		CapMoveTasks:    true,
		CapViewOwnTasks: true,
		CapAssignTasks:  true,
	},
	models.RoleBD: {
		CapMoveTasks:    true,
		CapViewOwnTasks: true,
		CapAssignTasks:  true,
	},
}

// HasPermission reports whether role grants the capability.
// Unknown roles fail closed.
func HasPermission(role models.Role, cap Capability) bool {
	if role == WildcardRole {
		return true
	}
	caps, ok := table[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// CanViewAllTasks reports whether the role sees the whole board rather
// than only tasks it is assigned, created, or assigned-by.
func CanViewAllTasks(role models.Role) bool {
	return role == WildcardRole || role == models.RoleAdmin
}

// Capabilities returns the capability set for a role, for profile
// responses. The wildcard role reports the full set.
func Capabilities(role models.Role) []Capability {
	all := []Capability{
		CapEditTasks, CapDeleteTasks, CapMoveTasks, CapManageTasks,
		CapAssignTasks, CapViewAnalytics, CapViewOwnTasks, CapManageUsers,
	}
	if role == WildcardRole {
		return all
	}
	caps, ok := table[role]
	if !ok {
		return nil
	}
	granted := make([]Capability, 0, len(caps))
	for _, c := range all {
		if caps[c] {
			granted = append(granted, c)
		}
	}
	return granted
}
