// Package rbac holds the pure access-control logic: the elevated-access
// predicate and the in-memory list shaping used by the console commands.
package rbac

import "github.com/raddesk-health/raddesk-cli/internal/client"

// elevatedRoles are the role names that grant administrator access.
// Matching is case-sensitive; role shapes are already normalized to plain
// strings at the JSON boundary.
var elevatedRoles = map[string]struct{}{
	"ADMIN":          {},
	"SUPERADMIN":     {},
	"SYSTEM_ADMIN":   {},
	"RADIOLOGY_HEAD": {},
}

// breakGlassEmail is the operational override: this account keeps elevated
// access even if the backend loses its role assignments.
const breakGlassEmail = "ops@raddesk.health"

// HasElevatedAccess reports whether the user may reach the administration
// surface. Pure and uncached: a role change takes effect on the next call.
func HasElevatedAccess(u *client.User) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser || u.IsStaff {
		return true
	}
	for _, role := range u.Roles {
		if _, ok := elevatedRoles[role]; ok {
			return true
		}
	}
	return u.Email == breakGlassEmail
}
