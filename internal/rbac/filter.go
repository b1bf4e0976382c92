package rbac

import (
	"sort"
	"strings"

	"github.com/raddesk-health/raddesk-cli/internal/client"
)

// UserFilter narrows a fetched user list in memory. Zero values mean "no
// constraint".
type UserFilter struct {
	// Query matches case-insensitively against username, email and name.
	Query string
	// Role keeps only members of the named role (case-sensitive).
	Role string
	// Status is "", "active" or "inactive".
	Status string
}

func FilterUsers(users []*client.User, f UserFilter) []*client.User {
	query := strings.ToLower(f.Query)
	out := make([]*client.User, 0, len(users))
	for _, u := range users {
		if query != "" && !matchesQuery(u, query) {
			continue
		}
		if f.Role != "" && !hasRole(u, f.Role) {
			continue
		}
		if f.Status == "active" && !u.IsActive {
			continue
		}
		if f.Status == "inactive" && u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesQuery(u *client.User, query string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		u.Username, u.Email, u.FirstName, u.LastName,
	}, " "))
	return strings.Contains(haystack, query)
}

func hasRole(u *client.User, role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SortUsers orders in place by key: "id", "email", "username" or "joined".
// Unknown keys leave the slice untouched.
func SortUsers(users []*client.User, key string, descending bool) {
	var less func(a, b *client.User) bool
	switch key {
	case "id":
		less = func(a, b *client.User) bool { return a.ID < b.ID }
	case "email":
		less = func(a, b *client.User) bool { return a.Email < b.Email }
	case "username":
		less = func(a, b *client.User) bool { return a.Username < b.Username }
	case "joined":
		less = func(a, b *client.User) bool { return a.DateJoined < b.DateJoined }
	default:
		return
	}
	sort.SliceStable(users, func(i, j int) bool {
		if descending {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}

// Paginate slices out one page (1-based). A page past the end is empty; a
// non-positive size disables pagination.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
