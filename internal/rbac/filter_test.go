package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raddesk-health/raddesk-cli/internal/client"
)

func sampleUsers() []*client.User {
	return []*client.User{
		{ID: 1, Username: "asmith", Email: "alice@raddesk.health", FirstName: "Alice", LastName: "Smith", IsActive: true, Roles: client.RoleList{"ADMIN"}, DateJoined: "2024-01-10T00:00:00Z"},
		{ID: 2, Username: "bjones", Email: "bob@raddesk.health", FirstName: "Bob", LastName: "Jones", IsActive: true, Roles: client.RoleList{"VIEWER"}, DateJoined: "2023-06-02T00:00:00Z"},
		{ID: 3, Username: "cwu", Email: "carol@raddesk.health", FirstName: "Carol", LastName: "Wu", IsActive: false, Roles: client.RoleList{"VIEWER", "RADIOLOGIST"}, DateJoined: "2025-02-20T00:00:00Z"},
	}
}

func ids(users []*client.User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestFilterUsers(t *testing.T) {
	users := sampleUsers()

	t.Run("no constraints keeps everyone", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2, 3}, ids(FilterUsers(users, UserFilter{})))
	})

	t.Run("query matches name case-insensitively", func(t *testing.T) {
		assert.Equal(t, []int64{3}, ids(FilterUsers(users, UserFilter{Query: "WU"})))
	})

	t.Run("query matches email", func(t *testing.T) {
		assert.Equal(t, []int64{2}, ids(FilterUsers(users, UserFilter{Query: "bob@"})))
	})

	t.Run("role filter", func(t *testing.T) {
		assert.Equal(t, []int64{2, 3}, ids(FilterUsers(users, UserFilter{Role: "VIEWER"})))
	})

	t.Run("status filters", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2}, ids(FilterUsers(users, UserFilter{Status: "active"})))
		assert.Equal(t, []int64{3}, ids(FilterUsers(users, UserFilter{Status: "inactive"})))
	})

	t.Run("constraints combine", func(t *testing.T) {
		got := FilterUsers(users, UserFilter{Query: "raddesk", Role: "VIEWER", Status: "active"})
		assert.Equal(t, []int64{2}, ids(got))
	})
}

func TestSortUsers(t *testing.T) {
	t.Run("by email", func(t *testing.T) {
		users := sampleUsers()
		SortUsers(users, "email", false)
		assert.Equal(t, []int64{1, 2, 3}, ids(users))
	})

	t.Run("by joined descending", func(t *testing.T) {
		users := sampleUsers()
		SortUsers(users, "joined", true)
		assert.Equal(t, []int64{3, 1, 2}, ids(users))
	})

	t.Run("unknown key is a no-op", func(t *testing.T) {
		users := sampleUsers()
		SortUsers(users, "shoe-size", false)
		assert.Equal(t, []int64{1, 2, 3}, ids(users))
	})
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, 1, 2))
	assert.Equal(t, []int{3, 4}, Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, Paginate(items, 3, 2))
	assert.Nil(t, Paginate(items, 4, 2))
	assert.Equal(t, items, Paginate(items, 1, 0), "non-positive size disables pagination")
	assert.Equal(t, []int{1, 2}, Paginate(items, 0, 2), "page clamps to 1")
}
