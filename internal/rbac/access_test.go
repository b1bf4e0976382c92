package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raddesk-health/raddesk-cli/internal/client"
)

func TestHasElevatedAccess(t *testing.T) {
	tests := []struct {
		name string
		user *client.User
		want bool
	}{
		{
			name: "nil user",
			user: nil,
			want: false,
		},
		{
			name: "superuser flag alone",
			user: &client.User{IsSuperuser: true},
			want: true,
		},
		{
			name: "staff flag alone",
			user: &client.User{IsStaff: true},
			want: true,
		},
		{
			name: "admin role",
			user: &client.User{Roles: client.RoleList{"ADMIN"}},
			want: true,
		},
		{
			name: "radiology head role",
			user: &client.User{Roles: client.RoleList{"RADIOLOGY_HEAD"}},
			want: true,
		},
		{
			name: "admin among other roles",
			user: &client.User{Roles: client.RoleList{"VIEWER", "SYSTEM_ADMIN"}},
			want: true,
		},
		{
			name: "viewer only",
			user: &client.User{Roles: client.RoleList{"VIEWER"}},
			want: false,
		},
		{
			name: "case mismatch does not count",
			user: &client.User{Roles: client.RoleList{"admin"}},
			want: false,
		},
		{
			name: "no roles at all",
			user: &client.User{Email: "doc@test.com"},
			want: false,
		},
		{
			name: "break-glass account",
			user: &client.User{Email: "ops@raddesk.health"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasElevatedAccess(tt.user))
		})
	}
}
