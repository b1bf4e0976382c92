package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

var (
	userEndpoints = Endpoints{
		"/api/rbac/users/",
		"/api/users/",
		"/users/",
	}
	roleEndpoints = Endpoints{
		"/api/rbac/roles/",
		"/api/roles/",
	}
	permissionEndpoints = Endpoints{
		"/api/rbac/permissions/",
		"/api/permissions/",
	}
	sessionEndpoints = Endpoints{
		"/api/rbac/sessions/",
		"/api/sessions/",
	}
	alertEndpoints = Endpoints{
		"/api/rbac/alerts/",
		"/api/security/alerts/",
	}
	activityEndpoints = Endpoints{
		"/api/rbac/activity/",
		"/api/activity/",
	}
)

// decodeList accepts both list serializations the backend uses: a bare JSON
// array and the paginated {"results": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unrecognized list response: %w", err)
	}
	return envelope.Results, nil
}

func list[T any](ctx context.Context, c *Client, eps Endpoints, token string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, eps, token, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]*User, error) {
	return list[*User](ctx, c, userEndpoints, token)
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*User, error) {
	var user User
	eps := userEndpoints.Child(strconv.FormatInt(id, 10))
	if err := c.Do(ctx, http.MethodGet, eps, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserParams is the user-creation payload. Roles are plain names; the
// backend resolves them.
type CreateUserParams struct {
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, token string, params CreateUserParams) (*User, error) {
	var user User
	if err := c.Do(ctx, http.MethodPost, userEndpoints, token, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserParams carries only the fields to change; nil pointers are
// omitted from the payload.
type UpdateUserParams struct {
	Email    *string  `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, params UpdateUserParams) (*User, error) {
	var user User
	eps := userEndpoints.Child(strconv.FormatInt(id, 10))
	if err := c.Do(ctx, http.MethodPatch, eps, token, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	eps := userEndpoints.Child(strconv.FormatInt(id, 10))
	return c.Do(ctx, http.MethodDelete, eps, token, nil, nil)
}

// SetUserActive flips a single account. Bulk enable/disable in the console
// is a sequential dispatch of this per id.
func (c *Client) SetUserActive(ctx context.Context, token string, id int64, active bool) (*User, error) {
	return c.UpdateUser(ctx, token, id, UpdateUserParams{IsActive: &active})
}

func (c *Client) ResetPassword(ctx context.Context, token string, id int64, newPassword string) error {
	payload := map[string]string{"new_password": newPassword}
	eps := userEndpoints.Child(strconv.FormatInt(id, 10), "reset-password")
	return c.Do(ctx, http.MethodPost, eps, token, payload, nil)
}

func (c *Client) ListRoles(ctx context.Context, token string) ([]*Role, error) {
	return list[*Role](ctx, c, roleEndpoints, token)
}

func (c *Client) ListPermissions(ctx context.Context, token string) ([]*Permission, error) {
	return list[*Permission](ctx, c, permissionEndpoints, token)
}

func (c *Client) ListSessions(ctx context.Context, token string) ([]*UserSession, error) {
	return list[*UserSession](ctx, c, sessionEndpoints, token)
}

func (c *Client) RevokeSession(ctx context.Context, token, sessionID string) error {
	eps := sessionEndpoints.Child(sessionID)
	return c.Do(ctx, http.MethodDelete, eps, token, nil, nil)
}

func (c *Client) ListAlerts(ctx context.Context, token string) ([]*SecurityAlert, error) {
	return list[*SecurityAlert](ctx, c, alertEndpoints, token)
}

func (c *Client) AcknowledgeAlert(ctx context.Context, token, alertID string) error {
	eps := alertEndpoints.Child(alertID, "ack")
	return c.Do(ctx, http.MethodPost, eps, token, nil, nil)
}

func (c *Client) ListActivity(ctx context.Context, token string) ([]*ActivityEvent, error) {
	return list[*ActivityEvent](ctx, c, activityEndpoints, token)
}

// RecordActivity posts one activity event. Used by the demo seeder.
func (c *Client) RecordActivity(ctx context.Context, token string, event *ActivityEvent) error {
	return c.Do(ctx, http.MethodPost, activityEndpoints, token, event, nil)
}
