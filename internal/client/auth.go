package client

import (
	"context"
	"fmt"
	"net/http"
)

// Route tables. Primary routes first; the fallbacks mirror paths older
// backend deployments still serve.
var (
	loginEndpoints = Endpoints{
		"/auth/login/",
		"/api/auth/login/",
		"/api/v1/auth/login/",
	}
	refreshEndpoints = Endpoints{
		"/auth/token/refresh/",
		"/api/auth/token/refresh/",
	}
	logoutEndpoints = Endpoints{
		"/auth/logout/",
		"/api/auth/logout/",
	}
	profileEndpoints = Endpoints{
		"/auth/profile/",
	}
)

// Session is a normalized login result. The backend has shipped two response
// shapes, {token, user} and {access, refresh, user}; both collapse into this.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

type loginResponse struct {
	Token   string `json:"token"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

func (r *loginResponse) normalize() (*Session, error) {
	access := r.Access
	if access == "" {
		access = r.Token
	}
	if access == "" {
		return nil, fmt.Errorf("unrecognized login response: no access token")
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: r.Refresh,
		User:         r.User,
	}, nil
}

// Login authenticates with the method-specific field map (e.g. email and
// password). The call is unauthenticated, so a 401 here means rejected
// credentials, never a refresh trigger.
func (c *Client) Login(ctx context.Context, fields map[string]string, rememberMe bool) (*Session, error) {
	payload := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	if rememberMe {
		payload["remember_me"] = true
	}

	var raw loginResponse
	if err := c.doFallback(ctx, http.MethodPost, loginEndpoints, "", payload, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// Profile fetches the authenticated user's own record. A 401 flows through
// the one-shot refresh in Do.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.Do(ctx, http.MethodGet, profileEndpoints, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshAccess exchanges a refresh token for a new access token.
func (c *Client) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	payload := map[string]string{"refresh": refreshToken}

	var resp struct {
		Access string `json:"access"`
	}
	if err := c.doFallback(ctx, http.MethodPost, refreshEndpoints, "", payload, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return resp.Access, nil
}

// Logout tells the backend to invalidate the session. Best-effort: callers
// clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doFallback(ctx, http.MethodPost, logoutEndpoints, token, nil, nil)
}
