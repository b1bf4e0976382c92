package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SingleTokenShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login/", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "doc@test.com", payload["email"])
		assert.Equal(t, "TestDoc123!", payload["password"])
		_, hasRemember := payload["remember_me"]
		assert.False(t, hasRemember)

		w.Write([]byte(`{"token":"abc","user":{"id":7,"email":"doc@test.com"}}`))
	}))
	defer server.Close()

	sess, err := New(server.URL).Login(context.Background(), map[string]string{
		"email":    "doc@test.com",
		"password": "TestDoc123!",
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "abc", sess.AccessToken)
	assert.Empty(t, sess.RefreshToken)
	require.NotNil(t, sess.User)
	assert.Equal(t, int64(7), sess.User.ID)
	assert.Equal(t, "doc@test.com", sess.User.Email)
}

func TestLogin_AccessRefreshShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"acc-1","refresh":"ref-1","user":{"id":2,"email":"x@y.z"}}`))
	}))
	defer server.Close()

	sess, err := New(server.URL).Login(context.Background(), map[string]string{"email": "x@y.z", "password": "pw"}, true)

	require.NoError(t, err)
	assert.Equal(t, "acc-1", sess.AccessToken)
	assert.Equal(t, "ref-1", sess.RefreshToken)
}

func TestLogin_FallsBackAcrossRoutes(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/api/v1/auth/login/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"token":"abc","user":{"id":1,"email":"a@b.c"}}`))
	}))
	defer server.Close()

	sess, err := New(server.URL).Login(context.Background(), map[string]string{"email": "a@b.c", "password": "pw"}, false)

	require.NoError(t, err)
	assert.Equal(t, "abc", sess.AccessToken)
	assert.Equal(t, []string{"/auth/login/", "/api/auth/login/", "/api/v1/auth/login/"}, paths)
}

func TestLogin_InvalidCredentialsAreTerminal(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid credentials"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Login(context.Background(), map[string]string{"email": "a@b.c", "password": "bad"}, false)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthentication))
	// The 401 stops the fallback scan on the primary route.
	assert.Equal(t, 1, hits)
}

func TestLogin_UnrecognizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":1,"email":"a@b.c"}}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Login(context.Background(), map[string]string{"email": "a@b.c", "password": "pw"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access token")
}

// End-to-end over the opaque-token path: the token stored from login must
// come back as "Authorization: Token abc" on the profile fetch.
func TestLoginThenProfile_OpaqueTokenScheme(t *testing.T) {
	var profileAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			w.Write([]byte(`{"token":"abc","user":{"id":7,"email":"doc@test.com"}}`))
		case "/auth/profile/":
			profileAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"id":7,"email":"doc@test.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	sess, err := c.Login(context.Background(), map[string]string{"email": "doc@test.com", "password": "TestDoc123!"}, false)
	require.NoError(t, err)

	user, err := c.Profile(context.Background(), sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Token abc", profileAuth)
	assert.Equal(t, "doc@test.com", user.Email)
}

func TestProfile_JWTTokenScheme(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":1,"email":"a@b.c"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Profile(context.Background(), testJWT)

	require.NoError(t, err)
	assert.Equal(t, "Bearer "+testJWT, gotAuth)
}

func TestRefreshAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/token/refresh/", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ref-1", payload["refresh"])

		w.Write([]byte(`{"access":"acc-2"}`))
	}))
	defer server.Close()

	access, err := New(server.URL).RefreshAccess(context.Background(), "ref-1")

	require.NoError(t, err)
	assert.Equal(t, "acc-2", access)
}

func TestRefreshAccess_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := New(server.URL).RefreshAccess(context.Background(), "ref-1")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout/", r.URL.Path)
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL).Logout(context.Background(), "abc")
	assert.NoError(t, err)
}
