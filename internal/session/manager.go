package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/raddesk-health/raddesk-cli/internal/client"
	"github.com/raddesk-health/raddesk-cli/internal/config"
)

// State is the session lifecycle position. Refreshing is a transient
// sub-state reachable only from Authenticated.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

// ErrSuperseded marks a result that arrived after the session it belonged
// to was cleared. Callers drop it; it never mutates state.
var ErrSuperseded = errors.New("session changed while the operation was in flight")

// Store is the persistence contract the manager needs; *config.Config
// satisfies it.
type Store interface {
	SaveSession(name, serverURL string, s config.Session) error
	Session(name string) (config.Session, bool)
	ClearSession(name string) error
}

// Manager owns the authentication lifecycle: login, logout, refresh and
// bootstrap. It is the boundary that converts transport failures into
// something the commands can print, and the only writer of session state.
type Manager struct {
	api       *client.Client
	store     Store
	profile   string
	serverURL string
	log       zerolog.Logger

	group singleflight.Group

	mu      sync.Mutex
	state   State
	user    *client.User
	access  string
	refresh string
	lastErr error
	// epoch increments on every clear; in-flight results are applied only
	// if the epoch they started under is still current.
	epoch uint64
}

func NewManager(api *client.Client, store Store, profile, serverURL string, log zerolog.Logger) *Manager {
	return &Manager{
		api:       api,
		store:     store,
		profile:   profile,
		serverURL: serverURL,
		log:       log,
	}
}

// API exposes the wired client for the non-auth console calls.
func (m *Manager) API() *client.Client { return m.api }

// Restore loads persisted credentials without touching the network. The
// session counts as authenticated on the strength of the prior successful
// login; the next 401 corrects any staleness.
func (m *Manager) Restore() bool {
	stored, ok := m.store.Session(m.profile)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = stored.AccessToken
	m.refresh = stored.RefreshToken
	m.user = parseCachedUser(stored.User)
	m.state = Authenticated
	return true
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Authenticated && m.access != ""
}

func (m *Manager) CurrentUser() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Login validates the active method's fields, then authenticates. A
// validation failure blocks submission locally; a 401 from the backend is
// terminal for the attempt and leaves the manager unauthenticated.
func (m *Manager) Login(ctx context.Context, methodID string, values map[string]string, rememberMe bool) (*client.User, error) {
	method, ok := MethodByID(methodID)
	if !ok {
		return nil, fmt.Errorf("unknown login method %q", methodID)
	}
	if errs := method.Validate(values); errs != nil {
		return nil, errs
	}

	m.mu.Lock()
	m.state = Authenticating
	epoch := m.epoch
	m.mu.Unlock()

	sess, err := m.api.Login(ctx, method.Payload(values), rememberMe)

	var user *client.User
	if err == nil {
		user = sess.User
		if user == nil {
			// Older deployments return only tokens; the user comes from
			// the profile endpoint.
			user, err = m.api.Profile(ctx, sess.AccessToken)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// A failed refresh inside the profile fetch may already have torn
		// the session down; only touch state if it is still ours.
		if m.epoch == epoch {
			m.state = Unauthenticated
			m.lastErr = err
		}
		return nil, err
	}
	if m.epoch != epoch {
		return nil, ErrSuperseded
	}

	m.state = Authenticated
	m.user = user
	m.access = sess.AccessToken
	m.refresh = sess.RefreshToken
	m.lastErr = nil
	m.persistLocked()
	return user, nil
}

// Logout is terminal-success: the remote call is best-effort, local state is
// cleared unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.access
	m.mu.Unlock()

	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Refresh exchanges the refresh token for a new access token. Concurrent
// callers share one in-flight attempt. Failure tears the session down.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	v, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.refreshOnce(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// RefreshAccessToken implements client.Refresher.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	return m.Refresh(ctx)
}

func (m *Manager) refreshOnce(ctx context.Context) (string, error) {
	m.mu.Lock()
	refresh := m.refresh
	epoch := m.epoch
	if refresh == "" {
		m.clearLocked()
		m.mu.Unlock()
		return "", fmt.Errorf("no refresh token available")
	}
	m.state = Refreshing
	m.mu.Unlock()

	access, err := m.api.RefreshAccess(ctx, refresh)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return "", ErrSuperseded
	}
	if err != nil {
		m.lastErr = err
		m.clearLocked()
		return "", err
	}

	m.access = access
	m.state = Authenticated
	m.persistLocked()
	return access, nil
}

// Bootstrap restores a session from the store: a persisted token triggers a
// profile fetch, whose 401 flows through the one-shot refresh. When the
// backend is unreachable the cached user record keeps the prior session
// usable rather than forcing a re-login.
func (m *Manager) Bootstrap(ctx context.Context) error {
	stored, ok := m.store.Session(m.profile)
	if !ok {
		m.mu.Lock()
		m.state = Unauthenticated
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.access = stored.AccessToken
	m.refresh = stored.RefreshToken
	epoch := m.epoch
	m.mu.Unlock()

	user, err := m.api.Profile(ctx, stored.AccessToken)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		if m.epoch != epoch {
			return ErrSuperseded
		}
		m.state = Authenticated
		m.user = user
		m.lastErr = nil
		m.persistLocked()
		return nil
	}

	if m.epoch != epoch {
		// The in-flight refresh already cleared everything.
		m.lastErr = err
		return err
	}

	if client.IsNetwork(err) {
		if cached := parseCachedUser(stored.User); cached != nil {
			m.log.Warn().Err(err).Msg("backend unreachable, using cached profile")
			m.state = Authenticated
			m.user = cached
			m.lastErr = err
			return nil
		}
	}

	m.lastErr = err
	m.clearLocked()
	return err
}

// persistLocked writes the current triple through the store. Persistence
// failures degrade to an in-memory session, they do not fail the operation.
func (m *Manager) persistLocked() {
	raw, err := json.Marshal(m.user)
	if err != nil {
		raw = nil
	}
	s := config.Session{
		AccessToken:  m.access,
		RefreshToken: m.refresh,
		User:         string(raw),
	}
	if err := m.store.SaveSession(m.profile, m.serverURL, s); err != nil {
		m.log.Warn().Err(err).Msg("could not persist session")
	}
}

func (m *Manager) clearLocked() {
	m.epoch++
	m.state = Unauthenticated
	m.user = nil
	m.access = ""
	m.refresh = ""
	if err := m.store.ClearSession(m.profile); err != nil {
		m.log.Warn().Err(err).Msg("could not clear persisted session")
	}
}

func parseCachedUser(raw string) *client.User {
	if raw == "" {
		return nil
	}
	var user client.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}
