package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk profile store. Each profile holds the connection
// target plus the persisted session triple (access token, refresh token,
// cached user). It is the single durable home for credentials; expiry is
// never tracked locally and is discovered through a 401.
type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

type Profile struct {
	ServerURL    string `yaml:"server_url"`
	AccessToken  string `yaml:"access_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	// User is the cached profile record, serialized as JSON. A value that
	// fails to parse downstream is treated as absent, never as an error.
	User string `yaml:"user,omitempty"`
}

// Session is the persisted credential triple for one profile.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         string
}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

// Load reads the profile store from cfgFile (default ~/.raddctl/config.yaml).
// A missing file yields an empty store. A corrupted file also yields an
// empty store, with the parse error returned so the caller can warn.
func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".raddctl", "config.yaml")
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		fresh := Default()
		fresh.path = cfgFile
		return fresh, fmt.Errorf("config %s is corrupted, starting empty: %w", cfgFile, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".raddctl", "config.yaml")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// SaveSession persists the session triple under the named profile,
// overwriting any previous values, and makes the profile current.
func (c *Config) SaveSession(name, serverURL string, s Session) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	p, ok := c.Profiles[name]
	if !ok {
		p = &Profile{}
		c.Profiles[name] = p
	}
	if serverURL != "" {
		p.ServerURL = serverURL
	}
	p.AccessToken = s.AccessToken
	p.RefreshToken = s.RefreshToken
	p.User = s.User

	c.CurrentProfile = name
	return c.Save()
}

// Session returns the persisted triple for the named profile. The second
// return is false when the profile does not exist or holds no access token.
func (c *Config) Session(name string) (Session, bool) {
	p, ok := c.Profiles[c.profileName(name)]
	if !ok || p.AccessToken == "" {
		return Session{}, false
	}
	return Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		User:         p.User,
	}, true
}

// ClearSession removes the session triple from the named profile but keeps
// the profile itself (its server URL survives logout). Clearing a profile
// that does not exist or is already empty is a no-op.
func (c *Config) ClearSession(name string) error {
	p, ok := c.Profiles[c.profileName(name)]
	if !ok {
		return nil
	}
	p.AccessToken = ""
	p.RefreshToken = ""
	p.User = ""
	return c.Save()
}

func (c *Config) GetProfile(name string) (*Profile, error) {
	name = c.profileName(name)
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}
	return profile, nil
}

func (c *Config) RemoveProfile(name string) error {
	name = c.profileName(name)
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// ServerURL resolves the backend URL for a profile, falling back to the
// environment-driven default when the profile has none.
func (c *Config) ServerURL(name string, settings *Settings) string {
	if p, ok := c.Profiles[c.profileName(name)]; ok && p.ServerURL != "" {
		return p.ServerURL
	}
	return settings.ServerURL
}

func (c *Config) profileName(name string) string {
	if name == "" {
		return c.CurrentProfile
	}
	return name
}

// Settings are ambient, non-persisted knobs resolved from defaults and
// RADDCTL_* environment variables.
type Settings struct {
	ServerURL   string
	HTTPTimeout time.Duration
	LogLevel    string
}

func LoadSettings() *Settings {
	v := viper.New()
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("RADDCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Settings{
		ServerURL:   v.GetString("server_url"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		LogLevel:    v.GetString("log_level"),
	}
}
