package client

import (
	"encoding/json"
	"time"
)

// User is the backend account record. Role normalization happens here, at
// the JSON boundary: downstream code only ever sees role names as strings.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Roles       RoleList `json:"roles,omitempty"`
	IsSuperuser bool     `json:"is_superuser,omitempty"`
	IsStaff     bool     `json:"is_staff,omitempty"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions,omitempty"`
	LastLogin   string   `json:"last_login,omitempty"`
	DateJoined  string   `json:"date_joined,omitempty"`
}

// RoleList accepts the two role serializations the backend has shipped over
// time, a bare name ("ADMIN") or an object ({"name": "ADMIN"}), and
// flattens both into plain names. Items of any other shape are dropped.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			if name != "" {
				names = append(names, name)
			}
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Name != "" {
			names = append(names, obj.Name)
		}
	}

	*r = names
	return nil
}

// Role is a catalog entry from the role listing endpoint.
type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	UserCount   int      `json:"user_count,omitempty"`
}

type Permission struct {
	ID       int64  `json:"id"`
	Codename string `json:"codename"`
	Name     string `json:"name"`
}

// UserSession is an active backend session, as shown in the monitoring
// console.
type UserSession struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	UserEmail    string    `json:"user_email,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity,omitempty"`
	Active       bool      `json:"active"`
}

type SecurityAlert struct {
	ID           string    `json:"id"`
	Severity     string    `json:"severity"`
	Category     string    `json:"category,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged bool      `json:"acknowledged"`
}

type ActivityEvent struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
