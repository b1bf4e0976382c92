package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field is one input of a login method, with its client-side validation
// rules. Validation failures never reach the network.
type Field struct {
	ID       string
	Label    string
	Required bool
	MinLen   int
	Pattern  *regexp.Regexp
	Hint     string
	Secret   bool
}

// Method is a way of logging in. Exactly one method is active per attempt;
// each declares its own required fields.
type Method struct {
	ID     string
	Label  string
	Fields []Field
}

var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	employeeIDPattern = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{4,8}$`)
)

var methods = []Method{
	{
		ID:    "email",
		Label: "Email and password",
		Fields: []Field{
			{ID: "email", Label: "Email", Required: true, Pattern: emailPattern, Hint: "must be a valid email address"},
			{ID: "password", Label: "Password", Required: true, Secret: true},
		},
	},
	{
		ID:    "username",
		Label: "Username and password",
		Fields: []Field{
			{ID: "username", Label: "Username", Required: true, MinLen: 3},
			{ID: "password", Label: "Password", Required: true, Secret: true},
		},
	},
	{
		ID:    "employee-id",
		Label: "Employee ID and password",
		Fields: []Field{
			{ID: "employee_id", Label: "Employee ID", Required: true, Pattern: employeeIDPattern, Hint: "two letters followed by 4-8 digits"},
			{ID: "password", Label: "Password", Required: true, Secret: true},
		},
	},
}

func Methods() []Method { return methods }

func MethodByID(id string) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// FieldErrors maps field id to a validation message. It is the error type
// surfaced when submission is blocked client-side.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, e[id]))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Validate checks values against the method's rules. A nil return means the
// submission may proceed.
func (m Method) Validate(values map[string]string) FieldErrors {
	errs := make(FieldErrors)
	for _, f := range m.Fields {
		value := values[f.ID]
		if value == "" {
			if f.Required {
				errs[f.ID] = fmt.Sprintf("%s is required", f.Label)
			}
			continue
		}
		if f.MinLen > 0 && len(value) < f.MinLen {
			errs[f.ID] = fmt.Sprintf("%s must be at least %d characters", f.Label, f.MinLen)
			continue
		}
		if f.Pattern != nil && !f.Pattern.MatchString(value) {
			errs[f.ID] = fmt.Sprintf("%s is invalid: %s", f.Label, f.Hint)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Payload extracts exactly the method's declared fields from values,
// dropping anything a caller passed that the method does not own.
func (m Method) Payload(values map[string]string) map[string]string {
	payload := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		if v, ok := values[f.ID]; ok && v != "" {
			payload[f.ID] = v
		}
	}
	return payload
}
