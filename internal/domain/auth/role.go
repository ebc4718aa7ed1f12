package auth

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

var Roles = []Role{RoleAdmin, RoleHR, RoleEmployee}

// Staff are the roles that manage other people's records.
var Staff = []Role{RoleAdmin, RoleHR}

// NormalizeRole maps any spelling of a known role to its canonical value, and
// anything else to the empty role.
func NormalizeRole(raw string) Role {
	candidate := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, r := range Roles {
		if candidate == r {
			return r
		}
	}
	return ""
}

func (r Role) Valid() bool {
	return NormalizeRole(string(r)) != ""
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r != "" && r == candidate {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts "HR" as well as {"name":"HR"}.
func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = NormalizeRole(s)
	case '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = NormalizeRole(obj.Name)
	default:
		*r = ""
	}
	return nil
}
