package auth

import "encoding/json"

// Identity is the authenticated user as the backend describes it.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		MongoID  string `json:"_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     Role   `json:"role"`
		RoleName string `json:"roleName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.ID = raw.ID
	if i.ID == "" {
		i.ID = raw.MongoID
	}
	i.Name = raw.Name
	i.Email = raw.Email
	i.Role = raw.Role
	if i.Role == "" {
		i.Role = NormalizeRole(raw.RoleName)
	}
	return nil
}

func (i Identity) IsStaff() bool {
	return i.Role.In(Staff...)
}
