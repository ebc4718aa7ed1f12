package session

import (
	"encoding/json"

	"hrconsole/internal/domain/auth"
)

// Storage keys. Only the session store writes them.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

type State int

const (
	Unresolved State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is an immutable copy of the session handed to observers and the guard.
type Snapshot struct {
	State    State         `json:"state"`
	Identity auth.Identity `json:"identity"`
	Token    string        `json:"-"`
}

func (s Snapshot) Authenticated() bool {
	return s.State == Authenticated
}

func (s Snapshot) Role() auth.Role {
	if s.State != Authenticated {
		return ""
	}
	return s.Identity.Role
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleName string `json:"roleName" validate:"required,oneof=ADMIN HR EMPLOYEE"`
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,nefield=OldPassword"`
}

type loginResponse struct {
	AccessToken string          `json:"accessToken"`
	Token       string          `json:"token"`
	User        json.RawMessage `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
