package users

import "hrconsole/internal/domain/auth"

type PendingUser struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           auth.Role `json:"role"`
	ApprovalStatus string    `json:"approvalStatus"`
	CreatedAt      string    `json:"createdAt,omitempty"`
}

func (u PendingUser) RecordID() string { return u.ID }

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type messageResponse struct {
	Message string `json:"message"`
}
