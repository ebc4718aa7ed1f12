// Package users manages sign-ups waiting for an administrator's decision.
package users

import (
	"context"
	"errors"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

var Spec = resource.Spec{
	Name:      "pending_users",
	Path:      "/users",
	Roles:     auth.Staff,
	WritePerm: auth.PermUsersApprove,
	Messages: resource.Messages{
		Fetch:  "Failed to fetch pending users",
		Update: "Failed to update user",
	},
}

const (
	msgApprove = "Failed to approve user"
	msgReject  = "Failed to reject user"
)

type Service struct {
	*resource.Store[PendingUser]
	api resource.API
}

func New(deps resource.Deps) *Service {
	return &Service{Store: resource.NewFrom[PendingUser](Spec, deps), api: deps.API}
}

func (s *Service) FetchPending(ctx context.Context) ([]PendingUser, error) {
	return s.FetchPath(ctx, Spec.Path+"/pending", nil)
}

func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.FetchPending(ctx)
	if errors.Is(err, resource.ErrStale) {
		return nil
	}
	return err
}

// Approve lets the account sign in and drops it from the pending list.
func (s *Service) Approve(ctx context.Context, id string) (string, error) {
	return s.decide(ctx, id, "approve", struct{}{}, msgApprove)
}

func (s *Service) Reject(ctx context.Context, id, reason string) (string, error) {
	body := rejectRequest{Reason: reason}
	if err := validation.Struct(body); err != nil {
		return "", result.Validation(err)
	}
	return s.decide(ctx, id, "reject", body, msgReject)
}

func (s *Service) decide(ctx context.Context, id, action string, body any, fallback string) (string, error) {
	if id == "" {
		return "", result.Validation(resource.ErrMissingID)
	}
	if err := s.Require(Spec.WritePerm, fallback); err != nil {
		return "", err
	}
	var resp messageResponse
	if err := s.api.Put(ctx, s.ItemPath(id)+"/"+action, body, &resp); err != nil {
		return "", result.FromError(err, fallback)
	}
	s.Patch(func(items []PendingUser) []PendingUser { return resource.RemoveByID(items, id) })
	return resp.Message, nil
}
