package validation

import (
	"strings"
	"testing"
)

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type passwordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=6,nefield=OldPassword"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(loginInput{Email: "a@b.com", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructMessages(t *testing.T) {
	err := Struct(loginInput{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email must be a valid email") || !strings.Contains(msg, "password is required") {
		t.Fatalf("unexpected message: %s", msg)
	}

	err = Struct(passwordInput{OldPassword: "secret1", NewPassword: "secret1"})
	if err == nil || !strings.Contains(err.Error(), "newPassword must differ from oldPassword") {
		t.Fatalf("unexpected error: %v", err)
	}
}
