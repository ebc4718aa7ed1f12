package session

import "errors"

const (
	msgLoginFailed    = "Login failed"
	msgTokenMissing   = "Login failed: Token missing in response"
	msgSignupFailed   = "Signup failed"
	msgRegisterFailed = "Registration failed. Please try again."
	msgPasswordFailed = "Failed to change password"
	msgNotSignedIn    = "You are not signed in"
)

var ErrNoStorage = errors.New("session storage is required")
