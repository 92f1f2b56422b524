package identity

import "errors"

// Sentinel errors for the identity module.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrLastAdmin          = errors.New("cannot remove the last admin")
)
