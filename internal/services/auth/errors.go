package auth

import "errors"

var (
	ErrUserAlreadyExists  = errors.New("user with that username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
