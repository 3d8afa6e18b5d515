package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("email already registered")
	ErrInvalidPIN        = errors.New("recovery PIN must be exactly 6 numeric digits")
	ErrInvalidRole       = errors.New("invalid user role")
)
