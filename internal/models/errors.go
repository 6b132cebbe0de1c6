package models

import "errors"

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUnknownUser       = errors.New("unknown user")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("unauthenticated")

	ErrInvalidUsername      = errors.New("username must be 1-50 characters")
	ErrInvalidPasswordInput = errors.New("password must be 1-72 bytes")
	ErrInvalidTitle         = errors.New("title must be 1-100 characters")
	ErrInvalidDetails       = errors.New("details must be at most 500 characters")
)
