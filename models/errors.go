package models

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrConflict       = errors.New("conflicts with existing records")
	ErrValidation     = errors.New("invalid input")
	ErrInvalidMonth   = errors.New("invalid month, expected YYYY-MM")
)
