package entity

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDuplicateContact   = errors.New("email is already registered")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNoProjection       = errors.New("no interest projection to apply")
	ErrStaleProjection    = errors.New("balance changed since projection")
	ErrPersistence        = errors.New("persistence failure")
)
