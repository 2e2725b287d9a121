package service

import "errors"

var (
	ErrMissingFields      = errors.New("missing parameters")
	ErrDuplicateEmail     = errors.New("this email has already been registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("this token is invalid")
	ErrForbidden          = errors.New("you are not authorized to perform this action")
	ErrUnknownUser        = errors.New("this user is invalid or does not exist")
	ErrMissingCredential  = errors.New("authorization credential missing, authentication was skipped")
	ErrInternal           = errors.New("internal error")
)
