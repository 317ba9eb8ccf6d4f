package authenticating

import "errors"

var (
	ErrAuthDisabled   = errors.New("auth: no secret configured")
	ErrInvalidToken   = errors.New("auth: invalid token")
	ErrExpiredToken   = errors.New("auth: token expired")
	ErrMissingSubject = errors.New("auth: subject is required")
)
