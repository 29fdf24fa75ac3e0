// Package errors holds the sentinel errors the console services return so
// callers can branch on them with errors.Is.
package errors

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoRefreshToken     = errors.New("refresh token not found")
	ErrInvalidResponse    = errors.New("invalid response shape")
)
