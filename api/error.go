package api

import (
	"errors"
	"fmt"

	"github.com/flexmedia-fm/autopass-console/schema"
)

// Error is the uniform shape every transport failure is wrapped into
// before it reaches a caller. Status is zero when the request never got a
// response (network failure, timeout).
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

// ErrorMessage extracts the display message from err: the backend message
// for an *Error, the field summary for a *schema.ValidationError, and
// err.Error() otherwise. Wrapping context accumulated on the way up is not
// part of the message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}

// IsStatus reports whether err carries an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
