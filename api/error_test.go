package api_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/schema"
)

func TestErrorMessage(t *testing.T) {
	apiErr := &api.Error{Message: "user has open sessions", Status: 409, Code: "CONFLICT"}
	fe := schema.FieldErrors{}
	fe.Required("email", "")
	valErr := fe.Err()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api error", apiErr, "user has open sessions"},
		{"wrapped api error", errors.Wrap(apiErr, "[UsersService.Delete]"), "user has open sessions"},
		{"validation error", valErr, "validation failed: email: email is required"},
		{"wrapped validation error", errors.Wrap(valErr, "[UsersService.Create]"), "validation failed: email: email is required"},
		{"plain error", errors.New("boom"), "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, api.ErrorMessage(tc.err))
		})
	}
}
