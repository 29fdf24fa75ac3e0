package schema_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/schema"
)

func TestFieldErrors_EmptyIsNil(t *testing.T) {
	fe := schema.FieldErrors{}
	require.NoError(t, fe.Err())
}

func TestFieldErrors_FirstFailureWins(t *testing.T) {
	fe := schema.FieldErrors{}
	fe.Required("email", "")
	fe.Email("email", "")

	err := fe.Err()
	require.Error(t, err)

	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "email is required", ve.Fields["email"])
}

func TestFieldErrors_Rules(t *testing.T) {
	fe := schema.FieldErrors{}
	fe.Required("name", "  ")
	fe.MinLen("password", "abc", 6)
	fe.Email("contact", "not-an-email")
	fe.OneOf("status", "UNKNOWN", "ACTIVE", "INACTIVE")
	fe.UUID("id", "nope")
	fe.NotZeroTime("createdAt", time.Time{})
	fe.Min("limit", 0, 1)
	fe.Range("page", 0, 1, 100)
	fe.FloatRange("lat", 123.4, -90, 90)

	var ve *schema.ValidationError
	require.ErrorAs(t, fe.Err(), &ve)
	require.Len(t, ve.Fields, 9)
}

func TestFieldErrors_ValidInputPasses(t *testing.T) {
	fe := schema.FieldErrors{}
	fe.Required("name", "Metro")
	fe.MinLen("password", "secret1", 6)
	fe.Email("contact", "ops@metro.example")
	fe.OneOf("status", "ACTIVE", "ACTIVE", "INACTIVE")
	fe.UUID("id", "8f2b4a1c-1b2d-4e5f-9a0b-1c2d3e4f5a6b")
	fe.NotZeroTime("createdAt", time.Now())
	fe.FloatRange("lat", -23.55, -90, 90)
	require.NoError(t, fe.Err())
}

func TestValidationError_MessageIsSortedAndReadable(t *testing.T) {
	fe := schema.FieldErrors{}
	fe.Required("login", "")
	fe.Required("email", "")

	err := fe.Err()
	require.Equal(t, "validation failed: email: email is required; login: login is required", err.Error())

	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "email is required", ve.First())
}

func TestIsValidationError_SeesThroughWrapping(t *testing.T) {
	fe := schema.FieldErrors{}
	fe.Required("id", "")
	wrapped := errors.Wrap(fe.Err(), "[UsersService.FindAll]")

	require.True(t, schema.IsValidationError(wrapped))
	require.False(t, schema.IsValidationError(errors.New("network down")))
}
