// Package authn implements the console's session lifecycle: credential
// exchange, profile lookup, token refresh and the password-recovery flow.
package authn

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	apperrors "github.com/flexmedia-fm/autopass-console/internal/errors"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Credentials is the login payload. RememberMe controls whether the
// refresh token survives the session.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (c Credentials) Validate() error {
	fe := schema.FieldErrors{}
	fe.Email("email", c.Email)
	fe.Required("password", c.Password)
	return fe.Err()
}

// TokenPair is what the backend issues on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t TokenPair) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("access_token", t.AccessToken)
	fe.Required("refresh_token", t.RefreshToken)
	return fe.Err()
}

// Profile is the authenticated identity the backend derives from the
// access token.
type Profile struct {
	UserID     string  `json:"userId"`
	Email      string  `json:"email"`
	TenantID   string  `json:"tenantId"`
	TenantRole *string `json:"tenantRole,omitempty"`
	UserRole   string  `json:"userRole"`
	IsActive   bool    `json:"isActive"`
}

func (p Profile) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("userId", p.UserID)
	fe.Email("email", p.Email)
	fe.Required("userRole", p.UserRole)
	return fe.Err()
}

// ResetPassword is the recovery payload carrying the emailed token.
type ResetPassword struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ResetPassword) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("token", r.Token)
	fe.MinLen("password", r.Password, 6)
	if r.ConfirmPassword != r.Password {
		fe["confirmPassword"] = "passwords do not match"
	}
	return fe.Err()
}

// TokenExpiry reads the exp claim out of a JWT without verifying the
// signature. The console holds no signing keys; this is a local hint for
// deciding whether a refresh is worth attempting, never an authorization
// check.
func TokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "[authn.TokenExpiry]")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.Wrap(apperrors.ErrInvalidResponse, "[authn.TokenExpiry] no exp claim")
	}
	return exp.Time, nil
}
