package authn

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	apperrors "github.com/flexmedia-fm/autopass-console/internal/errors"
	"github.com/flexmedia-fm/autopass-console/token"
)

// Service talks to the /auth endpoints and keeps the token store in step
// with what the backend issues.
type Service struct {
	api    *api.Client
	tokens *token.Store
}

func NewService(client *api.Client, tokens *token.Store) *Service {
	return &Service{api: client, tokens: tokens}
}

// Login exchanges credentials for a token pair and stores it. The refresh
// token is persisted for seven days when rememberMe is set and is
// session-scoped otherwise.
func (s *Service) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	if err := creds.Validate(); err != nil {
		return TokenPair{}, errors.Wrap(err, "[AuthService.Login]")
	}
	var pair TokenPair
	if err := s.api.Post(ctx, "/auth/login", creds, &pair); err != nil {
		if api.IsStatus(err, 401) {
			return TokenPair{}, errors.Wrap(apperrors.ErrInvalidCredentials, "[AuthService.Login]")
		}
		return TokenPair{}, errors.Wrap(err, "[AuthService.Login]")
	}
	if err := pair.Validate(); err != nil {
		return TokenPair{}, errors.Wrap(err, "[AuthService.Login]")
	}
	s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken, creds.RememberMe)
	return pair, nil
}

// Profile fetches the identity behind the current access token.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := s.api.Get(ctx, "/auth/profile", nil, &profile); err != nil {
		return Profile{}, errors.Wrap(err, "[AuthService.Profile]")
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, errors.Wrap(err, "[AuthService.Profile]")
	}
	return profile, nil
}

// Refresh explicitly rotates the token pair using the stored refresh
// token. A rotated refresh token is always persisted, matching the
// backend's expectation that rotation extends the session.
func (s *Service) Refresh(ctx context.Context) (TokenPair, error) {
	refresh, ok := s.tokens.RefreshToken()
	if !ok {
		return TokenPair{}, errors.Wrap(apperrors.ErrNoRefreshToken, "[AuthService.Refresh]")
	}
	var pair TokenPair
	body := map[string]string{"refresh_token": refresh}
	if err := s.api.Post(ctx, "/auth/refresh", body, &pair); err != nil {
		s.tokens.ClearTokens()
		return TokenPair{}, errors.Wrap(err, "[AuthService.Refresh]")
	}
	if pair.AccessToken == "" {
		s.tokens.ClearTokens()
		return TokenPair{}, errors.Wrap(apperrors.ErrInvalidResponse, "[AuthService.Refresh] missing access token")
	}
	if pair.RefreshToken != "" {
		s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken, true)
	} else {
		s.tokens.UpdateAccessToken(pair.AccessToken)
	}
	return pair, nil
}

// Verify asks the backend whether the current access token is still good.
func (s *Service) Verify(ctx context.Context) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := s.api.Get(ctx, "/auth/verify", nil, &out); err != nil {
		if api.IsStatus(err, 401) {
			return false, nil
		}
		return false, errors.Wrap(err, "[AuthService.Verify]")
	}
	return out.Valid, nil
}

// ForgotPassword starts the recovery flow for the given email.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	fe := map[string]string{"email": email}
	if err := s.api.Post(ctx, "/auth/forgot-password", fe, nil); err != nil {
		return errors.Wrap(err, "[AuthService.ForgotPassword]")
	}
	return nil
}

// ResetPassword completes the recovery flow with the emailed token.
func (s *Service) ResetPassword(ctx context.Context, payload ResetPassword) error {
	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, "[AuthService.ResetPassword]")
	}
	if err := s.api.Post(ctx, "/auth/reset-password", payload, nil); err != nil {
		return errors.Wrap(err, "[AuthService.ResetPassword]")
	}
	return nil
}

// Logout revokes the session server-side and clears the stored pair. The
// local clear happens even when the server call fails.
func (s *Service) Logout(ctx context.Context) error {
	err := s.api.Post(ctx, "/auth/logout", nil, nil)
	s.tokens.ClearTokens()
	if err != nil {
		return errors.Wrap(err, "[AuthService.Logout]")
	}
	return nil
}
