// Package token persists the console's credential pair — a short-lived
// access token and a long-lived refresh token — with the same cookie
// semantics the web console uses.
package token

import (
	"strings"
	"time"

	"github.com/flexmedia-fm/autopass-console/cookie"
)

const (
	accessCookieName  = "fm-autopass-access-token"
	refreshCookieName = "fm-autopass-refresh-token"

	// AccessTokenTTL is the fixed lifetime of the access cookie.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the lifetime of the refresh cookie when the user
	// asked to be remembered. Otherwise the refresh cookie is
	// session-scoped.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Store manages the credential pair on top of a cookie jar. The pair is
// always written and cleared together; UpdateAccessToken is the one
// deliberate exception, used after a silent refresh that did not rotate
// the refresh token.
type Store struct {
	jar     cookie.Jar
	secure  bool
	nowTime func() time.Time
}

// StoreOption defines a function type to modify a Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore creates a token store writing through jar. Cookies are marked
// secure when the API base URL uses encrypted transport.
func NewStore(jar cookie.Jar, apiBaseURL string, options ...StoreOption) *Store {
	s := &Store{
		jar:     jar,
		secure:  strings.HasPrefix(strings.ToLower(apiBaseURL), "https:"),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SetTokens stores the pair. The access cookie always carries the fixed
// 15 minute max-age; the refresh cookie is persisted for 7 days when
// persist is true and is a session cookie otherwise.
func (s *Store) SetTokens(accessToken, refreshToken string, persist bool) {
	now := s.nowTime()
	s.jar.Set(cookie.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		Expires:  now.Add(AccessTokenTTL),
		Secure:   s.secure,
		SameSite: cookie.SameSiteLax,
		Path:     "/",
	})
	refresh := cookie.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Secure:   s.secure,
		SameSite: cookie.SameSiteLax,
		Path:     "/",
	}
	if persist {
		refresh.Expires = now.Add(RefreshTokenTTL)
	} else {
		refresh.Session = true
	}
	s.jar.Set(refresh)
}

// UpdateAccessToken rewrites only the access cookie with the fixed
// max-age, leaving the refresh cookie untouched.
func (s *Store) UpdateAccessToken(accessToken string) {
	s.jar.Set(cookie.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		Expires:  s.nowTime().Add(AccessTokenTTL),
		Secure:   s.secure,
		SameSite: cookie.SameSiteLax,
		Path:     "/",
	})
}

// AccessToken returns the stored access token, or ok=false when it is
// absent or expired.
func (s *Store) AccessToken() (string, bool) {
	c, ok := s.jar.Get(accessCookieName)
	if !ok {
		return "", false
	}
	return c.Value, true
}

// RefreshToken returns the stored refresh token, or ok=false when it is
// absent or expired.
func (s *Store) RefreshToken() (string, bool) {
	c, ok := s.jar.Get(refreshCookieName)
	if !ok {
		return "", false
	}
	return c.Value, true
}

// ClearTokens deletes both cookies by writing them already expired,
// regardless of how they were originally persisted.
func (s *Store) ClearTokens() {
	expired := s.nowTime().Add(-time.Hour)
	s.jar.Set(cookie.Cookie{Name: accessCookieName, Expires: expired, Path: "/"})
	s.jar.Set(cookie.Cookie{Name: refreshCookieName, Expires: expired, Path: "/"})
}

// HasTokens reports whether BOTH cookies are currently present. A partial
// pair reports false, sending the caller down the no-session path instead
// of refreshing from a half-valid state.
func (s *Store) HasTokens() bool {
	_, hasAccess := s.jar.Get(accessCookieName)
	_, hasRefresh := s.jar.Get(refreshCookieName)
	return hasAccess && hasRefresh
}
