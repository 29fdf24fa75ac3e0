package authn_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/internal/mockapi"
	"github.com/flexmedia-fm/autopass-console/token"
	"github.com/flexmedia-fm/autopass-console/users"
)

const (
	testEmail    = "admin@metro.example"
	testPassword = "admin123"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	backend := mockapi.New()
	tenant := backend.SeedTenant("Metro Transit Co")
	backend.SeedUser(testEmail, testPassword, users.RoleAdmin, tenant)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return srv
}

// session builds the full client-side stack over a file-backed jar, the
// way the console binary wires it. Calling it again with the same path
// models a browser restart.
func session(t *testing.T, baseURL, jarPath string) (*authn.SessionStore, *token.Store) {
	t.Helper()
	jar, err := cookie.NewFileJar(jarPath)
	require.NoError(t, err)
	tokens := token.NewStore(jar, baseURL)
	client := api.New(baseURL, tokens)
	svc := authn.NewService(client, tokens)
	return authn.NewSessionStore(svc, tokens), tokens
}

func TestSessionStore_LoginLoadsProfile(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword,
	}))

	require.True(t, store.IsAuthenticated())
	profile, ok := store.User()
	require.True(t, ok)
	require.Equal(t, testEmail, profile.Email)
	require.Equal(t, "ADMIN", profile.UserRole)
	require.True(t, tokens.HasTokens())
	require.False(t, store.IsLoading())
	require.Empty(t, store.Err())
}

func TestSessionStore_BadCredentials(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	err := store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: "wrong-password",
	})
	require.Error(t, err)
	require.False(t, store.IsAuthenticated())
	require.False(t, tokens.HasTokens())
	require.NotEmpty(t, store.Err())
}

func TestSessionStore_RememberMeSurvivesRestart(t *testing.T) {
	srv := newBackend(t)
	jarPath := filepath.Join(t.TempDir(), "cookies.json")

	store, _ := session(t, srv.URL, jarPath)
	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	}))

	// Restart: a fresh stack over the same cookie file.
	restarted, _ := session(t, srv.URL, jarPath)
	restarted.Initialize(context.Background())

	require.True(t, restarted.IsInitialized())
	require.True(t, restarted.IsAuthenticated())
	profile, ok := restarted.User()
	require.True(t, ok)
	require.Equal(t, testEmail, profile.Email)
}

func TestSessionStore_SessionOnlyLoginDiesWithRestart(t *testing.T) {
	srv := newBackend(t)
	jarPath := filepath.Join(t.TempDir(), "cookies.json")

	store, _ := session(t, srv.URL, jarPath)
	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: false,
	}))
	require.True(t, store.IsAuthenticated())

	restarted, tokens := session(t, srv.URL, jarPath)
	restarted.Initialize(context.Background())

	require.True(t, restarted.IsInitialized())
	require.False(t, restarted.IsAuthenticated(), "session-scoped refresh cookie did not survive")
	require.False(t, tokens.HasTokens())
}

func TestSessionStore_LogoutClearsEverything(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	}))
	store.Logout(context.Background())

	require.False(t, store.IsAuthenticated())
	require.False(t, tokens.HasTokens())
	_, ok := store.User()
	require.False(t, ok)
}

func TestSessionStore_RefreshRotatesPair(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	}))
	before, _ := tokens.RefreshToken()

	require.NoError(t, store.RefreshTokens(context.Background()))

	after, ok := tokens.RefreshToken()
	require.True(t, ok)
	require.NotEqual(t, before, after, "refresh token rotated")
	require.True(t, store.IsAuthenticated(), "session survives an explicit refresh")
}

func TestSessionStore_StaleRefreshTokenDropsSession(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	}))

	// A second login rotates server-side state, revoking this session's
	// refresh token.
	other, _ := session(t, srv.URL, filepath.Join(t.TempDir(), "other.json"))
	require.NoError(t, other.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	}))

	err := store.RefreshTokens(context.Background())
	require.Error(t, err)
	require.False(t, store.IsAuthenticated())
	require.False(t, tokens.HasTokens())
}

func TestSessionStore_InvalidateDropsSessionLocally(t *testing.T) {
	srv := newBackend(t)
	store, _ := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword,
	}))
	store.Invalidate()

	require.False(t, store.IsAuthenticated())
	require.Equal(t, "session expired", store.Err())
}

func TestSessionStore_ForgotAndResetFlow(t *testing.T) {
	srv := newBackend(t)
	store, _ := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	require.NoError(t, store.ForgotPassword(context.Background(), testEmail))

	err := store.ResetPassword(context.Background(), authn.ResetPassword{
		Token: "not-the-emailed-token", Password: "newpass1", ConfirmPassword: "newpass1",
	})
	require.Error(t, err, "unknown token is rejected")

	err = store.ResetPassword(context.Background(), authn.ResetPassword{
		Token: "t", Password: "newpass1", ConfirmPassword: "different",
	})
	require.Error(t, err, "mismatched confirmation is rejected client-side")
}

func TestTokenExpiry_ReadsExpWithoutVerifying(t *testing.T) {
	srv := newBackend(t)
	store, tokens := session(t, srv.URL, filepath.Join(t.TempDir(), "cookies.json"))

	start := time.Now()
	require.NoError(t, store.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword,
	}))

	access, ok := tokens.AccessToken()
	require.True(t, ok)

	exp, err := authn.TokenExpiry(access)
	require.NoError(t, err)
	require.WithinDuration(t, start.Add(15*time.Minute), exp, time.Minute)

	_, err = authn.TokenExpiry("not-a-jwt")
	require.Error(t, err)
}
