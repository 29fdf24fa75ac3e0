package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/token"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*token.Store, *cookie.MemoryJar) {
	t.Helper()
	jar := cookie.NewMemoryJar(cookie.WithNowTime(func() time.Time { return testNow }))
	store := token.NewStore(jar, "https://api.example.com", token.WithNowTime(func() time.Time { return testNow }))
	return store, jar
}

func TestStore_SetAndReadBack(t *testing.T) {
	store, _ := newStore(t)

	store.SetTokens("access-1", "refresh-1", true)

	access, ok := store.AccessToken()
	require.True(t, ok)
	require.Equal(t, "access-1", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
	require.True(t, store.HasTokens())
}

func TestStore_ClearRemovesBoth(t *testing.T) {
	store, _ := newStore(t)

	store.SetTokens("access-1", "refresh-1", true)
	store.ClearTokens()

	_, ok := store.AccessToken()
	require.False(t, ok)
	_, ok = store.RefreshToken()
	require.False(t, ok)
	require.False(t, store.HasTokens())
}

func TestStore_PartialPairReportsNoSession(t *testing.T) {
	store, jar := newStore(t)

	store.SetTokens("access-1", "refresh-1", true)
	jar.Delete("fm-autopass-access-token")

	require.False(t, store.HasTokens())
	_, ok := store.RefreshToken()
	require.True(t, ok, "refresh token itself is still readable")
}

func TestStore_AccessTokenExpiresAfter15Minutes(t *testing.T) {
	now := testNow
	jar := cookie.NewMemoryJar(cookie.WithNowTime(func() time.Time { return now }))
	store := token.NewStore(jar, "http://localhost", token.WithNowTime(func() time.Time { return now }))

	store.SetTokens("access-1", "refresh-1", true)

	now = testNow.Add(14 * time.Minute)
	_, ok := store.AccessToken()
	require.True(t, ok)

	now = testNow.Add(16 * time.Minute)
	_, ok = store.AccessToken()
	require.False(t, ok)
	_, ok = store.RefreshToken()
	require.True(t, ok, "refresh cookie has its own 7 day lifetime")
}

func TestStore_RememberMeControlsRefreshLifetime(t *testing.T) {
	store, jar := newStore(t)

	store.SetTokens("access-1", "refresh-1", false)
	_, ok := store.RefreshToken()
	require.True(t, ok)

	// Browser restart: session cookies are dropped, and the refresh token
	// was session-scoped because the user did not ask to be remembered.
	jar.EndSession()
	_, ok = store.RefreshToken()
	require.False(t, ok)

	store.SetTokens("access-2", "refresh-2", true)
	jar.EndSession()
	_, ok = store.RefreshToken()
	require.True(t, ok)
}

func TestStore_UpdateAccessTokenKeepsRefresh(t *testing.T) {
	store, _ := newStore(t)

	store.SetTokens("access-1", "refresh-1", true)
	store.UpdateAccessToken("access-2")

	access, ok := store.AccessToken()
	require.True(t, ok)
	require.Equal(t, "access-2", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
}

func TestStore_SecureFlagFollowsScheme(t *testing.T) {
	jar := cookie.NewMemoryJar(cookie.WithNowTime(func() time.Time { return testNow }))
	store := token.NewStore(jar, "https://api.example.com", token.WithNowTime(func() time.Time { return testNow }))
	store.SetTokens("a", "r", true)

	c, ok := jar.Get("fm-autopass-access-token")
	require.True(t, ok)
	require.True(t, c.Secure)

	plainJar := cookie.NewMemoryJar(cookie.WithNowTime(func() time.Time { return testNow }))
	plain := token.NewStore(plainJar, "http://localhost:8081", token.WithNowTime(func() time.Time { return testNow }))
	plain.SetTokens("a", "r", true)

	c, ok = plainJar.Get("fm-autopass-access-token")
	require.True(t, ok)
	require.False(t, c.Secure)
}
