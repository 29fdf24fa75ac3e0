package console_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/console"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/internal/mockapi"
	"github.com/flexmedia-fm/autopass-console/users"
)

// testConfig satisfies config.Config without touching the environment.
type testConfig struct {
	baseURL    string
	cookieFile string
	failSoft   bool
}

func (c testConfig) GetAppName() string { return "autopass-console-test" }
func (c testConfig) GetEnv() string { return "test" }
func (c testConfig) GetCookieFile() string { return c.cookieFile }
func (c testConfig) GetPort() string { return ":0" }
func (c testConfig) GetAPIBaseURL() string { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetVerboseHTTP() bool { return false }
func (c testConfig) GetFailSoftLoaders() bool { return c.failSoft }
func (c testConfig) GetCoalescedRefresh() bool { return true }

func newApp(t *testing.T, failSoft bool) *console.App {
	t.Helper()
	backend := mockapi.New()
	tenant := backend.SeedTenant("Metro Transit Co")
	backend.SeedUser("admin@metro.example", "admin123", users.RoleAdmin, tenant)
	backend.SeedDevice("SN-0001", tenant, devices.StatusActive)
	backend.SeedDevice("SN-0002", tenant, devices.StatusMaintenance)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	app, err := console.New(testConfig{baseURL: srv.URL, failSoft: failSoft}, zerolog.Nop())
	require.NoError(t, err)
	return app
}

func login(t *testing.T, app *console.App) {
	t.Helper()
	require.NoError(t, app.Session.Login(context.Background(), authn.Credentials{
		Email: "admin@metro.example", Password: "admin123",
	}))
}

func TestApp_LoadersHydrateStores(t *testing.T) {
	app := newApp(t, true)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.LoadUsersPage(ctx))
	require.NoError(t, app.LoadDevicesPage(ctx))
	require.NoError(t, app.LoadATMsPage(ctx))
	require.NoError(t, app.LoadDashboard(ctx))

	require.Equal(t, 1, app.UsersStore.Total())
	require.Len(t, app.UsersStore.Users(), 1)
	require.Equal(t, 2, app.DevicesStore.Total())
	require.Len(t, app.DevicesStore.Devices(), 2)
	require.Equal(t, 0, app.ATMsStore.Total())

	stats := app.DashboardStore.Stats()
	require.Equal(t, 2, stats.TotalDevices)
	require.Equal(t, 1, stats.ActiveDevices)
	require.Equal(t, 1, stats.MaintenanceDevices)
}

func TestApp_FailSoftLoaderRendersEmpty(t *testing.T) {
	app := newApp(t, true)
	// Not logged in: every loader call comes back 401 with no refresh
	// token to fall back on.
	err := app.LoadDevicesPage(context.Background())

	require.NoError(t, err, "fail-soft swallows the loader error")
	require.Equal(t, 0, app.DevicesStore.Total())
	require.Empty(t, app.DevicesStore.Devices())
	require.NotEmpty(t, app.DevicesStore.Err())
}

func TestApp_FailHardLoaderPropagates(t *testing.T) {
	app := newApp(t, false)

	err := app.LoadDevicesPage(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "devices")
}

func TestApp_AuthFailureInvalidatesSession(t *testing.T) {
	app := newApp(t, false)
	login(t, app)
	require.True(t, app.Session.IsAuthenticated())

	// A garbage pair forces the 401-refresh-retry path to die, which fires
	// the auth-failure hook.
	app.Tokens.SetTokens("stale-access", "stale-refresh", false)

	require.Error(t, app.LoadUsersPage(context.Background()))
	require.False(t, app.Session.IsAuthenticated())
	require.False(t, app.Tokens.HasTokens())
	require.Equal(t, "session expired", app.Session.Err())
}

func TestApp_MemoryJarWhenNoCookieFile(t *testing.T) {
	app := newApp(t, true)
	login(t, app)

	require.True(t, app.Tokens.HasTokens())
	app.Jar.EndSession()

	// Only the refresh cookie is session-scoped; the access cookie carries
	// its 15-minute max-age and rides out the session end.
	_, ok := app.Tokens.RefreshToken()
	require.False(t, ok, "session-scoped refresh cookie dies with the jar session")
	_, ok = app.Tokens.AccessToken()
	require.True(t, ok)
	require.False(t, app.Tokens.HasTokens(), "a lone access token is not a usable pair")
}
