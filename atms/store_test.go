package atms_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/atms"
	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/internal/mockapi"
	"github.com/flexmedia-fm/autopass-console/tenants"
	"github.com/flexmedia-fm/autopass-console/token"
	"github.com/flexmedia-fm/autopass-console/users"
)

type fixture struct {
	backend *mockapi.Server
	tenant  tenants.Tenant
	store   *atms.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := mockapi.New()
	tenant := backend.SeedTenant("Metro Transit Co")
	backend.SeedUser("admin@metro.example", "admin123", users.RoleAdmin, tenant)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	tokens := token.NewStore(cookie.NewMemoryJar(), srv.URL)
	client := api.New(srv.URL, tokens)
	auth := authn.NewService(client, tokens)
	_, err := auth.Login(context.Background(), authn.Credentials{
		Email: "admin@metro.example", Password: "admin123",
	})
	require.NoError(t, err)

	return fixture{
		backend: backend,
		tenant:  tenant,
		store:   atms.NewStore(atms.NewService(client)),
	}
}

func TestStore_LoadFiltersByTenantAndStatus(t *testing.T) {
	f := newFixture(t)
	other := f.backend.SeedTenant("Coastal Lines SA")
	f.backend.SeedATM("ATM-001", "Kiosk 1", f.tenant, atms.StatusActive)
	f.backend.SeedATM("ATM-002", "Kiosk 2", f.tenant, atms.StatusMaintenance)
	f.backend.SeedATM("ATM-900", "Harbor Kiosk", other, atms.StatusActive)

	require.NoError(t, f.store.Load(context.Background(), atms.Query{TenantID: f.tenant.ID}))
	require.Equal(t, 2, f.store.Total())

	// Status narrows further; the tenant filter sticks via shallow merge.
	require.NoError(t, f.store.Load(context.Background(), atms.Query{Status: atms.StatusMaintenance}))
	rows := f.store.ATMs()
	require.Len(t, rows, 1)
	require.Equal(t, "ATM-002", rows[0].Code)
	require.Equal(t, f.tenant.ID, f.store.Filters().TenantID)
}

func TestStore_ToggleActiveRefreshesList(t *testing.T) {
	f := newFixture(t)
	seeded := f.backend.SeedATM("ATM-001", "Kiosk 1", f.tenant, atms.StatusActive)

	require.NoError(t, f.store.Refresh(context.Background()))
	require.True(t, f.store.ATMs()[0].IsActive)

	require.NoError(t, f.store.ToggleActive(context.Background(), seeded.ID, false))

	rows := f.store.ATMs()
	require.Len(t, rows, 1)
	require.False(t, rows[0].IsActive, "list reflects the server state after refetch")
	require.False(t, f.store.IsLoading())
	require.Empty(t, f.store.Err())
}

func TestStore_UpdateStatusOnUnknownIDRecordsError(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedATM("ATM-001", "Kiosk 1", f.tenant, atms.StatusActive)
	require.NoError(t, f.store.Refresh(context.Background()))

	err := f.store.UpdateStatus(context.Background(), "no-such-id", atms.StatusMaintenance)

	require.Error(t, err)
	require.Equal(t, "atm not found", f.store.Err(), "error surface carries the backend message only")
	require.Len(t, f.store.ATMs(), 1, "failed mutation leaves the page alone")
	require.Equal(t, atms.StatusActive, f.store.ATMs()[0].Status)
}

func TestStore_AddThenRemove(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Add(context.Background(), atms.Create{
		Code:     "ATM-010",
		Name:     "Plaza Kiosk",
		TenantID: f.tenant.ID,
		Status:   atms.StatusInactive,
	}))
	rows := f.store.ATMs()
	require.Len(t, rows, 1)
	require.Equal(t, "ATM-010", rows[0].Code)

	require.NoError(t, f.store.Remove(context.Background(), rows[0].ID))
	require.Empty(t, f.store.ATMs())
	require.Zero(t, f.store.Total())
}
