package devices_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/internal/mockapi"
	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/tenants"
	"github.com/flexmedia-fm/autopass-console/token"
	"github.com/flexmedia-fm/autopass-console/users"
)

const (
	testEmail    = "admin@metro.example"
	testPassword = "admin123"
)

type fixture struct {
	backend *mockapi.Server
	tenant  tenants.Tenant
	svc     *devices.Service
}

func newFixture(t *testing.T, opts ...devices.ServiceOption) *fixture {
	t.Helper()

	backend := mockapi.New()
	tenant := backend.SeedTenant("Metro Transit Co")
	backend.SeedUser(testEmail, testPassword, users.RoleAdmin, tenant)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	tokens := token.NewStore(cookie.NewMemoryJar(), srv.URL)
	client := api.New(srv.URL, tokens)
	auth := authn.NewService(client, tokens)
	_, err := auth.Login(context.Background(), authn.Credentials{
		Email: testEmail, Password: testPassword, RememberMe: true,
	})
	require.NoError(t, err)

	return &fixture{
		backend: backend,
		tenant:  tenant,
		svc:     devices.NewService(client, opts...),
	}
}

func TestService_PaginatedActiveListing(t *testing.T) {
	fx := newFixture(t)

	for i := 0; i < 25; i++ {
		fx.backend.SeedDevice(fmt.Sprintf("SN-ACTIVE-%04d", i), fx.tenant, devices.StatusActive)
	}
	for i := 0; i < 5; i++ {
		fx.backend.SeedDevice(fmt.Sprintf("SN-IDLE-%04d", i), fx.tenant, devices.StatusInactive)
	}

	page, err := fx.svc.FindByStatus(context.Background(), devices.StatusActive,
		devices.Query{Query: pagination.Query{Page: 1, Limit: 20}})
	require.NoError(t, err)

	require.Len(t, page.Data, 20)
	require.Equal(t, 25, page.Total)
	require.Equal(t, 1, page.Page)
	for _, d := range page.Data {
		require.Equal(t, devices.StatusActive, d.Status)
	}

	rest, err := fx.svc.FindByStatus(context.Background(), devices.StatusActive,
		devices.Query{Query: pagination.Query{Page: 2, Limit: 20}})
	require.NoError(t, err)
	require.Len(t, rest.Data, 5)
}

func TestService_CreateAndFetchRoundTrip(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.Create(context.Background(), devices.Create{
		SerialNumber: "SN-123456",
		TenantID:     fx.tenant.ID,
		Status:       devices.StatusNotInstalled,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := fx.svc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "SN-123456", got.SerialNumber)
	require.Equal(t, devices.StatusNotInstalled, got.Status)
}

func TestService_RecordMaintenanceStampsDate(t *testing.T) {
	maintenanceAt := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	fx := newFixture(t, devices.WithNowTime(func() time.Time { return maintenanceAt }))

	seeded := fx.backend.SeedDevice("SN-777777", fx.tenant, devices.StatusActive)

	updated, err := fx.svc.RecordMaintenance(context.Background(), seeded.ID, utils.Ptr("fan bearing noise"))
	require.NoError(t, err)
	require.Equal(t, devices.StatusMaintenance, updated.Status)
	require.NotNil(t, updated.LastMaintenanceDate)
	require.True(t, updated.LastMaintenanceDate.Equal(maintenanceAt))
	require.Equal(t, "fan bearing noise", *updated.Notes)
}

func TestService_MarkInstalledThenActivate(t *testing.T) {
	installedAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	fx := newFixture(t, devices.WithNowTime(func() time.Time { return installedAt }))

	seeded := fx.backend.SeedDevice("SN-888888", fx.tenant, devices.StatusNotInstalled)

	installed, err := fx.svc.MarkInstalled(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, devices.StatusInstalled, installed.Status)
	require.NotNil(t, installed.InstallationDate)

	active, err := fx.svc.Activate(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, devices.StatusActive, active.Status)
}

func TestService_Statistics(t *testing.T) {
	fx := newFixture(t)

	fx.backend.SeedDevice("SN-000001", fx.tenant, devices.StatusActive)
	fx.backend.SeedDevice("SN-000002", fx.tenant, devices.StatusActive)
	fx.backend.SeedDevice("SN-000003", fx.tenant, devices.StatusMaintenance)

	stats, err := fx.svc.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 2, stats.ByStatus[devices.StatusActive])
	require.Equal(t, 1, stats.ByStatus[devices.StatusMaintenance])
}
