package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/dashboard"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/token"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, handler http.HandlerFunc) *dashboard.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := token.NewStore(cookie.NewMemoryJar(), srv.URL)
	tokens.SetTokens("access", "refresh", false)
	svc := devices.NewService(api.New(srv.URL, tokens))
	return dashboard.NewStore(svc, dashboard.WithNowTime(func() time.Time { return testNow }))
}

func TestStore_LoadMapsFleetStats(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/devices/statistics", r.URL.Path)
		json.NewEncoder(w).Encode(devices.Statistics{
			Total: 42,
			ByStatus: map[devices.Status]int{
				devices.StatusActive:      30,
				devices.StatusInactive:    7,
				devices.StatusMaintenance: 5,
			},
		})
	})

	require.NoError(t, store.Load(context.Background()))

	stats := store.Stats()
	require.Equal(t, 42, stats.TotalDevices)
	require.Equal(t, 30, stats.ActiveDevices)
	require.Equal(t, 7, stats.InactiveDevices)
	require.Equal(t, 5, stats.MaintenanceDevices)
	require.False(t, store.IsLoading())
	require.Empty(t, store.Err())
}

func TestStore_LoadFailureKeepsPreviousStats(t *testing.T) {
	fail := false
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "stats unavailable"})
			return
		}
		json.NewEncoder(w).Encode(devices.Statistics{
			Total:    10,
			ByStatus: map[devices.Status]int{devices.StatusActive: 10},
		})
	})

	require.NoError(t, store.Load(context.Background()))
	fail = true
	require.Error(t, store.Load(context.Background()))

	require.Equal(t, 10, store.Stats().TotalDevices, "stale stats beat a blank dashboard")
	require.NotEmpty(t, store.Err())
	require.False(t, store.IsLoading())
}

func TestStore_AlertFeedIsNewestFirst(t *testing.T) {
	store := dashboard.NewStore(nil, dashboard.WithNowTime(func() time.Time { return testNow }))

	first := store.AddAlert(dashboard.SeverityInfo, "deploy finished")
	second := store.AddAlert(dashboard.SeverityError, "device offline")
	require.NotEqual(t, first, second)

	alerts := store.Alerts()
	require.Len(t, alerts, 2)
	require.Equal(t, second, alerts[0].ID)
	require.Equal(t, dashboard.SeverityError, alerts[0].Severity)
	require.Equal(t, "device offline", alerts[0].Message)
	require.Equal(t, testNow, alerts[0].CreatedAt)
	require.Equal(t, first, alerts[1].ID)
}

func TestStore_RemoveAlert(t *testing.T) {
	store := dashboard.NewStore(nil)

	keep := store.AddAlert(dashboard.SeverityWarning, "low paper")
	drop := store.AddAlert(dashboard.SeverityInfo, "noise")

	store.RemoveAlert(drop)
	store.RemoveAlert("no-such-id")

	alerts := store.Alerts()
	require.Len(t, alerts, 1)
	require.Equal(t, keep, alerts[0].ID)
}
