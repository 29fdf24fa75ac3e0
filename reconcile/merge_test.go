package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/reconcile"
)

type account struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	IsActive   bool      `json:"isActive"`
	TenantID   string    `json:"tenantId"`
	TenantName string    `json:"tenantName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type accountPatch struct {
	Email      *string `json:"email,omitempty"`
	Name       *string `json:"name,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	TenantID   *string `json:"tenantId,omitempty"`
	TenantName *string `json:"tenantName,omitempty"`
}

var protected = []string{"id", "tenantId", "tenantName", "createdAt"}

func baseAccount() account {
	return account{
		ID:         "u-1",
		Email:      "ops@metro.example",
		Name:       utils.Ptr("Ops"),
		IsActive:   true,
		TenantID:   "t-1",
		TenantName: "Metro Transit Co",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestApply_OverlaysOnlySetFields(t *testing.T) {
	got := reconcile.Apply(baseAccount(), accountPatch{
		Email:    utils.Ptr("new@metro.example"),
		IsActive: utils.Ptr(false),
	})

	require.Equal(t, "new@metro.example", got.Email)
	require.False(t, got.IsActive)
	require.Equal(t, "u-1", got.ID)
	require.Equal(t, "Ops", *got.Name)
	require.Equal(t, "t-1", got.TenantID)
}

func TestApply_FalseIsAnIntendedValue(t *testing.T) {
	// A *bool pointing at false is set; a nil *bool is absent. This is
	// why partials carry pointers instead of reusing the entity type.
	got := reconcile.Apply(baseAccount(), accountPatch{IsActive: utils.Ptr(false)})
	require.False(t, got.IsActive)

	got = reconcile.Apply(baseAccount(), accountPatch{})
	require.True(t, got.IsActive)
}

func TestMerge_ServerWins(t *testing.T) {
	original := baseAccount()
	server := baseAccount()
	server.Email = "canonical@metro.example"
	server.IsActive = false

	got := reconcile.Merge(original, accountPatch{Email: utils.Ptr("wish@metro.example")}, server, protected)
	require.Equal(t, "canonical@metro.example", got.Email)
	require.False(t, got.IsActive)
}

func TestMerge_ProtectedFieldSurvivesEmptyEcho(t *testing.T) {
	original := baseAccount()

	// Partial echo: the backend answered the toggle with only the fields
	// it recomputed, leaving tenant linkage and timestamps null.
	server := account{
		ID:       "u-1",
		Email:    "ops@metro.example",
		IsActive: false,
	}

	got := reconcile.Merge(original, accountPatch{IsActive: utils.Ptr(false)}, server, protected)
	require.False(t, got.IsActive)
	require.Equal(t, "t-1", got.TenantID, "empty server tenantId must not clobber")
	require.Equal(t, "Metro Transit Co", got.TenantName)
	require.Equal(t, original.CreatedAt, got.CreatedAt)
}

func TestMerge_UnprotectedEmptyServerFieldClears(t *testing.T) {
	original := baseAccount()
	server := baseAccount()
	server.Name = nil

	got := reconcile.Merge(original, accountPatch{}, server, protected)
	require.Nil(t, got.Name, "name is not protected, the server's null wins")
}

func TestMerge_ProtectedNonEmptyServerFieldStillWins(t *testing.T) {
	original := baseAccount()
	server := baseAccount()
	server.TenantID = "t-2"
	server.TenantName = "Coastal Lines SA"

	got := reconcile.Merge(original, accountPatch{}, server, protected)
	require.Equal(t, "t-2", got.TenantID, "protection guards against empties, not against real moves")
	require.Equal(t, "Coastal Lines SA", got.TenantName)
}
