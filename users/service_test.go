package users_test

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
	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
	"github.com/flexmedia-fm/autopass-console/token"
	"github.com/flexmedia-fm/autopass-console/users"
)

var testCreated = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func wireUser(id, email string) users.User {
	return users.User{
		ID:         id,
		Email:      email,
		Login:      email,
		UserRole:   users.RoleOperator,
		IsActive:   true,
		TenantID:   "t-1",
		TenantName: "Metro Transit Co",
		CreatedAt:  testCreated,
		UpdatedAt:  testCreated,
	}
}

func newService(t *testing.T, handler http.Handler) (*users.Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := token.NewStore(cookie.NewMemoryJar(), srv.URL)
	tokens.SetTokens("access", "refresh", true)
	return users.NewService(api.New(srv.URL, tokens)), srv
}

func TestService_FindAllSerializesOnlySetFilters(t *testing.T) {
	var gotQuery map[string][]string
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(pagination.Page[users.User]{
			Data: []users.User{wireUser("u-1", "a@metro.example")}, Total: 1, Page: 1, Limit: 10,
		})
	}))

	q := users.Query{
		Query:    pagination.Query{Page: 1, Limit: 10},
		UserRole: users.RoleAdmin,
		IsActive: utils.Ptr(false),
	}
	_, err := svc.FindAll(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, []string{"1"}, gotQuery["page"])
	require.Equal(t, []string{"ADMIN"}, gotQuery["userRole"])
	require.Equal(t, []string{"false"}, gotQuery["isActive"])
	_, hasTenant := gotQuery["tenantId"]
	require.False(t, hasTenant, "absent filters never serialize")
	_, hasSearch := gotQuery["search"]
	require.False(t, hasSearch)
}

func TestService_FindAllRejectsMalformedElement(t *testing.T) {
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bad := wireUser("u-2", "b@metro.example")
		bad.Email = "not-an-email"
		_ = json.NewEncoder(w).Encode(pagination.Page[users.User]{
			Data: []users.User{wireUser("u-1", "a@metro.example"), bad}, Total: 2, Page: 1, Limit: 10,
		})
	}))

	_, err := svc.FindAll(context.Background(), users.Query{})
	require.Error(t, err)
	require.True(t, schema.IsValidationError(err))
	require.Contains(t, err.Error(), "element 1")
}

func TestService_CreateValidatesPayloadBeforeWire(t *testing.T) {
	var hits int
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	_, err := svc.Create(context.Background(), users.Create{
		Email:    "a@metro.example",
		Login:    "a",
		Password: "123", // below minimum
		UserRole: users.RoleOperator,
		TenantID: "t-1", TenantName: "Metro",
	})
	require.Error(t, err)
	require.True(t, schema.IsValidationError(err))
	require.Zero(t, hits, "invalid payload never reaches the network")
}

func TestService_ToggleStatusUsesPatchRoute(t *testing.T) {
	var gotMethod, gotPath string
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		toggled := wireUser("u-1", "a@metro.example")
		toggled.IsActive = false
		_ = json.NewEncoder(w).Encode(toggled)
	}))

	user, err := svc.ToggleStatus(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/users/u-1/toggle-status", gotPath)
	require.False(t, user.IsActive)
}

func TestService_UpdateToleratesPartialEcho(t *testing.T) {
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Partial representation: no tenant fields, no timestamps.
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "email": "new@metro.example"})
	}))

	user, err := svc.Update(context.Background(), "u-1", users.Update{Email: utils.Ptr("new@metro.example")})
	require.NoError(t, err, "update echoes are not re-validated")
	require.Equal(t, "new@metro.example", user.Email)
	require.Empty(t, user.TenantID)
}
