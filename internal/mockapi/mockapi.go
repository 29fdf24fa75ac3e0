// Package mockapi is an in-memory rendition of the fleet management
// backend, good enough for demos and end-to-end tests: real bcrypt
// credential checks, real signed JWTs, rotating refresh tokens and the
// same pagination envelope as production.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flexmedia-fm/autopass-console/atms"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/installations"
	"github.com/flexmedia-fm/autopass-console/lines"
	"github.com/flexmedia-fm/autopass-console/tenants"
	"github.com/flexmedia-fm/autopass-console/users"
)

const accessTokenTTL = 15 * time.Minute

// userRecord couples the wire-visible user with server-only credential
// state.
type userRecord struct {
	users.User
	PasswordHash []byte
}

// Server is the whole backend: router plus state behind one lock.
type Server struct {
	router  chi.Router
	mu      sync.Mutex
	nowTime func() time.Time
	secret  []byte

	tenants       map[string]tenants.Tenant
	users         map[string]userRecord
	devices       map[string]devices.Device
	atms          map[string]atms.ATM
	installations map[string]installations.Installation
	lines         map[string]lines.Line

	// refresh token value -> user id; one live token per user, rotation
	// revokes the predecessor.
	refreshTokens map[string]string
	activeRefresh map[string]string
}

// Option defines a function type to modify a Server instance.
type Option func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) { s.nowTime = nowFunc }
}

// WithSecret sets the JWT signing secret.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func New(options ...Option) *Server {
	s := &Server{
		nowTime:       time.Now,
		secret:        []byte("mockapi-dev-secret"),
		tenants:       make(map[string]tenants.Tenant),
		users:         make(map[string]userRecord),
		devices:       make(map[string]devices.Device),
		atms:          make(map[string]atms.ATM),
		installations: make(map[string]installations.Installation),
		lines:         make(map[string]lines.Line),
		refreshTokens: make(map[string]string),
		activeRefresh: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.LoginHandler())
		r.Post("/refresh", s.RefreshHandler())
		r.Post("/forgot-password", s.ForgotPasswordHandler())
		r.Post("/reset-password", s.ResetPasswordHandler())
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile", s.ProfileHandler())
			r.Get("/verify", s.VerifyHandler())
			r.Post("/logout", s.LogoutHandler())
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.ListUsersHandler())
			r.Post("/", s.CreateUserHandler())
			r.Post("/reset-password", s.ResetUserPasswordHandler())
			r.Post("/change-password", s.ChangePasswordHandler())
			r.Get("/{id}", s.GetUserHandler())
			r.Patch("/{id}", s.UpdateUserHandler())
			r.Delete("/{id}", s.DeleteUserHandler())
			r.Patch("/{id}/toggle-status", s.ToggleUserStatusHandler())
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.ListDevicesHandler())
			r.Post("/", s.CreateDeviceHandler())
			r.Get("/statistics", s.DeviceStatisticsHandler())
			r.Get("/{id}", s.GetDeviceHandler())
			r.Patch("/{id}", s.UpdateDeviceHandler())
			r.Delete("/{id}", s.DeleteDeviceHandler())
		})

		r.Route("/atms", func(r chi.Router) {
			r.Get("/", s.ListATMsHandler())
			r.Post("/", s.CreateATMHandler())
			r.Get("/statistics", s.ATMStatisticsHandler())
			r.Get("/{id}", s.GetATMHandler())
			r.Put("/{id}", s.UpdateATMHandler())
			r.Delete("/{id}", s.DeleteATMHandler())
		})

		r.Route("/installations", func(r chi.Router) {
			r.Get("/", s.ListInstallationsHandler())
			r.Post("/", s.CreateInstallationHandler())
			r.Get("/{id}", s.GetInstallationHandler())
			r.Put("/{id}", s.UpdateInstallationHandler())
			r.Delete("/{id}", s.DeleteInstallationHandler())
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", s.ListTenantsHandler())
			r.Get("/{id}", s.GetTenantHandler())
		})

		r.Route("/lines", func(r chi.Router) {
			r.Get("/", s.ListLinesHandler())
			r.Post("/", s.CreateLineHandler())
			r.Get("/{id}", s.GetLineHandler())
			r.Put("/{id}", s.UpdateLineHandler())
			r.Delete("/{id}", s.DeleteLineHandler())
		})
	})

	s.router = r
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, map[string]string{"message": message, "code": code})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}
