package authn

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/token"
)

// SessionStore tracks who is signed in. It is the auth-failure sink for
// the api client: when a refresh dies mid-request the client clears the
// tokens and calls Invalidate, which drops the session here the way the
// web console redirects to the login page.
type SessionStore struct {
	mu     sync.Mutex
	svc    *Service
	tokens *token.Store
	log    zerolog.Logger

	user            *Profile
	isAuthenticated bool
	isInitialized   bool
	isLoading       bool
	lastError       string
}

// SessionStoreOption defines a function type to modify a SessionStore
// instance.
type SessionStoreOption func(*SessionStore)

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) SessionStoreOption {
	return func(s *SessionStore) { s.log = log }
}

func NewSessionStore(svc *Service, tokens *token.Store, options ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		svc:    svc,
		tokens: tokens,
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *SessionStore) User() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return Profile{}, false
	}
	return *s.user, true
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAuthenticated
}

func (s *SessionStore) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isInitialized
}

func (s *SessionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Initialize restores a session from stored cookies on startup. A partial
// or stale pair, or a profile fetch failure, ends in a clean signed-out
// state; either way the store comes up initialized.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.begin()
	defer s.initialized()

	if !s.tokens.HasTokens() {
		s.tokens.ClearTokens()
		s.setSession(nil)
		return
	}

	profile, err := s.svc.Profile(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore failed")
		s.tokens.ClearTokens()
		s.setSession(nil)
		return
	}
	s.setSession(&profile)
}

// Login signs in and loads the profile. Credentials stay out of the store;
// only the resulting identity is kept.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) error {
	s.begin()

	if _, err := s.svc.Login(ctx, creds); err != nil {
		s.fail(err)
		return err
	}
	profile, err := s.svc.Profile(ctx)
	if err != nil {
		s.tokens.ClearTokens()
		s.fail(err)
		return err
	}
	s.setSession(&profile)
	return nil
}

// Logout revokes the session. The local session is dropped no matter what
// the server said.
func (s *SessionStore) Logout(ctx context.Context) {
	s.begin()
	if err := s.svc.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed")
	}
	s.setSession(nil)
}

// RefreshTokens rotates the pair explicitly. On failure the service has
// already cleared the tokens, so the session drops too.
func (s *SessionStore) RefreshTokens(ctx context.Context) error {
	s.begin()
	if _, err := s.svc.Refresh(ctx); err != nil {
		s.fail(err)
		s.setSession(nil)
		return err
	}
	s.done()
	return nil
}

func (s *SessionStore) ForgotPassword(ctx context.Context, email string) error {
	s.begin()
	if err := s.svc.ForgotPassword(ctx, email); err != nil {
		s.fail(err)
		return err
	}
	s.done()
	return nil
}

func (s *SessionStore) ResetPassword(ctx context.Context, payload ResetPassword) error {
	s.begin()
	if err := s.svc.ResetPassword(ctx, payload); err != nil {
		s.fail(err)
		return err
	}
	s.done()
	return nil
}

// Invalidate drops the session without a server round trip. Wired as the
// api client's auth-failure hook; the tokens are already gone by the time
// it runs.
func (s *SessionStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isAuthenticated = false
	s.lastError = "session expired"
}

func (s *SessionStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = true
	s.lastError = ""
}

func (s *SessionStore) done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
}

func (s *SessionStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	s.lastError = api.ErrorMessage(err)
}

func (s *SessionStore) setSession(profile *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	s.user = profile
	s.isAuthenticated = profile != nil
}

func (s *SessionStore) initialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isInitialized = true
}
