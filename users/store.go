package users

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/reconcile"
)

// ProtectedFields are never clobbered by an empty/null value in a server
// echo during optimistic reconciliation. The backend's toggle and update
// endpoints return partial representations that would otherwise erase
// tenant ownership and creation metadata from the local list.
var ProtectedFields = []string{"id", "tenantId", "tenantName", "createdAt"}

// DefaultQuery is the filter state a fresh users store starts from.
func DefaultQuery() Query {
	return Query{Query: pagination.Query{
		Page:   1,
		Limit:  10,
		SortBy: "createdAt",
		Order:  pagination.OrderDesc,
	}}
}

// Store holds the current page of users and keeps it consistent with the
// backend while giving the caller immediate feedback: Update, Remove and
// ToggleStatus mutate the local list before the network call resolves and
// reconcile or revert once it settles. Stores are plain injectable values;
// construct one per application (or per test), never share one ambiently.
type Store struct {
	mu  sync.Mutex
	svc *Service
	log zerolog.Logger

	users       []User
	total       int
	currentPage int
	limit       int
	isLoading   bool
	lastError   string
	filters     Query
}

// StoreOption defines a function type to modify a Store instance.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

func NewStore(svc *Service, options ...StoreOption) *Store {
	s := &Store{
		svc:         svc,
		log:         zerolog.Nop(),
		currentPage: 1,
		limit:       10,
		filters:     DefaultQuery(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Users returns a copy of the current page.
func (s *Store) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

func (s *Store) Limit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the human-readable message of the last failed action, or ""
// after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Filters returns the current filter state.
func (s *Store) Filters() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Load fetches the page described by the current filters shallow-merged
// with overrides, and replaces the local list with the result.
func (s *Store) Load(ctx context.Context, overrides Query) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.filters = s.filters.Merge(overrides)
	q := s.filters
	s.mu.Unlock()

	page, err := s.svc.FindAll(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.log.Error().Err(err).Msg("load users failed")
		s.lastError = api.ErrorMessage(err)
		s.users = nil
		s.total = 0
		return err
	}
	s.setPage(page)
	return nil
}

// Refresh re-runs the last query unchanged.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx, Query{})
}

// Add creates a user and refetches the authoritative page.
func (s *Store) Add(ctx context.Context, payload Create) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()

	if _, err := s.svc.Create(ctx, payload); err != nil {
		s.mu.Lock()
		s.isLoading = false
		s.lastError = api.ErrorMessage(err)
		s.mu.Unlock()
		return err
	}
	return s.Load(ctx, Query{})
}

// Update applies the change to the local list immediately, then
// reconciles with the server echo using the protected-field merge. On
// failure the optimistic change is discarded by reloading with the
// last-known filters.
func (s *Store) Update(ctx context.Context, id string, change Update) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	idx, original := s.find(id)
	if idx >= 0 {
		s.users[idx] = reconcile.Apply(original, change)
	}
	s.mu.Unlock()

	updated, err := s.svc.Update(ctx, id, change)
	if err != nil {
		s.reloadAfterFailure(ctx, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if idx, _ := s.find(id); idx >= 0 {
		s.users[idx] = reconcile.Merge(original, change, updated, ProtectedFields)
	}
	return nil
}

// Remove drops the user from the local list before the delete resolves.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	if idx, _ := s.find(id); idx >= 0 {
		s.users = append(s.users[:idx], s.users[idx+1:]...)
		s.total--
	}
	s.mu.Unlock()

	if err := s.svc.Delete(ctx, id); err != nil {
		s.reloadAfterFailure(ctx, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	return nil
}

// ToggleStatus flips isActive in the local list synchronously, then
// reconciles with the server-confirmed record.
func (s *Store) ToggleStatus(ctx context.Context, id string) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	idx, original := s.find(id)
	var flipped bool
	if idx >= 0 {
		flipped = !original.IsActive
		s.users[idx].IsActive = flipped
	}
	s.mu.Unlock()

	updated, err := s.svc.ToggleStatus(ctx, id)
	if err != nil {
		s.reloadAfterFailure(ctx, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if idx, _ := s.find(id); idx >= 0 {
		intended := Update{IsActive: &flipped}
		s.users[idx] = reconcile.Merge(original, intended, updated, ProtectedFields)
	}
	return nil
}

// SetFilters shallow-merges the new filters and reloads.
func (s *Store) SetFilters(ctx context.Context, overrides Query) error {
	return s.Load(ctx, overrides)
}

// ClearFilters resets the filter state to the defaults. It does not
// reload; the next Load uses the fresh defaults.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultQuery()
}

// SetPage records a 1-based page without fetching.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = page
	s.filters.Page = page
}

// SetLimit records a page size without fetching.
func (s *Store) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	s.filters.Limit = limit
}

// reloadAfterFailure discards an optimistic change by refetching with the
// last-known filters, then records the original action's error. The
// action error wins over any reload error so the caller sees why the
// mutation failed.
func (s *Store) reloadAfterFailure(ctx context.Context, actionErr error) {
	s.mu.Lock()
	q := s.filters
	s.mu.Unlock()

	page, reloadErr := s.svc.FindAll(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	s.lastError = api.ErrorMessage(actionErr)
	if reloadErr != nil {
		s.log.Error().Err(reloadErr).Msg("reload after failed mutation also failed")
		return
	}
	s.setPage(page)
}

// setPage replaces list state from a validated page. Callers hold the lock.
func (s *Store) setPage(page pagination.Page[User]) {
	s.users = page.Data
	s.total = page.Total
	s.currentPage = page.Page
	s.limit = page.Limit
}

func (s *Store) find(id string) (int, User) {
	for i, u := range s.users {
		if u.ID == id {
			return i, u
		}
	}
	return -1, User{}
}
