package atms

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// DefaultQuery is the filter state a fresh ATMs store starts from.
func DefaultQuery() Query {
	return Query{Query: pagination.Query{
		Page:   1,
		Limit:  20,
		SortBy: "createdAt",
		Order:  pagination.OrderDesc,
	}}
}

// Store holds the current page of kiosks, full-refresh style: every
// successful mutation refetches the page with the filters in place.
type Store struct {
	mu  sync.Mutex
	svc *Service
	log zerolog.Logger

	atms        []ATM
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
		limit:       20,
		filters:     DefaultQuery(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Store) ATMs() []ATM {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ATM, len(s.atms))
	copy(out, s.atms)
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

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Store) Filters() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

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
		s.log.Error().Err(err).Msg("load atms failed")
		s.lastError = api.ErrorMessage(err)
		return err
	}
	s.atms = page.Data
	s.total = page.Total
	s.currentPage = page.Page
	s.limit = page.Limit
	return nil
}

// Refresh refetches with the current filters unchanged.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx, Query{})
}

func (s *Store) Add(ctx context.Context, payload Create) error {
	return s.mutate(ctx, func() error {
		_, err := s.svc.Create(ctx, payload)
		return err
	})
}

func (s *Store) Update(ctx context.Context, id string, payload Update) error {
	return s.mutate(ctx, func() error {
		_, err := s.svc.Update(ctx, id, payload)
		return err
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		return s.svc.Delete(ctx, id)
	})
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	return s.mutate(ctx, func() error {
		_, err := s.svc.UpdateStatus(ctx, id, status)
		return err
	})
}

func (s *Store) ToggleActive(ctx context.Context, id string, active bool) error {
	return s.mutate(ctx, func() error {
		_, err := s.svc.ToggleActive(ctx, id, active)
		return err
	})
}

// SetFilters shallow-merges the new filters and reloads.
func (s *Store) SetFilters(ctx context.Context, overrides Query) error {
	return s.Load(ctx, overrides)
}

func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultQuery()
}

func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = page
	s.filters.Page = page
}

func (s *Store) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	s.filters.Limit = limit
}

// mutate runs a mutation and, on success, refetches the current page.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.isLoading = false
		s.lastError = api.ErrorMessage(err)
		s.mu.Unlock()
		return err
	}
	return s.Refresh(ctx)
}
