// Package dashboard aggregates fleet health for the landing view.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/devices"
)

// Stats is the device-fleet summary shown on the landing view.
type Stats struct {
	TotalDevices       int
	ActiveDevices      int
	InactiveDevices    int
	MaintenanceDevices int
}

// Severity of a dashboard alert.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Alert is an operator-facing notice on the dashboard feed.
type Alert struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

// Store holds the dashboard state: fleet stats plus an in-memory alert
// feed, newest first.
type Store struct {
	mu      sync.Mutex
	devices *devices.Service
	log     zerolog.Logger
	nowTime func() time.Time

	stats     Stats
	alerts    []Alert
	isLoading bool
	lastError string
}

// StoreOption defines a function type to modify a Store instance.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) { s.nowTime = nowFunc }
}

func NewStore(devicesSvc *devices.Service, options ...StoreOption) *Store {
	s := &Store{
		devices: devicesSvc,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
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

// Load refreshes the fleet stats from the devices statistics endpoint.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()

	stats, err := s.devices.Statistics(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	if err != nil {
		s.log.Error().Err(err).Msg("load dashboard stats failed")
		s.lastError = api.ErrorMessage(err)
		return err
	}
	s.stats = Stats{
		TotalDevices:       stats.Total,
		ActiveDevices:      stats.ByStatus[devices.StatusActive],
		InactiveDevices:    stats.ByStatus[devices.StatusInactive],
		MaintenanceDevices: stats.ByStatus[devices.StatusMaintenance],
	}
	return nil
}

// AddAlert prepends an alert to the feed and returns its generated id.
func (s *Store) AddAlert(severity Severity, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert := Alert{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: s.nowTime(),
	}
	s.alerts = append([]Alert{alert}, s.alerts...)
	return alert.ID
}

// RemoveAlert drops the alert with the given id, if present.
func (s *Store) RemoveAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return
		}
	}
}
