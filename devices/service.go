package devices

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// Service wraps the shared API client with schema-validated device calls.
type Service struct {
	api     *api.Client
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify a Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) { s.nowTime = nowFunc }
}

func NewService(client *api.Client, options ...ServiceOption) *Service {
	s := &Service{api: client, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Service) FindAll(ctx context.Context, q Query) (pagination.Page[Device], error) {
	var page pagination.Page[Device]
	if err := s.api.Get(ctx, "/devices", q.Values(), &page); err != nil {
		return pagination.Page[Device]{}, errors.Wrap(err, "[DevicesService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Page[Device]{}, errors.Wrap(err, "[DevicesService.FindAll] response validation")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (Device, error) {
	var device Device
	if err := s.api.Get(ctx, "/devices/"+id, nil, &device); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.FindByID]")
	}
	if err := device.Validate(); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.FindByID] response validation")
	}
	return device, nil
}

func (s *Service) Create(ctx context.Context, payload Create) (Device, error) {
	if err := payload.Validate(); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Create]")
	}
	var device Device
	if err := s.api.Post(ctx, "/devices", payload, &device); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Create]")
	}
	if err := device.Validate(); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Create] response validation")
	}
	return device, nil
}

func (s *Service) Update(ctx context.Context, id string, payload Update) (Device, error) {
	if err := payload.Validate(); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Update]")
	}
	var device Device
	if err := s.api.Patch(ctx, "/devices/"+id, payload, &device); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Update]")
	}
	if err := device.Validate(); err != nil {
		return Device{}, errors.Wrap(err, "[DevicesService.Update] response validation")
	}
	return device, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/devices/"+id); err != nil {
		return errors.Wrap(err, "[DevicesService.Delete]")
	}
	return nil
}

// FindByATM lists the devices attached to one ATM.
func (s *Service) FindByATM(ctx context.Context, atmID string, q Query) (pagination.Page[Device], error) {
	q.AtmID = atmID
	return s.FindAll(ctx, q)
}

// FindByStatus lists devices in one lifecycle state.
func (s *Service) FindByStatus(ctx context.Context, status Status, q Query) (pagination.Page[Device], error) {
	q.Status = status
	return s.FindAll(ctx, q)
}

// UpdateStatus moves a device to the given lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Device, error) {
	return s.Update(ctx, id, Update{Status: &status})
}

// RecordMaintenance flags the device as under maintenance and stamps the
// maintenance date.
func (s *Service) RecordMaintenance(ctx context.Context, id string, notes *string) (Device, error) {
	return s.Update(ctx, id, Update{
		Status:              utils.Ptr(StatusMaintenance),
		LastMaintenanceDate: utils.Ptr(s.nowTime().UTC()),
		Notes:               notes,
	})
}

// MarkInstalled flags the device as installed and stamps the installation
// date.
func (s *Service) MarkInstalled(ctx context.Context, id string) (Device, error) {
	return s.Update(ctx, id, Update{
		Status:           utils.Ptr(StatusInstalled),
		InstallationDate: utils.Ptr(s.nowTime().UTC()),
	})
}

func (s *Service) Activate(ctx context.Context, id string) (Device, error) {
	return s.UpdateStatus(ctx, id, StatusActive)
}

func (s *Service) Deactivate(ctx context.Context, id string) (Device, error) {
	return s.UpdateStatus(ctx, id, StatusInactive)
}

func (s *Service) Decommission(ctx context.Context, id string) (Device, error) {
	return s.UpdateStatus(ctx, id, StatusDecommissioned)
}

// MaintenanceRequired lists devices currently flagged for maintenance.
func (s *Service) MaintenanceRequired(ctx context.Context, q Query) (pagination.Page[Device], error) {
	return s.FindByStatus(ctx, StatusMaintenance, q)
}

// Statistics fetches the device counts by lifecycle state.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	if err := s.api.Get(ctx, "/devices/statistics", nil, &stats); err != nil {
		return Statistics{}, errors.Wrap(err, "[DevicesService.Statistics]")
	}
	return stats, nil
}
