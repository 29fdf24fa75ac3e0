package atms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/internal/utils"
)

// Service talks to the /atms endpoints, validating every payload and echo.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

func (s *Service) FindAll(ctx context.Context, query Query) (pagination.Page[ATM], error) {
	var page pagination.Page[ATM]
	if err := s.api.Get(ctx, "/atms", query.Values(), &page); err != nil {
		return pagination.Empty[ATM](query.Limit), errors.Wrap(err, "[ATMsService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Empty[ATM](query.Limit), errors.Wrap(err, "[ATMsService.FindAll]")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (ATM, error) {
	var atm ATM
	if err := s.api.Get(ctx, "/atms/"+id, nil, &atm); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.FindByID]")
	}
	if err := atm.Validate(); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.FindByID]")
	}
	return atm, nil
}

func (s *Service) Create(ctx context.Context, payload Create) (ATM, error) {
	if err := payload.Validate(); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.Create]")
	}
	var atm ATM
	if err := s.api.Post(ctx, "/atms", payload, &atm); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.Create]")
	}
	if err := atm.Validate(); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.Create]")
	}
	return atm, nil
}

// Update sends a partial payload. The echo is not validated since backends
// return partial representations for PUT.
func (s *Service) Update(ctx context.Context, id string, payload Update) (ATM, error) {
	if err := payload.Validate(); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.Update]")
	}
	var atm ATM
	if err := s.api.Put(ctx, "/atms/"+id, payload, &atm); err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.Update]")
	}
	return atm, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/atms/"+id); err != nil {
		return errors.Wrap(err, "[ATMsService.Delete]")
	}
	return nil
}

func (s *Service) FindByTenant(ctx context.Context, tenantID string, query Query) (pagination.Page[ATM], error) {
	query.TenantID = tenantID
	page, err := s.FindAll(ctx, query)
	if err != nil {
		return page, errors.Wrap(err, "[ATMsService.FindByTenant]")
	}
	return page, nil
}

func (s *Service) FindByInstallation(ctx context.Context, installationID string, query Query) (pagination.Page[ATM], error) {
	query.InstallationID = installationID
	page, err := s.FindAll(ctx, query)
	if err != nil {
		return page, errors.Wrap(err, "[ATMsService.FindByInstallation]")
	}
	return page, nil
}

// FindActiveByTenant lists kiosks that are both flagged active and in
// ACTIVE status, typically for selection dropdowns. Capped at 100 rows.
func (s *Service) FindActiveByTenant(ctx context.Context, tenantID string) ([]ATM, error) {
	query := Query{
		Query:    pagination.Query{Page: 1, Limit: 100},
		TenantID: tenantID,
		Status:   StatusActive,
		IsActive: utils.Ptr(true),
	}
	page, err := s.FindAll(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "[ATMsService.FindActiveByTenant]")
	}
	return page.Data, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (ATM, error) {
	atm, err := s.Update(ctx, id, Update{Status: &status})
	if err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.UpdateStatus]")
	}
	return atm, nil
}

func (s *Service) ToggleActive(ctx context.Context, id string, active bool) (ATM, error) {
	atm, err := s.Update(ctx, id, Update{IsActive: &active})
	if err != nil {
		return ATM{}, errors.Wrap(err, "[ATMsService.ToggleActive]")
	}
	return atm, nil
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	if err := s.api.Get(ctx, "/atms/statistics", nil, &stats); err != nil {
		return Statistics{}, errors.Wrap(err, "[ATMsService.Statistics]")
	}
	return stats, nil
}
