package installations

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// Service talks to the /installations endpoints.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

func (s *Service) FindAll(ctx context.Context, query Query) (pagination.Page[Installation], error) {
	var page pagination.Page[Installation]
	if err := s.api.Get(ctx, "/installations", query.Values(), &page); err != nil {
		return pagination.Empty[Installation](query.Limit), errors.Wrap(err, "[InstallationsService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Empty[Installation](query.Limit), errors.Wrap(err, "[InstallationsService.FindAll]")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (Installation, error) {
	var inst Installation
	if err := s.api.Get(ctx, "/installations/"+id, nil, &inst); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.FindByID]")
	}
	if err := inst.Validate(); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.FindByID]")
	}
	return inst, nil
}

func (s *Service) FindByTenant(ctx context.Context, tenantID string, query Query) (pagination.Page[Installation], error) {
	query.TenantID = tenantID
	page, err := s.FindAll(ctx, query)
	if err != nil {
		return page, errors.Wrap(err, "[InstallationsService.FindByTenant]")
	}
	return page, nil
}

func (s *Service) Create(ctx context.Context, payload Create) (Installation, error) {
	if err := payload.Validate(); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.Create]")
	}
	var inst Installation
	if err := s.api.Post(ctx, "/installations", payload, &inst); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.Create]")
	}
	if err := inst.Validate(); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.Create]")
	}
	return inst, nil
}

func (s *Service) Update(ctx context.Context, id string, payload Update) (Installation, error) {
	if err := payload.Validate(); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.Update]")
	}
	var inst Installation
	if err := s.api.Put(ctx, "/installations/"+id, payload, &inst); err != nil {
		return Installation{}, errors.Wrap(err, "[InstallationsService.Update]")
	}
	return inst, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/installations/"+id); err != nil {
		return errors.Wrap(err, "[InstallationsService.Delete]")
	}
	return nil
}
