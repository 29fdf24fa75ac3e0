package tenants

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// Service talks to the /tenants endpoints. The console reads tenants but
// never mutates them; provisioning happens in a separate back office.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

func (s *Service) FindAll(ctx context.Context, query Query) (pagination.Page[Tenant], error) {
	var page pagination.Page[Tenant]
	if err := s.api.Get(ctx, "/tenants", query.Values(), &page); err != nil {
		return pagination.Empty[Tenant](query.Limit), errors.Wrap(err, "[TenantsService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Empty[Tenant](query.Limit), errors.Wrap(err, "[TenantsService.FindAll]")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (Tenant, error) {
	var tenant Tenant
	if err := s.api.Get(ctx, "/tenants/"+id, nil, &tenant); err != nil {
		return Tenant{}, errors.Wrap(err, "[TenantsService.FindByID]")
	}
	if err := tenant.Validate(); err != nil {
		return Tenant{}, errors.Wrap(err, "[TenantsService.FindByID]")
	}
	return tenant, nil
}

// FindAllSimple returns up to 100 tenants projected down to the fields
// selection dropdowns need.
func (s *Service) FindAllSimple(ctx context.Context) ([]Summary, error) {
	page, err := s.FindAll(ctx, Query{Query: pagination.Query{Page: 1, Limit: 100, SortBy: "name", Order: pagination.OrderAsc}})
	if err != nil {
		return nil, errors.Wrap(err, "[TenantsService.FindAllSimple]")
	}
	out := make([]Summary, 0, len(page.Data))
	for _, t := range page.Data {
		out = append(out, Summary{ID: t.ID, Name: t.Name, FantasyName: t.FantasyName})
	}
	return out, nil
}
