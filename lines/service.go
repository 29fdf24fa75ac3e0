package lines

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// Service talks to the /lines endpoints.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

func (s *Service) FindAll(ctx context.Context, query Query) (pagination.Page[Line], error) {
	var page pagination.Page[Line]
	if err := s.api.Get(ctx, "/lines", query.Values(), &page); err != nil {
		return pagination.Empty[Line](query.Limit), errors.Wrap(err, "[LinesService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Empty[Line](query.Limit), errors.Wrap(err, "[LinesService.FindAll]")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (Line, error) {
	var line Line
	if err := s.api.Get(ctx, "/lines/"+id, nil, &line); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.FindByID]")
	}
	if err := line.Validate(); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.FindByID]")
	}
	return line, nil
}

func (s *Service) Create(ctx context.Context, payload Create) (Line, error) {
	if err := payload.Validate(); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.Create]")
	}
	var line Line
	if err := s.api.Post(ctx, "/lines", payload, &line); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.Create]")
	}
	if err := line.Validate(); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.Create]")
	}
	return line, nil
}

func (s *Service) Update(ctx context.Context, id string, payload Update) (Line, error) {
	if err := payload.Validate(); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.Update]")
	}
	var line Line
	if err := s.api.Put(ctx, "/lines/"+id, payload, &line); err != nil {
		return Line{}, errors.Wrap(err, "[LinesService.Update]")
	}
	return line, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/lines/"+id); err != nil {
		return errors.Wrap(err, "[LinesService.Delete]")
	}
	return nil
}
