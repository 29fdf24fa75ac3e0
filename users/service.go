package users

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/pagination"
)

// Service wraps the shared API client with schema-validated user calls.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// FindAll lists users. Every element of the response is validated; one
// malformed record fails the whole call.
func (s *Service) FindAll(ctx context.Context, q Query) (pagination.Page[User], error) {
	var page pagination.Page[User]
	if err := s.api.Get(ctx, "/users", q.Values(), &page); err != nil {
		return pagination.Page[User]{}, errors.Wrap(err, "[UsersService.FindAll]")
	}
	if err := pagination.ValidateAll(page); err != nil {
		return pagination.Page[User]{}, errors.Wrap(err, "[UsersService.FindAll] response validation")
	}
	return page, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (User, error) {
	var user User
	if err := s.api.Get(ctx, "/users/"+id, nil, &user); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.FindByID]")
	}
	if err := user.Validate(); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.FindByID] response validation")
	}
	return user, nil
}

// Create validates the payload before the wire and the echoed entity
// after it.
func (s *Service) Create(ctx context.Context, payload Create) (User, error) {
	if err := payload.Validate(); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.Create]")
	}
	var user User
	if err := s.api.Post(ctx, "/users", payload, &user); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.Create]")
	}
	if err := user.Validate(); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.Create] response validation")
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id string, payload Update) (User, error) {
	if err := payload.Validate(); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.Update]")
	}
	var user User
	if err := s.api.Patch(ctx, "/users/"+id, payload, &user); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.Update]")
	}
	return user, nil
}

// Delete is fire-and-forget: the caller's store removes the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/users/"+id); err != nil {
		return errors.Wrap(err, "[UsersService.Delete]")
	}
	return nil
}

// ToggleStatus flips a user between active and inactive. The backend has
// been observed to echo partial representations here; the store's merge
// handles that.
func (s *Service) ToggleStatus(ctx context.Context, id string) (User, error) {
	var user User
	if err := s.api.Patch(ctx, "/users/"+id+"/toggle-status", nil, &user); err != nil {
		return User{}, errors.Wrap(err, "[UsersService.ToggleStatus]")
	}
	return user, nil
}

// ResetPassword asks the backend to start a password reset for the given
// email.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := s.api.Post(ctx, "/users/reset-password", body, nil); err != nil {
		return errors.Wrap(err, "[UsersService.ResetPassword]")
	}
	return nil
}

// ChangePassword changes the calling user's own password.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if err := s.api.Post(ctx, "/users/change-password", body, nil); err != nil {
		return errors.Wrap(err, "[UsersService.ChangePassword]")
	}
	return nil
}
