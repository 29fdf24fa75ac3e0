package console

import (
	"context"

	"github.com/pkg/errors"
)

// Route loaders hydrate a store with its default first page before the
// view renders. With fail-soft on (the default) a loader failure is
// logged and the view comes up empty instead of blocking; with it off the
// error propagates to the caller.

func (a *App) LoadUsersPage(ctx context.Context) error {
	return a.soften("users", a.UsersStore.Refresh(ctx))
}

func (a *App) LoadDevicesPage(ctx context.Context) error {
	return a.soften("devices", a.DevicesStore.Refresh(ctx))
}

func (a *App) LoadATMsPage(ctx context.Context) error {
	return a.soften("atms", a.ATMsStore.Refresh(ctx))
}

func (a *App) LoadDashboard(ctx context.Context) error {
	return a.soften("dashboard", a.DashboardStore.Load(ctx))
}

func (a *App) soften(route string, err error) error {
	if err == nil {
		return nil
	}
	if a.failSoft {
		a.Log.Warn().Err(err).Str("route", route).Msg("route loader failed, rendering empty")
		return nil
	}
	return errors.Wrapf(err, "[App.Load] %s", route)
}
