// Package console is the application root: it wires configuration, the
// cookie jar, the token store, the api client and every domain service and
// store into one object the cmds and tests hang off.
package console

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/api"
	"github.com/flexmedia-fm/autopass-console/atms"
	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/cookie"
	"github.com/flexmedia-fm/autopass-console/dashboard"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/installations"
	"github.com/flexmedia-fm/autopass-console/internal/config"
	"github.com/flexmedia-fm/autopass-console/lines"
	"github.com/flexmedia-fm/autopass-console/tenants"
	"github.com/flexmedia-fm/autopass-console/token"
	"github.com/flexmedia-fm/autopass-console/users"
)

// App owns the wired object graph for one console session.
type App struct {
	Config config.Config
	Log    zerolog.Logger

	Jar    cookie.Jar
	Tokens *token.Store
	API    *api.Client

	Auth          *authn.Service
	Users         *users.Service
	Devices       *devices.Service
	ATMs          *atms.Service
	Installations *installations.Service
	Tenants       *tenants.Service
	Lines         *lines.Service

	Session        *authn.SessionStore
	UsersStore     *users.Store
	DevicesStore   *devices.Store
	ATMsStore      *atms.Store
	DashboardStore *dashboard.Store

	failSoft bool
}

// New builds the full graph from configuration. When a cookie file is
// configured the jar persists across runs; otherwise cookies live and die
// with the process.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	var jar cookie.Jar
	if path := cfg.GetCookieFile(); path != "" {
		fileJar, err := cookie.NewFileJar(path)
		if err != nil {
			return nil, errors.Wrap(err, "[console.New]")
		}
		jar = fileJar
	} else {
		jar = cookie.NewMemoryJar()
	}

	tokens := token.NewStore(jar, cfg.GetAPIBaseURL())

	app := &App{
		Config:   cfg,
		Log:      log,
		Jar:      jar,
		Tokens:   tokens,
		failSoft: cfg.GetFailSoftLoaders(),
	}

	app.API = api.New(cfg.GetAPIBaseURL(), tokens,
		api.WithTimeout(cfg.GetRequestTimeout()),
		api.WithLogger(log),
		api.WithVerbose(cfg.GetVerboseHTTP()),
		api.WithCoalescedRefresh(cfg.GetCoalescedRefresh()),
		api.WithAuthFailure(func() { app.Session.Invalidate() }),
	)

	app.Auth = authn.NewService(app.API, tokens)
	app.Users = users.NewService(app.API)
	app.Devices = devices.NewService(app.API)
	app.ATMs = atms.NewService(app.API)
	app.Installations = installations.NewService(app.API)
	app.Tenants = tenants.NewService(app.API)
	app.Lines = lines.NewService(app.API)

	app.Session = authn.NewSessionStore(app.Auth, tokens, authn.WithLogger(log))
	app.UsersStore = users.NewStore(app.Users, users.WithLogger(log))
	app.DevicesStore = devices.NewStore(app.Devices, devices.WithLogger(log))
	app.ATMsStore = atms.NewStore(app.ATMs, atms.WithLogger(log))
	app.DashboardStore = dashboard.NewStore(app.Devices, dashboard.WithLogger(log))

	return app, nil
}
