// Command console is the terminal front end for the fleet management API:
// sign in once and the file-backed cookie jar keeps the session across
// invocations the way a browser would.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/flexmedia-fm/autopass-console/atms"
	"github.com/flexmedia-fm/autopass-console/authn"
	"github.com/flexmedia-fm/autopass-console/console"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/internal/config"
	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/users"
)

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	cfg := config.New()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.WarnLevel)
	if cfg.GetVerboseHTTP() {
		logger = logger.Level(zerolog.DebugLevel)
	}

	app, err := console.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		return loginCmd(ctx, app, args[1:])
	case "logout":
		app.Session.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return whoamiCmd(ctx, app)
	case "users":
		return usersCmd(ctx, app, args[1:])
	case "devices":
		return devicesCmd(ctx, app, args[1:])
	case "atms":
		return atmsCmd(ctx, app, args[1:])
	case "tenants":
		return tenantsCmd(ctx, app)
	case "user-toggle":
		return userToggleCmd(ctx, app, args[1:])
	case "device-status":
		return deviceStatusCmd(ctx, app, args[1:])
	case "dashboard":
		return dashboardCmd(ctx, app)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	figure.NewFigure("AutoPass", "cybermedium", true).Print()
	fmt.Println()
	fmt.Println(`Usage: console <command> [flags]

Commands:
  login          -email -password [-remember]
  logout
  whoami
  users          [-search -role -active -tenant -page -limit]
  devices        [-status -atm -page -limit]
  atms           [-tenant -status -page -limit]
  tenants
  user-toggle    -id
  device-status  -id -status
  dashboard`)
}

func loginCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	remember := fs.Bool("remember", false, "keep the session for 7 days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		*password = strings.TrimSpace(line)
	}

	creds := authn.Credentials{Email: *email, Password: *password, RememberMe: *remember}
	if err := app.Session.Login(ctx, creds); err != nil {
		return err
	}
	profile, _ := app.Session.User()
	fmt.Printf("Signed in as %s (%s)\n", profile.Email, profile.UserRole)
	if !*remember {
		fmt.Println("Session only: signing out happens when the cookie file session ends.")
	}
	return nil
}

func whoamiCmd(ctx context.Context, app *console.App) error {
	app.Session.Initialize(ctx)
	profile, ok := app.Session.User()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("User:    %s\n", profile.Email)
	fmt.Printf("Role:    %s\n", profile.UserRole)
	fmt.Printf("Tenant:  %s\n", profile.TenantID)
	if profile.TenantRole != nil {
		fmt.Printf("TRole:   %s\n", *profile.TenantRole)
	}
	return nil
}

func usersCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	search := fs.String("search", "", "search email/login/name")
	role := fs.String("role", "", "filter by role (ADMIN, OPERATOR)")
	active := fs.String("active", "", "filter by active state (true/false)")
	tenant := fs.String("tenant", "", "filter by tenant id")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := users.Query{
		Query:    pagination.Query{Page: *page, Limit: *limit, Search: *search},
		UserRole: users.Role(*role),
		TenantID: *tenant,
	}
	if *active != "" {
		v := *active == "true"
		q.IsActive = &v
	}
	if err := app.UsersStore.Load(ctx, q); err != nil {
		return err
	}

	fmt.Printf("%-38s %-28s %-9s %-6s %s\n", "ID", "EMAIL", "ROLE", "ACTIVE", "TENANT")
	for _, u := range app.UsersStore.Users() {
		fmt.Printf("%-38s %-28s %-9s %-6t %s\n", u.ID, u.Email, u.UserRole, u.IsActive, u.TenantName)
	}
	printFooter(app.UsersStore.CurrentPage(), app.UsersStore.Limit(), app.UsersStore.Total())
	return nil
}

func devicesCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	atmID := fs.String("atm", "", "filter by atm id")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := devices.Query{
		Query:  pagination.Query{Page: *page, Limit: *limit},
		Status: devices.Status(*status),
		AtmID:  *atmID,
	}
	if err := app.DevicesStore.Load(ctx, q); err != nil {
		return err
	}

	fmt.Printf("%-38s %-18s %-14s %s\n", "ID", "SERIAL", "STATUS", "ATM")
	for _, d := range app.DevicesStore.Devices() {
		atm := "-"
		if d.AtmID != nil {
			atm = *d.AtmID
		}
		fmt.Printf("%-38s %-18s %-14s %s\n", d.ID, d.SerialNumber, d.Status, atm)
	}
	printFooter(app.DevicesStore.CurrentPage(), app.DevicesStore.Limit(), app.DevicesStore.Total())
	return nil
}

func atmsCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("atms", flag.ExitOnError)
	tenant := fs.String("tenant", "", "filter by tenant id")
	status := fs.String("status", "", "filter by status")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := atms.Query{
		Query:    pagination.Query{Page: *page, Limit: *limit},
		TenantID: *tenant,
		Status:   atms.Status(*status),
	}
	if err := app.ATMsStore.Load(ctx, q); err != nil {
		return err
	}

	fmt.Printf("%-38s %-10s %-20s %-12s %s\n", "ID", "CODE", "NAME", "STATUS", "ACTIVE")
	for _, a := range app.ATMsStore.ATMs() {
		fmt.Printf("%-38s %-10s %-20s %-12s %t\n", a.ID, a.Code, a.Name, a.Status, a.IsActive)
	}
	printFooter(app.ATMsStore.CurrentPage(), app.ATMsStore.Limit(), app.ATMsStore.Total())
	return nil
}

func tenantsCmd(ctx context.Context, app *console.App) error {
	summaries, err := app.Tenants.FindAllSimple(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%-38s %-24s %s\n", "ID", "NAME", "FANTASY NAME")
	for _, t := range summaries {
		fantasy := "-"
		if t.FantasyName != nil {
			fantasy = *t.FantasyName
		}
		fmt.Printf("%-38s %-24s %s\n", t.ID, t.Name, fantasy)
	}
	return nil
}

func userToggleCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("user-toggle", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := app.Users.ToggleStatus(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s active=%t\n", user.Email, user.IsActive)
	return nil
}

func deviceStatusCmd(ctx context.Context, app *console.App, args []string) error {
	fs := flag.NewFlagSet("device-status", flag.ExitOnError)
	id := fs.String("id", "", "device id")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	device, err := app.Devices.UpdateStatus(ctx, *id, devices.Status(*status))
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", device.SerialNumber, device.Status)
	return nil
}

func dashboardCmd(ctx context.Context, app *console.App) error {
	if err := app.LoadDashboard(ctx); err != nil {
		return err
	}
	stats := app.DashboardStore.Stats()
	fmt.Printf("Devices:      %d\n", stats.TotalDevices)
	fmt.Printf("  active:     %d\n", stats.ActiveDevices)
	fmt.Printf("  inactive:   %d\n", stats.InactiveDevices)
	fmt.Printf("  maintenance:%d\n", stats.MaintenanceDevices)
	return nil
}

func printFooter(page, limit, total int) {
	fmt.Printf("\npage %d, %d per page, %d total\n", page, limit, total)
}
