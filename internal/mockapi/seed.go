package mockapi

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flexmedia-fm/autopass-console/atms"
	"github.com/flexmedia-fm/autopass-console/devices"
	"github.com/flexmedia-fm/autopass-console/installations"
	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/lines"
	"github.com/flexmedia-fm/autopass-console/tenants"
	"github.com/flexmedia-fm/autopass-console/users"
)

// Seed helpers insert fixtures directly into state, bypassing auth.
// Tests build exactly the world they need; Seed() loads the demo set.

func (s *Server) SeedTenant(name string) tenants.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	t := tenants.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tenants[t.ID] = t
	return t
}

func (s *Server) SeedUser(email, password string, role users.Role, tenant tenants.Tenant) users.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("seed user: " + err.Error())
	}
	now := s.nowTime()
	rec := userRecord{
		User: users.User{
			ID:         uuid.NewString(),
			Email:      email,
			Login:      email,
			UserRole:   role,
			IsActive:   true,
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		PasswordHash: hash,
	}
	s.users[rec.ID] = rec
	return rec.User
}

func (s *Server) SeedATM(code, name string, tenant tenants.Tenant, status atms.Status) atms.ATM {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	a := atms.ATM{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		TenantID:  tenant.ID,
		Status:    status,
		IsActive:  status == atms.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.atms[a.ID] = a
	return a
}

func (s *Server) SeedDevice(serial string, tenant tenants.Tenant, status devices.Status) devices.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	d := devices.Device{
		ID:           uuid.NewString(),
		SerialNumber: serial,
		TenantID:     tenant.ID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.devices[d.ID] = d
	return d
}

func (s *Server) SeedInstallation(code, name string, tenant tenants.Tenant) installations.Installation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	i := installations.Installation{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		TenantID:  tenant.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.installations[i.ID] = i
	return i
}

func (s *Server) SeedLine(code, name string, tenant tenants.Tenant) lines.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	l := lines.Line{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		TenantID:  tenant.ID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.lines[l.ID] = l
	return l
}

// Seed loads the demo dataset: two operator companies, an admin login per
// company, a handful of kiosks and a device fleet in mixed states.
func (s *Server) Seed() {
	metro := s.SeedTenant("Metro Transit Co")
	coastal := s.SeedTenant("Coastal Lines SA")

	s.SeedUser("admin@metro.example", "admin123", users.RoleAdmin, metro)
	s.SeedUser("operator@metro.example", "operator123", users.RoleOperator, metro)
	s.SeedUser("admin@coastal.example", "admin123", users.RoleAdmin, coastal)

	central := s.SeedInstallation("INST-001", "Central Station", metro)
	s.SeedInstallation("INST-002", "Harbor Terminal", coastal)

	s.SeedLine("L-RED", "Red Line", metro)
	s.SeedLine("L-BLUE", "Blue Line", metro)
	s.SeedLine("L-FERRY", "Ferry Route", coastal)

	for i := 1; i <= 4; i++ {
		a := s.SeedATM(fmt.Sprintf("ATM-%03d", i), fmt.Sprintf("Kiosk %d", i), metro, atms.StatusActive)
		if i == 1 {
			s.mu.Lock()
			a.InstallationID = utils.Ptr(central.ID)
			s.atms[a.ID] = a
			s.mu.Unlock()
		}
	}
	s.SeedATM("ATM-900", "Harbor Kiosk", coastal, atms.StatusMaintenance)

	statuses := []devices.Status{
		devices.StatusActive, devices.StatusActive, devices.StatusActive,
		devices.StatusInstalled, devices.StatusInactive,
		devices.StatusMaintenance, devices.StatusNotInstalled,
	}
	for i, status := range statuses {
		s.SeedDevice(fmt.Sprintf("SN-METRO-%04d", i+1), metro, status)
	}
	s.SeedDevice("SN-COASTAL-0001", coastal, devices.StatusActive)
}
