// Package atms covers the physical kiosks: the /atms endpoints and the
// list store using the full-refresh reconciliation pattern.
package atms

import (
	"net/url"
	"strconv"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
	StatusMaintenance Status = "MAINTENANCE"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusMaintenance}

func statusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// RelatedTenant is the owning tenant expansion.
type RelatedTenant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FantasyName *string `json:"fantasyName,omitempty"`
}

// RelatedInstallation is the hosting installation expansion.
type RelatedInstallation struct {
	Code string `json:"code"`
}

// ATM is a kiosk as the backend returns it, distinct from the peripheral
// devices attached to it.
type ATM struct {
	ID             string               `json:"id"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Location       *string              `json:"location,omitempty"`
	Address        *string              `json:"address,omitempty"`
	TenantID       string               `json:"tenantId"`
	InstallationID *string              `json:"installationId,omitempty"`
	Status         Status               `json:"status"`
	IsActive       bool                 `json:"isActive"`
	Notes          *string              `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Tenant         *RelatedTenant       `json:"tenant,omitempty"`
	Installation   *RelatedInstallation `json:"installation,omitempty"`
}

func (a ATM) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", a.ID)
	fe.Required("code", a.Code)
	fe.Required("name", a.Name)
	fe.Required("tenantId", a.TenantID)
	fe.OneOf("status", string(a.Status), statusStrings()...)
	fe.NotZeroTime("createdAt", a.CreatedAt)
	fe.NotZeroTime("updatedAt", a.UpdatedAt)
	return fe.Err()
}

type Create struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Location       *string `json:"location,omitempty"`
	Address        *string `json:"address,omitempty"`
	TenantID       string  `json:"tenantId"`
	InstallationID *string `json:"installationId,omitempty"`
	Status         Status  `json:"status"`
	IsActive       bool    `json:"isActive"`
	Notes          *string `json:"notes,omitempty"`
}

func (c Create) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("code", c.Code)
	fe.Required("name", c.Name)
	fe.Required("tenantId", c.TenantID)
	fe.OneOf("status", string(c.Status), statusStrings()...)
	return fe.Err()
}

type Update struct {
	Code           *string `json:"code,omitempty"`
	Name           *string `json:"name,omitempty"`
	Location       *string `json:"location,omitempty"`
	Address        *string `json:"address,omitempty"`
	TenantID       *string `json:"tenantId,omitempty"`
	InstallationID *string `json:"installationId,omitempty"`
	Status         *Status `json:"status,omitempty"`
	IsActive       *bool   `json:"isActive,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (u Update) Validate() error {
	fe := schema.FieldErrors{}
	if u.Code != nil {
		fe.Required("code", *u.Code)
	}
	if u.Name != nil {
		fe.Required("name", *u.Name)
	}
	if u.Status != nil {
		fe.OneOf("status", string(*u.Status), statusStrings()...)
	}
	return fe.Err()
}

// Query is the /atms list filter state.
type Query struct {
	pagination.Query
	TenantID       string
	InstallationID string
	Status         Status
	IsActive       *bool
}

func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.TenantID != "" {
		v.Set("tenantId", q.TenantID)
	}
	if q.InstallationID != "" {
		v.Set("installationId", q.InstallationID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	return v
}

func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.TenantID != "" {
		merged.TenantID = override.TenantID
	}
	if override.InstallationID != "" {
		merged.InstallationID = override.InstallationID
	}
	if override.Status != "" {
		merged.Status = override.Status
	}
	if override.IsActive != nil {
		merged.IsActive = override.IsActive
	}
	return merged
}

// Statistics is the /atms/statistics response.
type Statistics struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
}
