// Package devices covers the peripheral devices attached to ATMs: the
// /devices endpoints, their lifecycle status vocabulary, and the list
// store using the full-refresh reconciliation pattern.
package devices

import (
	"net/url"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Status is a device lifecycle state. The usual progression is
// NOT_INSTALLED → INSTALLED → ACTIVE ⇄ INACTIVE ⇄ MAINTENANCE →
// DECOMMISSIONED, but the client does not enforce it: any value is
// PATCHable and the backend stays the source of truth.
type Status string

const (
	StatusNotInstalled   Status = "NOT_INSTALLED"
	StatusInstalled      Status = "INSTALLED"
	StatusActive         Status = "ACTIVE"
	StatusInactive       Status = "INACTIVE"
	StatusMaintenance    Status = "MAINTENANCE"
	StatusDecommissioned Status = "DECOMMISSIONED"
)

// Statuses lists every valid device status.
var Statuses = []Status{
	StatusNotInstalled,
	StatusInstalled,
	StatusActive,
	StatusInactive,
	StatusMaintenance,
	StatusDecommissioned,
}

func statusStrings() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// RelatedATM is the relational expansion list endpoints may include.
type RelatedATM struct {
	Code *string `json:"code,omitempty"`
}

// RelatedTenant is the owning tenant expansion.
type RelatedTenant struct {
	ID string `json:"id"`
}

// Device is a peripheral as the backend returns it.
type Device struct {
	ID                  string         `json:"id"`
	SerialNumber        string         `json:"serialNumber"`
	Code                *string        `json:"code,omitempty"`
	AtmID               *string        `json:"atmId"`
	TenantID            string         `json:"tenantId"`
	Status              Status         `json:"status"`
	StatusLabel         *string        `json:"statusLabel,omitempty"`
	InstallationDate    *time.Time     `json:"installationDate,omitempty"`
	LastMaintenanceDate *time.Time     `json:"lastMaintenanceDate,omitempty"`
	Notes               *string        `json:"notes,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	ATM                 *RelatedATM    `json:"atm,omitempty"`
	Tenant              *RelatedTenant `json:"tenant,omitempty"`
}

func (d Device) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", d.ID)
	fe.MinLen("serialNumber", d.SerialNumber, 6)
	fe.Required("tenantId", d.TenantID)
	fe.OneOf("status", string(d.Status), statusStrings()...)
	fe.NotZeroTime("createdAt", d.CreatedAt)
	fe.NotZeroTime("updatedAt", d.UpdatedAt)
	return fe.Err()
}

// Create is the payload for POST /devices.
type Create struct {
	SerialNumber        string     `json:"serialNumber"`
	Code                *string    `json:"code,omitempty"`
	AtmID               *string    `json:"atmId,omitempty"`
	TenantID            string     `json:"tenantId"`
	Status              Status     `json:"status"`
	InstallationDate    *time.Time `json:"installationDate,omitempty"`
	LastMaintenanceDate *time.Time `json:"lastMaintenanceDate,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

func (c Create) Validate() error {
	fe := schema.FieldErrors{}
	fe.MinLen("serialNumber", c.SerialNumber, 6)
	fe.Required("tenantId", c.TenantID)
	fe.OneOf("status", string(c.Status), statusStrings()...)
	return fe.Err()
}

// Update is the all-optional payload for PATCH /devices/:id.
type Update struct {
	SerialNumber        *string    `json:"serialNumber,omitempty"`
	Code                *string    `json:"code,omitempty"`
	AtmID               *string    `json:"atmId,omitempty"`
	TenantID            *string    `json:"tenantId,omitempty"`
	Status              *Status    `json:"status,omitempty"`
	InstallationDate    *time.Time `json:"installationDate,omitempty"`
	LastMaintenanceDate *time.Time `json:"lastMaintenanceDate,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

func (u Update) Validate() error {
	fe := schema.FieldErrors{}
	if u.SerialNumber != nil {
		fe.MinLen("serialNumber", *u.SerialNumber, 6)
	}
	if u.Status != nil {
		fe.OneOf("status", string(*u.Status), statusStrings()...)
	}
	return fe.Err()
}

// Query is the /devices list filter state.
type Query struct {
	pagination.Query
	Status Status
	AtmID  string
}

func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.AtmID != "" {
		v.Set("atmId", q.AtmID)
	}
	return v
}

func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.Status != "" {
		merged.Status = override.Status
	}
	if override.AtmID != "" {
		merged.AtmID = override.AtmID
	}
	return merged
}

// Statistics is the /devices/statistics response.
type Statistics struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}
