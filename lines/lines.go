// Package lines covers the transit lines ATMs sell fares for.
package lines

import (
	"net/url"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Line is a fare line as the backend returns it.
type Line struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	TenantID    string    `json:"tenantId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (l Line) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", l.ID)
	fe.UUID("id", l.ID)
	fe.Required("code", l.Code)
	fe.Required("name", l.Name)
	fe.Required("tenantId", l.TenantID)
	fe.UUID("tenantId", l.TenantID)
	fe.NotZeroTime("createdAt", l.CreatedAt)
	fe.NotZeroTime("updatedAt", l.UpdatedAt)
	return fe.Err()
}

type Create struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	TenantID    string  `json:"tenantId"`
	IsActive    bool    `json:"isActive"`
}

func (c Create) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("code", c.Code)
	fe.Required("name", c.Name)
	fe.Required("tenantId", c.TenantID)
	fe.UUID("tenantId", c.TenantID)
	return fe.Err()
}

type Update struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

func (u Update) Validate() error {
	fe := schema.FieldErrors{}
	if u.Code != nil {
		fe.Required("code", *u.Code)
	}
	if u.Name != nil {
		fe.Required("name", *u.Name)
	}
	return fe.Err()
}

// Query is the /lines list filter state.
type Query struct {
	pagination.Query
	TenantID string
}

func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.TenantID != "" {
		v.Set("tenantId", q.TenantID)
	}
	return v
}

func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.TenantID != "" {
		merged.TenantID = override.TenantID
	}
	return merged
}
