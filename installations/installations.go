// Package installations covers the physical sites ATMs are deployed to.
package installations

import (
	"net/url"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Location is an optional geographic point for the site.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) Validate() error {
	fe := schema.FieldErrors{}
	fe.FloatRange("lat", l.Lat, -90, 90)
	fe.FloatRange("lng", l.Lng, -180, 180)
	return fe.Err()
}

// Installation is a customer site as the backend returns it.
type Installation struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	ZipCode   *string   `json:"zipCode,omitempty"`
	Location  *Location `json:"location,omitempty"`
	TenantID  string    `json:"tenantId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i Installation) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", i.ID)
	fe.Required("code", i.Code)
	fe.Required("name", i.Name)
	fe.Required("tenantId", i.TenantID)
	fe.NotZeroTime("createdAt", i.CreatedAt)
	fe.NotZeroTime("updatedAt", i.UpdatedAt)
	if i.Location != nil {
		if err := i.Location.Validate(); err != nil {
			return err
		}
	}
	return fe.Err()
}

type Create struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Address  *string   `json:"address,omitempty"`
	City     *string   `json:"city,omitempty"`
	State    *string   `json:"state,omitempty"`
	ZipCode  *string   `json:"zipCode,omitempty"`
	Location *Location `json:"location,omitempty"`
	TenantID string    `json:"tenantId"`
	IsActive bool      `json:"isActive"`
}

func (c Create) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("code", c.Code)
	fe.Required("name", c.Name)
	fe.Required("tenantId", c.TenantID)
	if err := fe.Err(); err != nil {
		return err
	}
	if c.Location != nil {
		return c.Location.Validate()
	}
	return nil
}

type Update struct {
	Code     *string   `json:"code,omitempty"`
	Name     *string   `json:"name,omitempty"`
	Address  *string   `json:"address,omitempty"`
	City     *string   `json:"city,omitempty"`
	State    *string   `json:"state,omitempty"`
	ZipCode  *string   `json:"zipCode,omitempty"`
	Location *Location `json:"location,omitempty"`
	IsActive *bool     `json:"isActive,omitempty"`
}

func (u Update) Validate() error {
	fe := schema.FieldErrors{}
	if u.Code != nil {
		fe.Required("code", *u.Code)
	}
	if u.Name != nil {
		fe.Required("name", *u.Name)
	}
	if err := fe.Err(); err != nil {
		return err
	}
	if u.Location != nil {
		return u.Location.Validate()
	}
	return nil
}

// Query is the /installations list filter state.
type Query struct {
	pagination.Query
	TenantID string
	City     string
}

func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.TenantID != "" {
		v.Set("tenantId", q.TenantID)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	return v
}

func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.TenantID != "" {
		merged.TenantID = override.TenantID
	}
	if override.City != "" {
		merged.City = override.City
	}
	return merged
}
