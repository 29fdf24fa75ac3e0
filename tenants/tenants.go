// Package tenants covers the operator companies that own ATMs and users.
package tenants

import (
	"net/url"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Tenant is an operator company as the backend returns it.
type Tenant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FantasyName  *string   `json:"fantasyName,omitempty"`
	CNPJ         *string   `json:"cnpj,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	BillingEmail *string   `json:"billingEmail,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (t Tenant) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", t.ID)
	fe.Required("name", t.Name)
	fe.NotZeroTime("createdAt", t.CreatedAt)
	fe.NotZeroTime("updatedAt", t.UpdatedAt)
	if t.Email != nil {
		fe.Email("email", *t.Email)
	}
	if t.BillingEmail != nil {
		fe.Email("billingEmail", *t.BillingEmail)
	}
	return fe.Err()
}

// Summary is the selection-list projection of a tenant.
type Summary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FantasyName *string `json:"fantasyName,omitempty"`
}

// Query is the /tenants list filter state.
type Query struct {
	pagination.Query
	IsActive *bool
}

func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.IsActive != nil {
		if *q.IsActive {
			v.Set("isActive", "true")
		} else {
			v.Set("isActive", "false")
		}
	}
	return v
}

func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.IsActive != nil {
		merged.IsActive = override.IsActive
	}
	return merged
}
