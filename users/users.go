// Package users is the typed façade over the /users endpoints plus the
// console's user list state, the one store that reconciles optimistically
// instead of refetching after every mutation.
package users

import (
	"net/url"
	"strconv"
	"time"

	"github.com/flexmedia-fm/autopass-console/pagination"
	"github.com/flexmedia-fm/autopass-console/schema"
)

// Role is an operator/admin console role.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// User is a console account as the backend returns it.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Login        string     `json:"login"`
	Name         *string    `json:"name"`
	UserRole     Role       `json:"userRole"`
	IsActive     bool       `json:"isActive"`
	TenantID     string     `json:"tenantId"`
	TenantName   string     `json:"tenantName"`
	TenantRole   *string    `json:"tenantRole"`
	ResetToken   *string    `json:"resetToken"`
	ResetExpires *time.Time `json:"resetExpires"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Validate checks a wire representation against the entity schema.
func (u User) Validate() error {
	fe := schema.FieldErrors{}
	fe.Required("id", u.ID)
	fe.Email("email", u.Email)
	fe.Required("login", u.Login)
	fe.OneOf("userRole", string(u.UserRole), string(RoleAdmin), string(RoleOperator))
	fe.Required("tenantId", u.TenantID)
	fe.Required("tenantName", u.TenantName)
	fe.NotZeroTime("createdAt", u.CreatedAt)
	fe.NotZeroTime("updatedAt", u.UpdatedAt)
	return fe.Err()
}

// Create is the payload for POST /users: the entity minus server-assigned
// fields, plus the initial password.
type Create struct {
	Email      string  `json:"email"`
	Login      string  `json:"login"`
	Name       *string `json:"name,omitempty"`
	Password   string  `json:"password"`
	UserRole   Role    `json:"userRole"`
	IsActive   bool    `json:"isActive"`
	TenantID   string  `json:"tenantId"`
	TenantName string  `json:"tenantName"`
	TenantRole *string `json:"tenantRole,omitempty"`
}

func (c Create) Validate() error {
	fe := schema.FieldErrors{}
	fe.Email("email", c.Email)
	fe.Required("login", c.Login)
	fe.MinLen("password", c.Password, 6)
	fe.OneOf("userRole", string(c.UserRole), string(RoleAdmin), string(RoleOperator))
	if c.TenantID == "" || c.TenantName == "" {
		fe["tenantId"] = "tenant is required"
	}
	return fe.Err()
}

// Update is the partial payload for PATCH /users/:id. Every field is
// optional; nil means "leave unchanged". Server-assigned fields (id,
// createdAt, reset fields) are never sent.
type Update struct {
	Email      *string `json:"email,omitempty"`
	Login      *string `json:"login,omitempty"`
	Name       *string `json:"name,omitempty"`
	Password   *string `json:"password,omitempty"`
	UserRole   *Role   `json:"userRole,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	TenantID   *string `json:"tenantId,omitempty"`
	TenantName *string `json:"tenantName,omitempty"`
	TenantRole *string `json:"tenantRole,omitempty"`
}

func (u Update) Validate() error {
	fe := schema.FieldErrors{}
	if u.Email != nil {
		fe.Email("email", *u.Email)
	}
	if u.Login != nil {
		fe.Required("login", *u.Login)
	}
	if u.Password != nil {
		fe.MinLen("password", *u.Password, 6)
	}
	if u.UserRole != nil {
		fe.OneOf("userRole", string(*u.UserRole), string(RoleAdmin), string(RoleOperator))
	}
	return fe.Err()
}

// Query is the /users list filter state.
type Query struct {
	pagination.Query
	UserRole Role
	IsActive *bool
	TenantID string
}

// Values serializes only the fields that are set; absent filters are
// omitted, never sent as empty strings.
func (q Query) Values() url.Values {
	v := q.Query.Values()
	if q.UserRole != "" {
		v.Set("userRole", string(q.UserRole))
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	if q.TenantID != "" {
		v.Set("tenantId", q.TenantID)
	}
	return v
}

// Merge overlays the set fields of override onto q, shallow-merge style.
func (q Query) Merge(override Query) Query {
	merged := q
	merged.Query = q.Query.Merge(override.Query)
	if override.UserRole != "" {
		merged.UserRole = override.UserRole
	}
	if override.IsActive != nil {
		merged.IsActive = override.IsActive
	}
	if override.TenantID != "" {
		merged.TenantID = override.TenantID
	}
	return merged
}
