// Package pagination carries the list-endpoint contract shared by every
// domain service: 1-based pages, shallow-merged filters, and query
// serialization that omits absent fields instead of sending empty values.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// Sort orders accepted by the backend.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Page is one page of a paginated collection. Page numbers are 1-based
// and len(Data) never exceeds Limit.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Empty returns the shape loaders resolve when failing soft: no rows, a
// valid 1-based page.
func Empty[T any](limit int) Page[T] {
	return Page[T]{Data: []T{}, Page: 1, Limit: limit}
}

// Validatable is implemented by every wire entity.
type Validatable interface {
	Validate() error
}

// ValidateAll checks each element of a page. One malformed element aborts
// the whole call: callers never see partial results.
func ValidateAll[T Validatable](p Page[T]) error {
	for i, item := range p.Data {
		if err := item.Validate(); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

// Query is the base filter state every list endpoint accepts. Zero-valued
// fields are absent: they are omitted from the query string and they keep
// the previous value when merged into a store's filters.
type Query struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
	Search string
}

// Values serializes only the fields that are set.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Merge overlays the set fields of override onto q.
func (q Query) Merge(override Query) Query {
	merged := q
	if override.Page > 0 {
		merged.Page = override.Page
	}
	if override.Limit > 0 {
		merged.Limit = override.Limit
	}
	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}
	if override.Order != "" {
		merged.Order = override.Order
	}
	if override.Search != "" {
		merged.Search = override.Search
	}
	return merged
}

// FromGridPage converts a 0-based data-grid page index to the 1-based
// convention stores and queries use. State is never held 0-based; these
// two helpers are the only place the conventions meet.
func FromGridPage(zeroBased int) int {
	return zeroBased + 1
}

// ToGridPage converts a 1-based page number to the 0-based grid index.
func ToGridPage(oneBased int) int {
	if oneBased < 1 {
		return 0
	}
	return oneBased - 1
}
