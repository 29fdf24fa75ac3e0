package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

type listParams struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
	Search string
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	p := listParams{
		Page:   1,
		Limit:  10,
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
		Search: strings.ToLower(strings.TrimSpace(q.Get("search"))),
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if p.Order == "" {
		p.Order = "desc"
	}
	return p
}

type pageResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// sortKey projects an item to a comparable string/time pair for the
// requested column. Unknown columns fall back to the time key so the
// listing stays deterministic.
type sortKey struct {
	Str    string
	Time   time.Time
	IsTime bool
}

func strKey(s string) sortKey     { return sortKey{Str: strings.ToLower(s)} }
func timeKey(t time.Time) sortKey { return sortKey{Time: t, IsTime: true} }

func (a sortKey) less(b sortKey) bool {
	if a.IsTime {
		return a.Time.Before(b.Time)
	}
	return a.Str < b.Str
}

// listOver filters, sorts and pages a snapshot of items.
func listOver[T any](items []T, p listParams, match func(T) bool, key func(T, string) sortKey) pageResponse[T] {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if match == nil || match(it) {
			filtered = append(filtered, it)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := key(filtered[i], p.SortBy), key(filtered[j], p.SortBy)
		if p.Order == "asc" {
			return a.less(b)
		}
		return b.less(a)
	})

	total := len(filtered)
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return pageResponse[T]{
		Data:  filtered[start:end],
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
