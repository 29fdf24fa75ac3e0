package mockapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flexmedia-fm/autopass-console/installations"
	"github.com/flexmedia-fm/autopass-console/lines"
	"github.com/flexmedia-fm/autopass-console/tenants"
)

func installationSortKey(i installations.Installation, column string) sortKey {
	switch column {
	case "code":
		return strKey(i.Code)
	case "name":
		return strKey(i.Name)
	default:
		return timeKey(i.CreatedAt)
	}
}

func (s *Server) ListInstallationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]installations.Installation, 0, len(s.installations))
		for _, i := range s.installations {
			all = append(all, i)
		}
		s.mu.Unlock()

		page := listOver(all, p, func(i installations.Installation) bool {
			if tenantID := q.Get("tenantId"); tenantID != "" && i.TenantID != tenantID {
				return false
			}
			if city := q.Get("city"); city != "" && (i.City == nil || *i.City != city) {
				return false
			}
			if p.Search != "" && !containsFold(i.Code, p.Search) && !containsFold(i.Name, p.Search) {
				return false
			}
			return true
		}, installationSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetInstallationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		i, ok := s.installations[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "installation not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, i)
	}
}

func (s *Server) CreateInstallationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload installations.Create
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.nowTime()
		i := installations.Installation{
			ID:        uuid.NewString(),
			Code:      payload.Code,
			Name:      payload.Name,
			Address:   payload.Address,
			City:      payload.City,
			State:     payload.State,
			ZipCode:   payload.ZipCode,
			Location:  payload.Location,
			TenantID:  payload.TenantID,
			IsActive:  payload.IsActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.installations[i.ID] = i
		respondJSON(w, http.StatusCreated, i)
	}
}

func (s *Server) UpdateInstallationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload installations.Update
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		i, ok := s.installations[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "installation not found", "NOT_FOUND")
			return
		}
		if payload.Code != nil {
			i.Code = *payload.Code
		}
		if payload.Name != nil {
			i.Name = *payload.Name
		}
		if payload.Address != nil {
			i.Address = payload.Address
		}
		if payload.City != nil {
			i.City = payload.City
		}
		if payload.State != nil {
			i.State = payload.State
		}
		if payload.ZipCode != nil {
			i.ZipCode = payload.ZipCode
		}
		if payload.Location != nil {
			i.Location = payload.Location
		}
		if payload.IsActive != nil {
			i.IsActive = *payload.IsActive
		}
		i.UpdatedAt = s.nowTime()
		s.installations[i.ID] = i
		respondJSON(w, http.StatusOK, i)
	}
}

func (s *Server) DeleteInstallationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := s.installations[id]; !ok {
			respondError(w, http.StatusNotFound, "installation not found", "NOT_FOUND")
			return
		}
		delete(s.installations, id)
		respondJSON(w, http.StatusNoContent, nil)
	}
}

func tenantSortKey(t tenants.Tenant, column string) sortKey {
	switch column {
	case "name":
		return strKey(t.Name)
	default:
		return timeKey(t.CreatedAt)
	}
}

func (s *Server) ListTenantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]tenants.Tenant, 0, len(s.tenants))
		for _, t := range s.tenants {
			all = append(all, t)
		}
		s.mu.Unlock()

		page := listOver(all, p, func(t tenants.Tenant) bool {
			if active := q.Get("isActive"); active != "" {
				want, _ := strconv.ParseBool(active)
				if t.IsActive != want {
					return false
				}
			}
			if p.Search != "" && !containsFold(t.Name, p.Search) {
				return false
			}
			return true
		}, tenantSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		t, ok := s.tenants[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "tenant not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func lineSortKey(l lines.Line, column string) sortKey {
	switch column {
	case "code":
		return strKey(l.Code)
	case "name":
		return strKey(l.Name)
	default:
		return timeKey(l.CreatedAt)
	}
}

func (s *Server) ListLinesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]lines.Line, 0, len(s.lines))
		for _, l := range s.lines {
			all = append(all, l)
		}
		s.mu.Unlock()

		page := listOver(all, p, func(l lines.Line) bool {
			if tenantID := q.Get("tenantId"); tenantID != "" && l.TenantID != tenantID {
				return false
			}
			if p.Search != "" && !containsFold(l.Code, p.Search) && !containsFold(l.Name, p.Search) {
				return false
			}
			return true
		}, lineSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetLineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		l, ok := s.lines[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "line not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, l)
	}
}

func (s *Server) CreateLineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lines.Create
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		now := s.nowTime()
		l := lines.Line{
			ID:          uuid.NewString(),
			Code:        payload.Code,
			Name:        payload.Name,
			Description: payload.Description,
			TenantID:    payload.TenantID,
			IsActive:    payload.IsActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.lines[l.ID] = l
		respondJSON(w, http.StatusCreated, l)
	}
}

func (s *Server) UpdateLineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload lines.Update
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		l, ok := s.lines[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "line not found", "NOT_FOUND")
			return
		}
		if payload.Code != nil {
			l.Code = *payload.Code
		}
		if payload.Name != nil {
			l.Name = *payload.Name
		}
		if payload.Description != nil {
			l.Description = payload.Description
		}
		if payload.IsActive != nil {
			l.IsActive = *payload.IsActive
		}
		l.UpdatedAt = s.nowTime()
		s.lines[l.ID] = l
		respondJSON(w, http.StatusOK, l)
	}
}

func (s *Server) DeleteLineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := s.lines[id]; !ok {
			respondError(w, http.StatusNotFound, "line not found", "NOT_FOUND")
			return
		}
		delete(s.lines, id)
		respondJSON(w, http.StatusNoContent, nil)
	}
}
