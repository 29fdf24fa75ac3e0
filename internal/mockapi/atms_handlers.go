package mockapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flexmedia-fm/autopass-console/atms"
)

func atmSortKey(a atms.ATM, column string) sortKey {
	switch column {
	case "code":
		return strKey(a.Code)
	case "name":
		return strKey(a.Name)
	case "status":
		return strKey(string(a.Status))
	case "updatedAt":
		return timeKey(a.UpdatedAt)
	default:
		return timeKey(a.CreatedAt)
	}
}

func (s *Server) ListATMsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]atms.ATM, 0, len(s.atms))
		for _, a := range s.atms {
			all = append(all, s.expandATM(a))
		}
		s.mu.Unlock()

		page := listOver(all, p, func(a atms.ATM) bool {
			if tenantID := q.Get("tenantId"); tenantID != "" && a.TenantID != tenantID {
				return false
			}
			if instID := q.Get("installationId"); instID != "" && (a.InstallationID == nil || *a.InstallationID != instID) {
				return false
			}
			if status := q.Get("status"); status != "" && string(a.Status) != status {
				return false
			}
			if active := q.Get("isActive"); active != "" {
				want, _ := strconv.ParseBool(active)
				if a.IsActive != want {
					return false
				}
			}
			if p.Search != "" && !containsFold(a.Code, p.Search) && !containsFold(a.Name, p.Search) {
				return false
			}
			return true
		}, atmSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) ATMStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		stats := atms.Statistics{ByStatus: make(map[atms.Status]int)}
		for _, a := range s.atms {
			stats.Total++
			stats.ByStatus[a.Status]++
			if a.IsActive {
				stats.Active++
			} else {
				stats.Inactive++
			}
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) GetATMHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		a, ok := s.atms[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "atm not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, s.expandATM(a))
	}
}

func (s *Server) CreateATMHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload atms.Create
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
		a := atms.ATM{
			ID:             uuid.NewString(),
			Code:           payload.Code,
			Name:           payload.Name,
			Location:       payload.Location,
			Address:        payload.Address,
			TenantID:       payload.TenantID,
			InstallationID: payload.InstallationID,
			Status:         payload.Status,
			IsActive:       payload.IsActive,
			Notes:          payload.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.atms[a.ID] = a
		respondJSON(w, http.StatusCreated, s.expandATM(a))
	}
}

func (s *Server) UpdateATMHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload atms.Update
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		a, ok := s.atms[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "atm not found", "NOT_FOUND")
			return
		}
		if payload.Code != nil {
			a.Code = *payload.Code
		}
		if payload.Name != nil {
			a.Name = *payload.Name
		}
		if payload.Location != nil {
			a.Location = payload.Location
		}
		if payload.Address != nil {
			a.Address = payload.Address
		}
		if payload.TenantID != nil {
			a.TenantID = *payload.TenantID
		}
		if payload.InstallationID != nil {
			a.InstallationID = payload.InstallationID
		}
		if payload.Status != nil {
			a.Status = *payload.Status
		}
		if payload.IsActive != nil {
			a.IsActive = *payload.IsActive
		}
		if payload.Notes != nil {
			a.Notes = payload.Notes
		}
		a.UpdatedAt = s.nowTime()
		s.atms[a.ID] = a
		respondJSON(w, http.StatusOK, s.expandATM(a))
	}
}

func (s *Server) DeleteATMHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := s.atms[id]; !ok {
			respondError(w, http.StatusNotFound, "atm not found", "NOT_FOUND")
			return
		}
		delete(s.atms, id)
		respondJSON(w, http.StatusNoContent, nil)
	}
}

// expandATM attaches the tenant and installation projections list
// consumers expect. Callers hold s.mu.
func (s *Server) expandATM(a atms.ATM) atms.ATM {
	if t, ok := s.tenants[a.TenantID]; ok {
		a.Tenant = &atms.RelatedTenant{ID: t.ID, Name: t.Name, FantasyName: t.FantasyName}
	}
	if a.InstallationID != nil {
		if inst, ok := s.installations[*a.InstallationID]; ok {
			a.Installation = &atms.RelatedInstallation{Code: inst.Code}
		}
	}
	return a
}
