package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flexmedia-fm/autopass-console/devices"
)

func deviceSortKey(d devices.Device, column string) sortKey {
	switch column {
	case "serialNumber":
		return strKey(d.SerialNumber)
	case "status":
		return strKey(string(d.Status))
	case "updatedAt":
		return timeKey(d.UpdatedAt)
	default:
		return timeKey(d.CreatedAt)
	}
}

func (s *Server) ListDevicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]devices.Device, 0, len(s.devices))
		for _, d := range s.devices {
			all = append(all, d)
		}
		s.mu.Unlock()

		page := listOver(all, p, func(d devices.Device) bool {
			if status := q.Get("status"); status != "" && string(d.Status) != status {
				return false
			}
			if atmID := q.Get("atmId"); atmID != "" && (d.AtmID == nil || *d.AtmID != atmID) {
				return false
			}
			if p.Search != "" && !containsFold(d.SerialNumber, p.Search) {
				return false
			}
			return true
		}, deviceSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) DeviceStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		stats := devices.Statistics{ByStatus: make(map[devices.Status]int)}
		for _, d := range s.devices {
			stats.Total++
			stats.ByStatus[d.Status]++
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) GetDeviceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		d, ok := s.devices[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "device not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, d)
	}
}

func (s *Server) CreateDeviceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload devices.Create
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
		d := devices.Device{
			ID:                  uuid.NewString(),
			SerialNumber:        payload.SerialNumber,
			Code:                payload.Code,
			AtmID:               payload.AtmID,
			TenantID:            payload.TenantID,
			Status:              payload.Status,
			InstallationDate:    payload.InstallationDate,
			LastMaintenanceDate: payload.LastMaintenanceDate,
			Notes:               payload.Notes,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		s.devices[d.ID] = d
		respondJSON(w, http.StatusCreated, d)
	}
}

func (s *Server) UpdateDeviceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload devices.Update
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		d, ok := s.devices[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "device not found", "NOT_FOUND")
			return
		}
		if payload.SerialNumber != nil {
			d.SerialNumber = *payload.SerialNumber
		}
		if payload.Code != nil {
			d.Code = payload.Code
		}
		if payload.AtmID != nil {
			d.AtmID = payload.AtmID
		}
		if payload.TenantID != nil {
			d.TenantID = *payload.TenantID
		}
		if payload.Status != nil {
			d.Status = *payload.Status
		}
		if payload.InstallationDate != nil {
			d.InstallationDate = payload.InstallationDate
		}
		if payload.LastMaintenanceDate != nil {
			d.LastMaintenanceDate = payload.LastMaintenanceDate
		}
		if payload.Notes != nil {
			d.Notes = payload.Notes
		}
		d.UpdatedAt = s.nowTime()
		s.devices[d.ID] = d
		respondJSON(w, http.StatusOK, d)
	}
}

func (s *Server) DeleteDeviceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := s.devices[id]; !ok {
			respondError(w, http.StatusNotFound, "device not found", "NOT_FOUND")
			return
		}
		delete(s.devices, id)
		respondJSON(w, http.StatusNoContent, nil)
	}
}
