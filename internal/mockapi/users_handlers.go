package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flexmedia-fm/autopass-console/internal/utils"
	"github.com/flexmedia-fm/autopass-console/users"
)

func userSortKey(u users.User, column string) sortKey {
	switch column {
	case "email":
		return strKey(u.Email)
	case "login":
		return strKey(u.Login)
	case "tenantName":
		return strKey(u.TenantName)
	case "updatedAt":
		return timeKey(u.UpdatedAt)
	default:
		return timeKey(u.CreatedAt)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseListParams(r)
		q := r.URL.Query()

		s.mu.Lock()
		all := make([]users.User, 0, len(s.users))
		for _, rec := range s.users {
			all = append(all, rec.User)
		}
		s.mu.Unlock()

		page := listOver(all, p, func(u users.User) bool {
			if role := q.Get("userRole"); role != "" && string(u.UserRole) != role {
				return false
			}
			if active := q.Get("isActive"); active != "" {
				want, _ := strconv.ParseBool(active)
				if u.IsActive != want {
					return false
				}
			}
			if tenantID := q.Get("tenantId"); tenantID != "" && u.TenantID != tenantID {
				return false
			}
			if p.Search != "" {
				name := ""
				if u.Name != nil {
					name = *u.Name
				}
				if !containsFold(u.Email, p.Search) && !containsFold(u.Login, p.Search) && !containsFold(name, p.Search) {
					return false
				}
			}
			return true
		}, userSortKey)

		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.users[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		respondJSON(w, http.StatusOK, rec.User)
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload users.Create
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, exists := s.findUserByEmail(payload.Email); exists {
			respondError(w, http.StatusConflict, "email already in use", "EMAIL_TAKEN")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "hash failed", "INTERNAL")
			return
		}

		now := s.nowTime()
		rec := userRecord{
			User: users.User{
				ID:         uuid.NewString(),
				Email:      payload.Email,
				Login:      payload.Login,
				Name:       payload.Name,
				UserRole:   payload.UserRole,
				IsActive:   payload.IsActive,
				TenantID:   payload.TenantID,
				TenantName: payload.TenantName,
				TenantRole: payload.TenantRole,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
			PasswordHash: hash,
		}
		s.users[rec.ID] = rec
		respondJSON(w, http.StatusCreated, rec.User)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload users.Update
		if !decodeBody(w, r, &payload) {
			return
		}
		if err := payload.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.users[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		if payload.Email != nil {
			rec.Email = *payload.Email
		}
		if payload.Login != nil {
			rec.Login = *payload.Login
		}
		if payload.Name != nil {
			rec.Name = payload.Name
		}
		if payload.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "hash failed", "INTERNAL")
				return
			}
			rec.PasswordHash = hash
		}
		if payload.UserRole != nil {
			rec.UserRole = *payload.UserRole
		}
		if payload.IsActive != nil {
			rec.IsActive = *payload.IsActive
		}
		if payload.TenantID != nil {
			rec.TenantID = *payload.TenantID
		}
		if payload.TenantName != nil {
			rec.TenantName = *payload.TenantName
		}
		if payload.TenantRole != nil {
			rec.TenantRole = payload.TenantRole
		}
		rec.UpdatedAt = s.nowTime()
		s.users[rec.ID] = rec
		respondJSON(w, http.StatusOK, rec.User)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := chi.URLParam(r, "id")
		if _, ok := s.users[id]; !ok {
			respondError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		delete(s.users, id)
		if tok, ok := s.activeRefresh[id]; ok {
			delete(s.refreshTokens, tok)
			delete(s.activeRefresh, id)
		}
		respondJSON(w, http.StatusNoContent, nil)
	}
}

// ResetUserPasswordHandler is the admin-initiated reset: it stages a reset
// token for the target account the same way the self-service flow does.
func (s *Server) ResetUserPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.findUserByEmail(body.Email)
		if !ok {
			respondError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		rec.ResetToken = utils.Ptr(uuid.NewString())
		rec.ResetExpires = utils.Ptr(s.nowTime().Add(time.Hour))
		s.users[rec.ID] = rec
		respondJSON(w, http.StatusOK, map[string]string{"message": "reset initiated"})
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if len(body.NewPassword) < 6 {
			respondError(w, http.StatusBadRequest, "password too short", "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.users[r.Context().Value(userIDKey).(string)]
		if !ok {
			respondError(w, http.StatusUnauthorized, "unknown user", "UNAUTHORIZED")
			return
		}
		if bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(body.CurrentPassword)) != nil {
			respondError(w, http.StatusForbidden, "current password does not match", "INVALID_PASSWORD")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "hash failed", "INTERNAL")
			return
		}
		rec.PasswordHash = hash
		rec.UpdatedAt = s.nowTime()
		s.users[rec.ID] = rec
		respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

func (s *Server) ToggleUserStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.users[chi.URLParam(r, "id")]
		if !ok {
			respondError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		rec.IsActive = !rec.IsActive
		rec.UpdatedAt = s.nowTime()
		s.users[rec.ID] = rec
		respondJSON(w, http.StatusOK, rec.User)
	}
}
