package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flexmedia-fm/autopass-console/internal/utils"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// sessionClaims is the access token payload, mirroring what the profile
// endpoint returns.
type sessionClaims struct {
	Email      string  `json:"email"`
	TenantID   string  `json:"tenantId"`
	TenantRole *string `json:"tenantRole,omitempty"`
	UserRole   string  `json:"userRole"`
	IsActive   bool    `json:"isActive"`
	jwt.RegisteredClaims
}

func (s *Server) issueAccessToken(rec userRecord) (string, error) {
	now := s.nowTime()
	claims := sessionClaims{
		Email:      rec.Email,
		TenantID:   rec.TenantID,
		TenantRole: rec.TenantRole,
		UserRole:   string(rec.UserRole),
		IsActive:   rec.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseAccessToken(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.nowTime),
	).ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// rotateRefreshToken mints a fresh opaque token for the user, revoking any
// predecessor. Callers hold s.mu.
func (s *Server) rotateRefreshToken(userID string) string {
	if old, ok := s.activeRefresh[userID]; ok {
		delete(s.refreshTokens, old)
	}
	tok := uuid.NewString()
	s.refreshTokens[tok] = userID
	s.activeRefresh[userID] = tok
	return tok
}

// requireAuth gates a route on a live access token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token", "UNAUTHORIZED")
			return
		}
		claims, err := s.parseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token", "UNAUTHORIZED")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.findUserByEmail(body.Email)
		if !ok || bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(body.Password)) != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials", "INVALID_CREDENTIALS")
			return
		}
		if !rec.IsActive {
			respondError(w, http.StatusForbidden, "account disabled", "ACCOUNT_DISABLED")
			return
		}

		access, err := s.issueAccessToken(rec)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "token issue failed", "INTERNAL")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"access_token":  access,
			"refresh_token": s.rotateRefreshToken(rec.ID),
		})
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		userID, ok := s.refreshTokens[body.RefreshToken]
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid refresh token", "INVALID_REFRESH_TOKEN")
			return
		}
		rec, ok := s.users[userID]
		if !ok || !rec.IsActive {
			delete(s.refreshTokens, body.RefreshToken)
			delete(s.activeRefresh, userID)
			respondError(w, http.StatusUnauthorized, "invalid refresh token", "INVALID_REFRESH_TOKEN")
			return
		}

		access, err := s.issueAccessToken(rec)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "token issue failed", "INTERNAL")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"access_token":  access,
			"refresh_token": s.rotateRefreshToken(rec.ID),
		})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.users[r.Context().Value(userIDKey).(string)]
		if !ok {
			respondError(w, http.StatusUnauthorized, "unknown user", "UNAUTHORIZED")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"userId":     rec.ID,
			"email":      rec.Email,
			"tenantId":   rec.TenantID,
			"tenantRole": rec.TenantRole,
			"userRole":   rec.UserRole,
			"isActive":   rec.IsActive,
		})
	}
}

func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// requireAuth already vouched for the token.
		respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		userID := r.Context().Value(userIDKey).(string)
		if tok, ok := s.activeRefresh[userID]; ok {
			delete(s.refreshTokens, tok)
			delete(s.activeRefresh, userID)
		}
		respondJSON(w, http.StatusNoContent, nil)
	}
}

func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		// Same response whether or not the account exists.
		if rec, ok := s.findUserByEmail(body.Email); ok {
			rec.ResetToken = utils.Ptr(uuid.NewString())
			rec.ResetExpires = utils.Ptr(s.nowTime().Add(time.Hour))
			s.users[rec.ID] = rec
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "recovery email sent"})
	}
}

func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if len(body.Password) < 6 {
			respondError(w, http.StatusBadRequest, "password too short", "VALIDATION")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		for id, rec := range s.users {
			if rec.ResetToken == nil || *rec.ResetToken != body.Token {
				continue
			}
			if rec.ResetExpires == nil || s.nowTime().After(*rec.ResetExpires) {
				break
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "hash failed", "INTERNAL")
				return
			}
			rec.PasswordHash = hash
			rec.ResetToken = nil
			rec.ResetExpires = nil
			rec.UpdatedAt = s.nowTime()
			s.users[id] = rec
			respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
			return
		}
		respondError(w, http.StatusBadRequest, "invalid or expired reset token", "INVALID_RESET_TOKEN")
	}
}

// findUserByEmail requires s.mu.
func (s *Server) findUserByEmail(email string) (userRecord, bool) {
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, rec := range s.users {
		if strings.ToLower(rec.Email) == needle {
			return rec, true
		}
	}
	return userRecord{}, false
}
