package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"holiday-planner/internal/auth"
	"holiday-planner/internal/models"
	"holiday-planner/internal/planner"
	"holiday-planner/internal/storage"

	"github.com/rs/zerolog"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated username.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour

	maxBodyBytes = 1 << 20
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	users        *storage.CredentialStore
	plans        planner.Store
	sessions     *storage.SessionDB
	log          zerolog.Logger
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(users *storage.CredentialStore, plans planner.Store, sessions *storage.SessionDB, log zerolog.Logger, secureCookie bool) *Handlers {
	return &Handlers{users: users, plans: plans, sessions: sessions, log: log, secureCookie: secureCookie}
}

// GetUserFromContext retrieves the authenticated username from request context.
func GetUserFromContext(r *http.Request) string {
	if user, ok := r.Context().Value(UserContextKey).(string); ok {
		return user
	}
	return ""
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "login required")
			return
		}

		session, err := h.sessions.ValidateSessionWithInfo(cookie.Value)
		if err != nil {
			h.clearSessionCookie(w)
			writeMessage(w, http.StatusUnauthorized, "session expired, please login again")
			return
		}

		now := time.Now()
		if session.ExpiresAt.Sub(now) < SessionDuration/2 {
			newExpiresAt := now.Add(SessionDuration)
			if err := h.sessions.RenewSession(cookie.Value, newExpiresAt); err != nil {
				h.log.Warn().Err(err).Str("username", session.Username).Msg("failed to renew session")
			} else {
				h.setSessionCookie(w, cookie.Value)
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, session.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type credentialsRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates an account.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password != req.ConfirmPassword {
		h.writeError(w, r, models.ErrPasswordMismatch)
		return
	}
	if err := h.users.Register(req.Username, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	h.log.Info().Str("username", username).Msg("user registered")
	writeJSON(w, http.StatusCreated, map[string]string{
		"username": username,
		"message":  "Registration successful! Please login.",
	})
}

// Login checks credentials and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.users.Authenticate(username, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.sessions.CreateSession(token, username, time.Now().Add(SessionDuration)); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

// Logout ends the current session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.sessions.DeleteSession(cookie.Value); err != nil {
			h.log.Error().Err(err).Msg("failed to delete session")
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// openSession loads the plans of the authenticated user for this request.
func (h *Handlers) openSession(r *http.Request) (*planner.Session, error) {
	return planner.Open(h.plans, GetUserFromContext(r))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps err to a status code and a user-visible message.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please check your inputs and try again.", Problems: ve.Problems})
	case errors.Is(err, models.ErrWeakPassword),
		errors.Is(err, models.ErrPasswordMismatch),
		errors.Is(err, models.ErrUnknownCurrency):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateUser):
		writeMessage(w, http.StatusConflict, models.ErrDuplicateUser.Error())
	case errors.Is(err, models.ErrUnknownUser), errors.Is(err, models.ErrBadPassword):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
