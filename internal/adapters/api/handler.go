package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
)

// APIHandler handles HTTP requests for authentication, API-key management
// and the event/course/media catalog.
type APIHandler struct {
	auth       ports.AuthService
	keys       ports.APIKeyService
	catalog    ports.CatalogService
	mw         *Auth
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewAPIHandler creates and returns a new APIHandler instance.
func NewAPIHandler(auth ports.AuthService, keys ports.APIKeyService, catalog ports.CatalogService, mw *Auth, logger *slog.Logger, sessionTTL time.Duration) *APIHandler {
	return &APIHandler{auth: auth, keys: keys, catalog: catalog, mw: mw, logger: logger, sessionTTL: sessionTTL}
}

// RegisterRoutes registers the API routes with the provided ServeMux.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)

	// Everything under the resolver; protected routes additionally require
	// a resolved identity. API-key callers are further constrained by the
	// allow-list inside the resolver.
	protected := func(fn http.HandlerFunc) http.Handler {
		return h.mw.Resolve(h.mw.Require(fn))
	}

	mux.Handle("GET /api/user", protected(h.CurrentUser))
	mux.Handle("PUT /api/user/password", protected(h.ChangePassword))
	mux.Handle("PUT /api/user/settings", protected(h.UpdateSettings))

	mux.Handle("POST /api/keys", protected(h.CreateKey))
	mux.Handle("GET /api/keys", protected(h.ListKeys))
	mux.Handle("PUT /api/keys/{id}/toggle", protected(h.ToggleKey))
	mux.Handle("DELETE /api/keys/{id}", protected(h.DeleteKey))

	mux.Handle("GET /api/events", protected(h.ListEvents))
	mux.Handle("POST /api/events", protected(h.CreateEvent))
	mux.Handle("GET /api/events/{id}", protected(h.GetEvent))
	mux.Handle("PUT /api/events/{id}", protected(h.UpdateEvent))
	mux.Handle("DELETE /api/events/{id}", protected(h.DeleteEvent))
	mux.Handle("GET /api/events/{id}/participants", protected(h.ListParticipants))
	mux.Handle("POST /api/events/{id}/participants", protected(h.RegisterParticipant))
	mux.Handle("DELETE /api/events/{id}/participants/{pid}", protected(h.RemoveParticipant))

	mux.Handle("GET /api/courses", protected(h.ListCourses))
	mux.Handle("POST /api/courses", protected(h.CreateCourse))
	mux.Handle("GET /api/courses/{id}", protected(h.GetCourse))
	mux.Handle("PUT /api/courses/{id}", protected(h.UpdateCourse))
	mux.Handle("DELETE /api/courses/{id}", protected(h.DeleteCourse))
	mux.Handle("GET /api/courses/{id}/sessions", protected(h.ListCourseSessions))
	mux.Handle("POST /api/courses/{id}/sessions", protected(h.CreateCourseSession))

	mux.Handle("GET /api/training-sessions", protected(h.ListTrainingSessions))
	mux.Handle("DELETE /api/training-sessions/{id}", protected(h.DeleteTrainingSession))

	mux.Handle("GET /api/media", protected(h.ListMedia))
	mux.Handle("POST /api/media", protected(h.CreateMedia))
	mux.Handle("GET /api/media/{id}", protected(h.GetMedia))
	mux.Handle("DELETE /api/media/{id}", protected(h.DeleteMedia))

	mux.Handle("GET /api/audit", protected(h.ListAudit))
}

// HealthCheck handles health check requests.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	details := make(map[string]string)

	for name, checkErr := range h.catalog.HealthCheck(r.Context()) {
		if checkErr != nil {
			status = "DEGRADED"
			details[name] = checkErr.Error()
		} else {
			details[name] = "OK"
		}
	}

	code := http.StatusOK
	if status == "DEGRADED" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, h.logger, code, map[string]any{"status": status, "details": details})
}

// Login verifies credentials and sets the session cookie.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.sessionTTL.Seconds())))
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"user": user})
}

// Logout destroys the session, if any, and clears the cookie. It succeeds
// even without a session.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *APIHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// CurrentUser returns the resolved identity and which method resolved it.
func (h *APIHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if user == nil {
		respondError(w, h.logger, domain.ErrNotAuthenticated)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"user":        user,
		"auth_method": AuthMethod(r.Context()),
	})
}

func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *APIHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if user == nil {
		respondError(w, h.logger, domain.ErrNotAuthenticated)
		return
	}

	var req struct {
		FirstName            *string `json:"firstName"`
		LastName             *string `json:"lastName"`
		Email                *string `json:"email"`
		NotifyOnRegistration *bool   `json:"notifyOnRegistration"`
		NotifyOnChanges      *bool   `json:"notifyOnChanges"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.NotifyOnRegistration != nil {
		user.NotifyOnRegistration = *req.NotifyOnRegistration
	}
	if req.NotifyOnChanges != nil {
		user.NotifyOnChanges = *req.NotifyOnChanges
	}

	if err := h.auth.UpdateSettings(r.Context(), user); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"user": user})
}

// CreateKey mints an API key. The raw secret appears in this response and
// nowhere else, ever again.
func (h *APIHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req struct {
		Name       string `json:"name"`
		ExpiryDays *int   `json:"expiryDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	key, raw, err := h.keys.Create(r.Context(), userID, req.Name, req.ExpiryDays)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, map[string]any{
		"apiKey": map[string]any{
			"id":        key.ID,
			"name":      key.Name,
			"key":       raw,
			"createdAt": key.CreatedAt,
			"isActive":  key.Active,
			"expiresAt": key.ExpiresAt,
		},
		"message": "API key created; the key value is shown only this once, store it securely",
	})
}

// ListKeys returns the caller's keys with the secret omitted.
func (h *APIHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	keys, err := h.keys.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if keys == nil {
		keys = []domain.APIKey{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"apiKeys": keys})
}

func (h *APIHandler) ToggleKey(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	key, err := h.keys.SetActive(r.Context(), userID, r.PathValue("id"), req.IsActive)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"apiKey": key})
}

func (h *APIHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	if err := h.keys.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAudit returns the caller's audit trail. Only reachable with a session,
// in effect: GET /api/audit is not on the API-key allow-list.
func (h *APIHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	entries, err := h.catalog.ListAuditEntries(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"entries": entries})
}
