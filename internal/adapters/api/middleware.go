package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/ports"
	"github.com/eventdeskhq/eventdesk/internal/core/services"
	"github.com/eventdeskhq/eventdesk/internal/infrastructure/metrics"
)

// SessionCookie is the name of the opaque session cookie.
const SessionCookie = "eventdesk_session"

// APIKeyHeader carries the raw API-key secret on programmatic requests.
const APIKeyHeader = "X-API-Key"

const lastUsedWriteTimeout = 5 * time.Second

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxAuthMethod contextKey = "auth_method"
)

// UserID returns the effective user id resolved for this request, if any.
// Routes never need to know which authentication method produced it.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxUserID).(int64)
	return id, ok
}

// AuthMethod returns which credential resolved the identity: "session" or
// "api_key". Empty when the request is unauthenticated.
func AuthMethod(ctx context.Context) domain.AuthMethod {
	m, _ := ctx.Value(ctxAuthMethod).(domain.AuthMethod)
	return m
}

// Auth resolves request identity. A session cookie is consulted first; only
// when no session identity exists is the API-key header examined. Requests
// carrying neither credential pass through unauthenticated for Require to
// reject on protected routes.
type Auth struct {
	repo   ports.Repository
	auth   ports.AuthService
	policy *KeyPolicy
	logger *slog.Logger

	// now is swapped in tests to fast-forward key expiry.
	now func() time.Time
	// onLastUsed, when set, is invoked after the async last-used write
	// finishes. Tests use it to synchronize.
	onLastUsed func(error)
}

// NewAuth creates the resolver middleware with the default key policy.
func NewAuth(repo ports.Repository, auth ports.AuthService, logger *slog.Logger) *Auth {
	return &Auth{
		repo:   repo,
		auth:   auth,
		policy: DefaultKeyPolicy(),
		logger: logger,
		now:    time.Now,
	}
}

// Resolve is the identity-resolution middleware. On API-key failure it
// terminates the request; a missing key is never itself an error.
func (a *Auth) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			user, err := a.auth.UserFromSession(r.Context(), cookie.Value)
			switch {
			case err == nil:
				metrics.AuthAttempts.WithLabelValues("session", "ok").Inc()
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user.ID, domain.AuthMethodSession)))
				return
			case errors.Is(err, domain.ErrNotAuthenticated):
				// Stale cookie: fall through to the API-key path.
			default:
				a.logger.Error("session resolution failed", "error", err)
				respondError(w, a.logger, err)
				return
			}
		}

		raw := r.Header.Get(APIKeyHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		key, err := a.authenticateKey(r, raw)
		if err != nil {
			respondError(w, a.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), key.UserID, domain.AuthMethodAPIKey)))
	})
}

// authenticateKey implements the API-key decision: digest lookup, active and
// expiry checks, then the allow-list. On success the key's last-used time is
// advanced without blocking the response.
func (a *Auth) authenticateKey(r *http.Request, raw string) (*domain.APIKey, error) {
	key, err := a.repo.GetAPIKeyByHash(r.Context(), services.HashKey(raw))
	if err != nil {
		a.logger.Error("API key lookup failed", "error", err)
		metrics.AuthAttempts.WithLabelValues("api_key", "error").Inc()
		return nil, err
	}
	if key == nil || !key.Active {
		metrics.AuthAttempts.WithLabelValues("api_key", "invalid").Inc()
		return nil, domain.ErrInvalidCredential
	}

	now := a.now()
	if key.Expired(now) {
		metrics.AuthAttempts.WithLabelValues("api_key", "expired").Inc()
		return nil, domain.ErrCredentialExpired
	}

	if err := a.policy.Evaluate(r.Method, r.URL.Path); err != nil {
		metrics.AuthAttempts.WithLabelValues("api_key", "forbidden").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("api_key", "ok").Inc()
	a.touchKey(key.ID, now)
	return key, nil
}

// touchKey records key usage on a detached context. Concurrent users of the
// same key race on this write; last-writer-wins is fine for a timestamp
// overwrite, so no coordination is attempted.
func (a *Auth) touchKey(keyID string, usedAt time.Time) {
	done := a.onLastUsed
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastUsedWriteTimeout)
		defer cancel()
		err := a.repo.UpdateAPIKeyLastUsed(ctx, keyID, usedAt)
		if err != nil {
			a.logger.Warn("failed to record API key usage", "key_id", keyID, "error", err)
		}
		if done != nil {
			done(err)
		}
	}()
}

// Require rejects requests that reached a protected route without a
// resolved identity.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			respondError(w, a.logger, domain.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withIdentity(ctx context.Context, userID int64, method domain.AuthMethod) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxAuthMethod, method)
}

// Logging wraps the whole mux with request logging and the HTTP request
// counter.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			metrics.HTTPRequests.WithLabelValues(r.Method, statusClass(rec.status)).Inc()
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
