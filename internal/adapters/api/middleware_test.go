package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/eventdeskhq/eventdesk/internal/core/domain"
	"github.com/eventdeskhq/eventdesk/internal/core/services"
	"github.com/eventdeskhq/eventdesk/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuth(repo *testutil.MockRepo, sessions *testutil.MemSessionStore) *Auth {
	logger := discardLogger()
	authSvc := services.NewAuthService(repo, sessions, logger)
	return NewAuth(repo, authSvc, logger)
}

// echoIdentity reports the resolved identity so tests can assert on it.
func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserID(r.Context()); ok {
			w.Header().Set("X-User-ID", strconv.FormatInt(id, 10))
			w.Header().Set("X-Auth-Method", string(AuthMethod(r.Context())))
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("missing key passes through unauthenticated", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		req := httptest.NewRequest("GET", "/api/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("X-User-ID") != "" {
			t.Errorf("expected no identity, got user %s", rr.Header().Get("X-User-ID"))
		}
	})

	t.Run("unknown key rejected 401", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_unknown"
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).Return(nil, nil).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("inactive key rejected 401 regardless of expiry", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_inactive"
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
			Return(&domain.APIKey{ID: "k1", UserID: 7, Active: false}, nil).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("expired key rejected 401 even when active", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_expired"
		expired := time.Now().Add(-time.Hour)
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
			Return(&domain.APIKey{ID: "k1", UserID: 7, Active: true, ExpiresAt: &expired}, nil).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("valid key on allow-listed path resolves identity and records usage", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())

		touched := make(chan error, 1)
		auth.onLastUsed = func(err error) { touched <- err }
		handler := auth.Resolve(echoIdentity())

		raw := "edk_valid"
		previous := time.Now().Add(-time.Hour)
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
			Return(&domain.APIKey{ID: "k1", UserID: 42, Active: true, LastUsedAt: &previous}, nil).Once()

		var recorded time.Time
		mockRepo.On("UpdateAPIKeyLastUsed", "k1", mockTimeArg(&recorded)).Return(nil).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("X-User-ID") != "42" {
			t.Errorf("expected user 42, got %q", rr.Header().Get("X-User-ID"))
		}
		if rr.Header().Get("X-Auth-Method") != "api_key" {
			t.Errorf("expected api_key method, got %q", rr.Header().Get("X-Auth-Method"))
		}

		select {
		case err := <-touched:
			if err != nil {
				t.Errorf("last-used write failed: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("last-used write never happened")
		}
		if recorded.Before(previous) {
			t.Errorf("last-used timestamp went backwards: %v < %v", recorded, previous)
		}
	})

	t.Run("last-used write failure does not fail the request", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())

		touched := make(chan error, 1)
		auth.onLastUsed = func(err error) { touched <- err }
		handler := auth.Resolve(echoIdentity())

		raw := "edk_flaky"
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
			Return(&domain.APIKey{ID: "k1", UserID: 42, Active: true}, nil).Once()
		mockRepo.On("UpdateAPIKeyLastUsed", "k1", anyTime()).
			Return(errDatabase).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200 despite write failure, got %d", rr.Code)
		}
		<-touched
	})

	t.Run("valid key with disallowed method rejected 403", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_valid"
		key := &domain.APIKey{ID: "k1", UserID: 42, Active: true}

		for _, method := range []string{"PUT", "DELETE"} {
			mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).Return(key, nil).Once()

			req := httptest.NewRequest(method, "/api/events/e1", nil)
			req.Header.Set(APIKeyHeader, raw)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Errorf("%s: expected 403, got %d", method, rr.Code)
			}
		}
	})

	t.Run("valid key with disallowed endpoint rejected 403", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_valid"
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
			Return(&domain.APIKey{ID: "k1", UserID: 42, Active: true}, nil).Once()

		req := httptest.NewRequest("GET", "/api/keys", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("repository error yields 500", func(t *testing.T) {
		mockRepo := &testutil.MockRepo{}
		auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
		handler := auth.Resolve(echoIdentity())

		raw := "edk_any"
		mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).Return(nil, errDatabase).Once()

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set(APIKeyHeader, raw)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rr.Code)
		}
	})
}

func TestResolveSessionWinsOverAPIKey(t *testing.T) {
	mockRepo := &testutil.MockRepo{}
	sessions := testutil.NewMemSessionStore()
	sessions.Put("tok-1", 7)
	auth := newTestAuth(mockRepo, sessions)
	handler := auth.Resolve(echoIdentity())

	mockRepo.On("GetUser", int64(7)).
		Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()
	// No GetAPIKeyByHash expectation: the key header must never be consulted.

	req := httptest.NewRequest("DELETE", "/api/events/e1", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
	req.Header.Set(APIKeyHeader, "edk_alsopresent")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-User-ID") != "7" {
		t.Errorf("expected user 7, got %q", rr.Header().Get("X-User-ID"))
	}
	if rr.Header().Get("X-Auth-Method") != "session" {
		t.Errorf("expected session method, got %q", rr.Header().Get("X-Auth-Method"))
	}
	mockRepo.AssertExpectations(t)
}

func TestResolveStaleSessionFallsThroughToAPIKey(t *testing.T) {
	mockRepo := &testutil.MockRepo{}
	auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())

	touched := make(chan error, 1)
	auth.onLastUsed = func(err error) { touched <- err }
	handler := auth.Resolve(echoIdentity())

	raw := "edk_valid"
	mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).
		Return(&domain.APIKey{ID: "k1", UserID: 42, Active: true}, nil).Once()
	mockRepo.On("UpdateAPIKeyLastUsed", "k1", anyTime()).Return(nil).Once()

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-token"})
	req.Header.Set(APIKeyHeader, raw)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Auth-Method") != "api_key" {
		t.Errorf("expected api_key method, got %q", rr.Header().Get("X-Auth-Method"))
	}
	<-touched
}

func TestRequire(t *testing.T) {
	mockRepo := &testutil.MockRepo{}
	auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
	handler := auth.Resolve(auth.Require(echoIdentity()))

	req := httptest.NewRequest("GET", "/api/events", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", rr.Code)
	}
}

func TestExpiryDaysLifecycle(t *testing.T) {
	// Mint a key valid for 7 days, then authenticate 8 days later.
	mockRepo := &testutil.MockRepo{}
	auth := newTestAuth(mockRepo, testutil.NewMemSessionStore())
	handler := auth.Resolve(echoIdentity())

	created := time.Now()
	expires := created.AddDate(0, 0, 7)
	raw := "edk_sevendays"
	key := &domain.APIKey{ID: "k7", UserID: 3, Active: true, CreatedAt: created, ExpiresAt: &expires}

	mockRepo.On("GetAPIKeyByHash", services.HashKey(raw)).Return(key, nil)

	// Day 6: still fine.
	auth.now = func() time.Time { return created.AddDate(0, 0, 6) }
	touched := make(chan error, 1)
	auth.onLastUsed = func(err error) { touched <- err }
	mockRepo.On("UpdateAPIKeyLastUsed", "k7", anyTime()).Return(nil).Once()

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set(APIKeyHeader, raw)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("day 6: expected 200, got %d", rr.Code)
	}
	<-touched

	// Day 8: expired.
	auth.now = func() time.Time { return created.AddDate(0, 0, 8) }
	req = httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set(APIKeyHeader, raw)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("day 8: expected 401, got %d", rr.Code)
	}
}
