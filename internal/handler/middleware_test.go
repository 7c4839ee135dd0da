package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/dev-connect/internal/handler"
	"github.com/msomdec/dev-connect/internal/repository/sqlite"
	"github.com/msomdec/dev-connect/internal/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testServices struct {
	db       *sqlite.DB
	tokens   *service.TokenService
	images   *service.ImageService
	auth     *service.AuthService
	profiles *service.ProfileService
	posts    *service.PostService
}

func newTestServices(t *testing.T, github *service.GitHubClient) *testServices {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testJWTSecret, time.Hour)
	images := service.NewImageService(db.FileStore())
	return &testServices{
		db:       db,
		tokens:   tokens,
		images:   images,
		auth:     service.NewAuthService(db.Users(), service.NewPasswordHasher(4), tokens, images),
		profiles: service.NewProfileService(db.Profiles(), db.Users(), images, github),
		posts:    service.NewPostService(db.Posts(), db.Users(), images),
	}
}

func decodeMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Msg
}

func TestRequireAuth_ValidToken(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()

	token, user, err := s.auth.Register(ctx, "Valid User", "valid@example.com", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	var gotID bson.ObjectID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := handler.UserIDFromContext(r.Context())
		if !ok {
			t.Error("expected user id in context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(handler.TokenHeader, token)
	w := httptest.NewRecorder()

	handler.RequireAuth(s.tokens, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID.Hex(), gotID.Hex())
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	s := newTestServices(t, nil)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(s.tokens, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeMsg(t, w); msg != "No Token, Authorization Denied" {
		t.Fatalf("unexpected msg %q", msg)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	s := newTestServices(t, nil)
	expired := service.NewTokenService(testJWTSecret, time.Hour).WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	stale, err := expired.Issue(bson.NewObjectID())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	for name, token := range map[string]string{
		"garbage": "not-a-jwt",
		"expired": stale,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set(handler.TokenHeader, token)
			w := httptest.NewRecorder()

			handler.RequireAuth(s.tokens, inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if msg := decodeMsg(t, w); msg != "Token is not valid" {
				t.Fatalf("unexpected msg %q", msg)
			}
		})
	}
}

type denyAfter struct{ n int }

func (d *denyAfter) Allow(string) bool {
	d.n--
	return d.n >= 0
}

func (d *denyAfter) Close() {}

func TestRateLimit(t *testing.T) {
	metrics := handler.NewMetrics()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := handler.RateLimit(&denyAfter{n: 1}, metrics, inner)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}

	mw := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(mw.Body.String(), `devconnect_api_rate_limit_hits_total{path="/api/auth"} 1`) {
		t.Fatal("expected rate limit hit to be recorded")
	}
}

func TestRequestLogger(t *testing.T) {
	metrics := handler.NewMetrics()

	var seenID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		seenID = handler.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	h := handler.RequestLogger(metrics, handler.SecurityHeaders(mux))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
	reqID := w.Header().Get(handler.RequestIDHeader)
	if len(reqID) != 26 {
		t.Fatalf("expected a ULID request id, got %q", reqID)
	}
	if seenID != reqID {
		t.Fatalf("expected handler to see %q, got %q", reqID, seenID)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}

	// An incoming id is kept.
	req := httptest.NewRequest(http.MethodGet, "/things/43", nil)
	req.Header.Set(handler.RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get(handler.RequestIDHeader); got != "upstream-id" {
		t.Fatalf("expected upstream id to be kept, got %q", got)
	}

	// Oversized or unsafe ids are replaced.
	for _, bad := range []string{strings.Repeat("a", 65), "id with spaces", "id\"<script>"} {
		req := httptest.NewRequest(http.MethodGet, "/things/44", nil)
		req.Header.Set(handler.RequestIDHeader, bad)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get(handler.RequestIDHeader); got == bad || len(got) != 26 {
			t.Fatalf("expected %q to be replaced by a ULID, got %q", bad, got)
		}
	}

	mw := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(mw.Body.String(), `devconnect_api_http_requests_total{method="GET",route="GET /things/{id}",status="418"} 5`) {
		t.Fatalf("expected requests to be recorded by route pattern, got:\n%s", mw.Body.String())
	}
}

func TestRequestLogger_NilMetrics(t *testing.T) {
	h := handler.RequestLogger(nil, http.NotFoundHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
