package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/repository/sqlite"
	"github.com/msomdec/dev-connect/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

// pngBytes is the smallest prefix http.DetectContentType reports as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testStack struct {
	db       *sqlite.DB
	tokens   *service.TokenService
	images   *service.ImageService
	auth     *service.AuthService
	profiles *service.ProfileService
	posts    *service.PostService
}

func newTestDB(t *testing.T) *sqlite.DB {
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
	return db
}

func newTestStack(t *testing.T, github *service.GitHubClient) *testStack {
	t.Helper()
	db := newTestDB(t)

	// Use cost 4 for fast tests.
	hasher := service.NewPasswordHasher(4)
	tokens := service.NewTokenService(testJWTSecret, 0)
	images := service.NewImageService(db.FileStore())

	return &testStack{
		db:       db,
		tokens:   tokens,
		images:   images,
		auth:     service.NewAuthService(db.Users(), hasher, tokens, images),
		profiles: service.NewProfileService(db.Profiles(), db.Users(), images, github),
		posts:    service.NewPostService(db.Posts(), db.Users(), images),
	}
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	s := newTestStack(t, nil)
	return s.auth, s.db
}

// register creates a user through the auth service and returns it.
func (s *testStack) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	_, user, err := s.auth.Register(context.Background(), name, email, "secret1", nil)
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return user
}
