package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const minPasswordLength = 5

// AuthService handles user registration, login, and identity lookups.
type AuthService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *TokenService
	images *ImageService
}

// NewAuthService creates a new AuthService. images may be nil, in which case
// registration ignores uploaded profile images.
func NewAuthService(users domain.UserRepository, hasher *PasswordHasher, tokens *TokenService, images *ImageService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		images: images,
	}
}

// Tokens returns the token service used to sign and verify identities.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Register creates a new user account after validating inputs and returns
// a fresh token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string, image *domain.Upload) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "Name is required")
	}
	if !validEmail(email) {
		verr.Add("email", "Please include a valid email")
	}
	switch {
	case len(password) < minPasswordLength:
		verr.Add("password", "Please enter a password with 5 or more characters")
	case len(password) > maxPasswordBytes:
		verr.Add("password", "Please enter a password with 72 or fewer bytes")
	}
	if err := verr.OrNil(); err != nil {
		return "", nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		ID:           bson.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       AvatarURL(email),
		CreatedAt:    time.Now().UTC(),
	}

	if image != nil && s.images != nil {
		key, err := s.images.Store(ctx, ImageKindUsers, image)
		if err != nil {
			return "", nil, fmt.Errorf("store user image: %w", err)
		}
		user.UserImage = key
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.discardImage(ctx, user.UserImage)
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	verr := &domain.ValidationError{}
	if !validEmail(email) {
		verr.Add("email", "Please include a valid email")
	}
	if password == "" {
		verr.Add("password", "Password is required")
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// CurrentUser returns the user with the given id. Callers must not expose
// PasswordHash.
func (s *AuthService) CurrentUser(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		slog.Warn("discard user image", "key", key, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address such as "a@b.co", rejecting display
// names and addresses without a dotted domain.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}
