package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultTokenTTL is how long an identity token stays valid.
const DefaultTokenTTL = 3600 * time.Second

// TokenUser is the identity carried inside a token.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims is the signed payload: {"user": {"id": ...}} plus iat/exp.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens. It keeps no
// server-side session state.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. A non-positive ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs a token for userID that expires ttl after now.
func (s *TokenService) Issue(userID bson.ObjectID) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: secret is not configured", domain.ErrSigning)
	}

	now := s.now()
	claims := Claims{
		User: TokenUser{ID: userID.Hex()},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}
	return token, nil
}

// Verify checks the signature, algorithm and expiry of token and returns
// the user id it was issued for.
func (s *TokenService) Verify(token string) (bson.ObjectID, error) {
	if len(s.secret) == 0 {
		return bson.NilObjectID, fmt.Errorf("%w: secret is not configured", domain.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return bson.NilObjectID, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return bson.NilObjectID, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return bson.NilObjectID, domain.ErrInvalidToken
	}

	userID, err := bson.ObjectIDFromHex(claims.User.ID)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	return userID, nil
}
