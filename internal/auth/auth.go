package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin marks sessions allowed to use the moderation endpoints
const RoleAdmin = "admin"

// FallbackDisplayName is used when a session carries neither name nor email
const FallbackDisplayName = "Anonymous"

// ErrInvalidToken indicates a malformed, unsigned or expired session token
var ErrInvalidToken = errors.New("invalid or expired session token")

// Identity is the authenticated user attached to a request
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// DisplayName resolves the author label snapshotted onto a comment at write
// time: full name, falling back to email, falling back to a generic label.
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return FallbackDisplayName
}

// IsAdmin reports whether the identity may moderate comments
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// SessionResolver extracts the authenticated identity from a request.
// A nil identity with a nil error means the request is anonymous.
type SessionResolver interface {
	Resolve(r *http.Request) (*Identity, error)
}

// Claims is the JWT payload for a session token
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver resolves sessions from HS256 bearer tokens
type JWTResolver struct {
	secret []byte
}

// Verify interface compliance
var _ SessionResolver = (*JWTResolver)(nil)

// NewJWTResolver creates a resolver for the given signing secret
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve parses the Authorization header. Requests without a bearer token
// resolve to a nil identity; malformed or expired tokens return ErrInvalidToken.
func (j *JWTResolver) Resolve(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// IssueToken signs a session token for the given identity. The identity
// store that authenticates users lives outside this service; this helper
// exists for local tooling and tests.
func IssueToken(secret string, identity *Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
