// Package auth verifies bearer tokens minted by the identity provider.
// Tokens are never issued here.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/infrastructure/config"
)

var (
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrMissingReferenceID = errors.New("missing referenceid in claims")
)

// Claims carries the caller's position in the sales hierarchy
type Claims struct {
	jwt.RegisteredClaims
	ReferenceID string        `json:"referenceid"`
	Role        identity.Role `json:"role"`
	Manager     string        `json:"manager,omitempty"`
	TSM         string        `json:"tsm,omitempty"`
	Email       string        `json:"email,omitempty"`
}

// HasRole reports whether the caller holds one of roles
func (c *Claims) HasRole(roles ...identity.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller is a Super Admin
func (c *Claims) IsAdmin() bool {
	return c.Role == identity.RoleSuperAdmin
}

// ExpiresAtTime returns the expiry, zero when the token has none
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// Verifier validates HS256 tokens against a shared secret
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewVerifier creates a Verifier from the jwt config section
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		leeway: 30 * time.Second,
	}
}

// Verify parses tokenString and returns its claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if strings.TrimSpace(claims.ReferenceID) == "" {
		return nil, ErrMissingReferenceID
	}
	if claims.Role != "" && !claims.Role.IsValid() {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// ExtractBearer returns the token part of an Authorization header
func ExtractBearer(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
