package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimIsAdmin is the claim type that grants the admin policy.
const ClaimIsAdmin = "is-admin"

// Claims represents the JWT payload issued to users.
// Custom holds the user's stored claims (e.g. "is-admin": "true").
type Claims struct {
	UserID string            `json:"uid"`
	Email  string            `json:"email"`
	Custom map[string]string `json:"claims,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token satisfies the admin policy
func (c *Claims) IsAdmin() bool {
	return c.Custom[ClaimIsAdmin] == "true"
}

// Manager handles JWT operations
type Manager struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates a JWT manager signing HS256 tokens valid for expiry
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: secret, expiry: expiry, now: time.Now}
}

// GenerateToken signs a token for the user and returns it with its expiration
func (m *Manager) GenerateToken(userID, email string, custom map[string]string) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	expiration := issuedAt.Add(m.expiry)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Custom: custom,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiration, nil
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email claim")
	}

	return claims, nil
}
