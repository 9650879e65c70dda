// Package auth carries the authenticated caller through request contexts.
package auth

import (
	"context"

	"github.com/google/uuid"

	"biblioteca-api/pkg/jwt"
)

// Principal is the caller resolved from a bearer token
type Principal struct {
	UserID uuid.UUID
	Email  string
	Claims map[string]string
}

// IsAdmin is the "is-admin" policy check
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Claims[jwt.ClaimIsAdmin] == "true"
}

type principalKey struct{}

// WithPrincipal returns a child context carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal, or nil for anonymous callers
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// FromClaims maps validated token claims to a principal
func FromClaims(c *jwt.Claims) (*Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, err
	}
	claims := make(map[string]string, len(c.Custom))
	for k, v := range c.Custom {
		claims[k] = v
	}
	return &Principal{UserID: id, Email: c.Email, Claims: claims}, nil
}
