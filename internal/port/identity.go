package port

import (
	"context"
	"time"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type IdentityProvider interface {
	// Verify resolves a bearer token, returns domain.ErrUnauthenticated when invalid
	Verify(ctx context.Context, token string) (*domain.Identity, error)

	// SignOut invalidates the identity's current session
	SignOut(ctx context.Context, identity domain.Identity) error
}

type TokenDenylist interface {
	// Deny blocks the token id until ttl elapses
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error

	IsDenied(ctx context.Context, tokenID string) (bool, error)
}
