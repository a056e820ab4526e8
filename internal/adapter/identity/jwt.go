package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/port"
)

const issuer = "canteen-orders"

type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider issues and verifies HS256 session tokens. Signed-out tokens are
// kept on the denylist until they expire.
type JWTProvider struct {
	secret   []byte
	ttl      time.Duration
	denylist port.TokenDenylist
	now      func() time.Time
}

func NewJWTProvider(secret string, ttl time.Duration, denylist port.TokenDenylist) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, denylist: denylist, now: time.Now}
}

// Issue signs a token for the identity.
func (p *JWTProvider) Issue(identity domain.Identity) (string, error) {
	now := p.now()
	claims := Claims{
		Name:    identity.DisplayName,
		Email:   identity.Email,
		Picture: identity.PhotoURL,
		Role:    string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.UID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (p *JWTProvider) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	if p.denylist != nil && claims.ID != "" {
		denied, err := p.denylist.IsDenied(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if denied {
			return nil, fmt.Errorf("%w: token was signed out", domain.ErrUnauthenticated)
		}
	}

	return &domain.Identity{
		UID:         claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
		Role:        domain.ParseRole(claims.Role),
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

func (p *JWTProvider) SignOut(ctx context.Context, identity domain.Identity) error {
	if p.denylist == nil || identity.TokenID == "" {
		return nil
	}
	return p.denylist.Deny(ctx, identity.TokenID, identity.ExpiresAt.Sub(p.now()))
}
