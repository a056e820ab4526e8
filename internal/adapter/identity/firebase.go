package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

// FirebaseProvider verifies Firebase ID tokens. The canteen owner role comes
// from the "role" custom claim.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	token, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return identityFromToken(token), nil
}

// SignOut revokes every refresh token of the user.
func (p *FirebaseProvider) SignOut(ctx context.Context, identity domain.Identity) error {
	if err := p.client.RevokeRefreshTokens(ctx, identity.UID); err != nil {
		return domain.NewTransportError("firebase: revoke tokens", err)
	}
	log.WithField("uid", identity.UID).Info("refresh tokens revoked")
	return nil
}

func identityFromToken(token *auth.Token) *domain.Identity {
	claim := func(name string) string {
		v, _ := token.Claims[name].(string)
		return v
	}
	return &domain.Identity{
		UID:         token.UID,
		DisplayName: claim("name"),
		Email:       claim("email"),
		PhotoURL:    claim("picture"),
		Role:        domain.ParseRole(claim("role")),
		ExpiresAt:   time.Unix(token.Expires, 0),
	}
}
