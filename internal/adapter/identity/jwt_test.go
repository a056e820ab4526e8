package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/auth"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type memoryDenylist struct {
	mu     sync.Mutex
	denied map[string]time.Duration
}

func (m *memoryDenylist) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied == nil {
		m.denied = make(map[string]time.Duration)
	}
	m.denied[tokenID] = ttl
	return nil
}

func (m *memoryDenylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.denied[tokenID]
	return ok, nil
}

var owner = domain.Identity{UID: "uid-1", DisplayName: "Ravi", Email: "ravi@campus.edu", Role: domain.RoleCanteenOwner}

func TestJWTProvider_IssueVerify(t *testing.T) {
	p := NewJWTProvider("secret", time.Hour, &memoryDenylist{})

	token, err := p.Issue(owner)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	got, err := p.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got.UID != "uid-1" || got.Role != domain.RoleCanteenOwner || got.Email != "ravi@campus.edu" {
		t.Errorf("unexpected identity: %+v", got)
	}
	if got.TokenID == "" || got.ExpiresAt.IsZero() {
		t.Error("expected token id and expiry")
	}
}

func TestJWTProvider_Rejects(t *testing.T) {
	p := NewJWTProvider("secret", time.Hour, nil)
	ctx := context.Background()

	other := NewJWTProvider("other-secret", time.Hour, nil)
	forged, _ := other.Issue(owner)
	if _, err := p.Verify(ctx, forged); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("wrong key: expected ErrUnauthenticated, got: %v", err)
	}

	expired := NewJWTProvider("secret", time.Hour, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(owner)
	if _, err := p.Verify(ctx, old); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expired: expected ErrUnauthenticated, got: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "uid-1", "iss": issuer})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := p.Verify(ctx, unsigned); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("alg none: expected ErrUnauthenticated, got: %v", err)
	}

	if _, err := p.Verify(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("garbage: expected ErrUnauthenticated, got: %v", err)
	}
}

func TestJWTProvider_SignOut(t *testing.T) {
	denylist := &memoryDenylist{}
	p := NewJWTProvider("secret", time.Hour, denylist)
	ctx := context.Background()

	token, _ := p.Issue(owner)
	identity, err := p.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if err := p.SignOut(ctx, *identity); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if ttl := denylist.denied[identity.TokenID]; ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected denylist ttl within the token lifetime, got %v", ttl)
	}

	if _, err := p.Verify(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected signed out token to be rejected, got: %v", err)
	}

	// A fresh sign in is unaffected.
	fresh, _ := p.Issue(owner)
	if _, err := p.Verify(ctx, fresh); err != nil {
		t.Errorf("expected fresh token to verify, got: %v", err)
	}
}

func TestIdentityFromFirebaseToken(t *testing.T) {
	token := &auth.Token{
		UID:     "fb-uid",
		Expires: time.Now().Add(time.Hour).Unix(),
		Claims: map[string]interface{}{
			"name":    "Meera",
			"email":   "meera@campus.edu",
			"picture": "https://img/meera.png",
			"role":    "canteen_owner",
		},
	}

	got := identityFromToken(token)
	if got.UID != "fb-uid" || got.DisplayName != "Meera" || got.Role != domain.RoleCanteenOwner {
		t.Errorf("unexpected identity: %+v", got)
	}

	token.Claims = map[string]interface{}{"email": 42}
	got = identityFromToken(token)
	if got.Email != "" || got.Role != domain.RoleCustomer {
		t.Errorf("expected defaults for missing claims, got %+v", got)
	}
}
