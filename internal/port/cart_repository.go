package port

import (
	"context"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type CartRepository interface {
	// LoadCart returns an empty cart when the user has none
	LoadCart(ctx context.Context, userID string) (*domain.Cart, error)

	SaveCart(ctx context.Context, userID string, cart *domain.Cart) error

	DeleteCart(ctx context.Context, userID string) error
}
