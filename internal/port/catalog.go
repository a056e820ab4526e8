package port

import (
	"context"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type CatalogRepository interface {
	SaveCanteen(ctx context.Context, canteen domain.Canteen) error
	GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error)
	ListCanteens(ctx context.Context) ([]domain.Canteen, error)

	SaveMenuItem(ctx context.Context, item domain.MenuItem) error
	GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, canteenID string) ([]domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, canteenID, itemID string) error
}

type UserRepository interface {
	// UpsertUser creates the profile or refreshes its identity fields
	UpsertUser(ctx context.Context, identity domain.Identity) error

	GetUser(ctx context.Context, uid string) (*domain.UserProfile, error)
}
