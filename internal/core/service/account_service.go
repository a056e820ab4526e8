package service

import (
	"context"
	"sort"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/port"
)

const topItemsLimit = 5

// AccountService serves profiles, order history and the owner dashboard.
type AccountService struct {
	users   port.UserRepository
	archive port.OrderArchive
	live    port.LiveOrderStore
	catalog *CatalogService
}

func NewAccountService(users port.UserRepository, archive port.OrderArchive, live port.LiveOrderStore, catalog *CatalogService) *AccountService {
	return &AccountService{users: users, archive: archive, live: live, catalog: catalog}
}

// SignIn records the identity's latest profile fields and returns the profile.
func (s *AccountService) SignIn(ctx context.Context, identity domain.Identity) (*domain.UserProfile, error) {
	if err := s.users.UpsertUser(ctx, identity); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, identity.UID)
}

func (s *AccountService) Profile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return s.users.GetUser(ctx, uid)
}

func (s *AccountService) OrderHistory(ctx context.Context, uid string) ([]domain.ArchivedOrder, error) {
	orders, err := s.archive.ListArchivedOrders(ctx, domain.ByUser(uid))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *AccountService) CanteenOrderHistory(ctx context.Context, ownerUID, canteenID string) ([]domain.ArchivedOrder, error) {
	if _, err := s.catalog.OwnedCanteen(ctx, ownerUID, canteenID); err != nil {
		return nil, err
	}
	orders, err := s.archive.ListArchivedOrders(ctx, domain.ByCanteen(canteenID))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *AccountService) CanteenAnalytics(ctx context.Context, ownerUID, canteenID string) (domain.CanteenAnalytics, error) {
	if _, err := s.catalog.OwnedCanteen(ctx, ownerUID, canteenID); err != nil {
		return domain.CanteenAnalytics{}, err
	}
	archived, err := s.archive.ListArchivedOrders(ctx, domain.ByCanteen(canteenID))
	if err != nil {
		return domain.CanteenAnalytics{}, err
	}
	live, err := s.live.ListOrders(ctx, domain.ByCanteen(canteenID))
	if err != nil {
		return domain.CanteenAnalytics{}, err
	}

	active := make([]domain.Order, 0, len(live))
	for _, o := range live {
		active = append(active, o)
	}
	return domain.Summarize(canteenID, archived, active, topItemsLimit), nil
}

func sortNewestFirst(orders []domain.ArchivedOrder) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ArchivedAt.After(orders[j].ArchivedAt)
	})
}
