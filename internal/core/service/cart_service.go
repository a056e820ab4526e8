package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/port"
)

type CheckoutRequest struct {
	UserID        string
	PaymentMethod string
	ScheduledTime *time.Time
}

// CartService keeps one cart per user and turns it into an order at checkout.
// Mutations for the same user are serialised within this process.
type CartService struct {
	carts    port.CartRepository
	catalog  port.CatalogRepository
	archive  port.OrderArchive
	orders   *Coordinator
	payments port.PaymentGateway
	currency string
	now      func() time.Time

	locks userLocks
}

func NewCartService(carts port.CartRepository, catalog port.CatalogRepository, archive port.OrderArchive, orders *Coordinator, payments port.PaymentGateway, currency string) *CartService {
	return &CartService{
		carts:    carts,
		catalog:  catalog,
		archive:  archive,
		orders:   orders,
		payments: payments,
		currency: currency,
		now:      time.Now,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.LoadCart(ctx, userID)
}

// AddItem adds quantity units of a menu item, priced from the menu.
func (s *CartService) AddItem(ctx context.Context, userID, canteenID, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	canteen, err := s.catalog.GetCanteen(ctx, canteenID)
	if err != nil {
		return nil, err
	}
	if !canteen.Open {
		return nil, fmt.Errorf("%w: canteen %s is closed", domain.ErrValidation, canteen.Name)
	}
	item, err := s.catalog.GetMenuItem(ctx, canteenID, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: %s is not available", domain.ErrValidation, item.Name)
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if !cart.IsEmpty() && cart.CanteenID != canteenID {
			return fmt.Errorf("%w: cart is for %s", domain.ErrCanteenMismatch, cart.CanteenName)
		}
		if cart.IsEmpty() {
			cart.CanteenID = canteen.ID
			cart.CanteenName = canteen.Name
		}
		cart.AddItem(item.CartItem(quantity))
		return nil
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, delta int) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.UpdateQuantity(itemID, delta)
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.RemoveItem(itemID)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	unlock := s.lock(userID)
	defer unlock()
	return s.carts.DeleteCart(ctx, userID)
}

// Reorder replaces the cart with the items of one of the user's archived orders.
func (s *CartService) Reorder(ctx context.Context, userID, archiveID string) (*domain.Cart, error) {
	archived, err := s.archive.GetArchivedOrder(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	if archived.UserID != userID {
		return nil, fmt.Errorf("archived order %s: %w", archiveID, domain.ErrNotFound)
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.SetCart(archived.Cart, archived.CanteenID, archived.CanteenName)
		return nil
	})
}

// Checkout places the cart as an order and empties the cart. Online payments
// get a payment order id from the payment collaborator before placement.
func (s *CartService) Checkout(ctx context.Context, req CheckoutRequest) (domain.Order, error) {
	unlock := s.lock(req.UserID)
	defer unlock()

	cart, err := s.carts.LoadCart(ctx, req.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	if req.ScheduledTime != nil && req.ScheduledTime.Before(s.now()) {
		return domain.Order{}, fmt.Errorf("%w: scheduled time is in the past", domain.ErrValidation)
	}

	order := domain.Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		CanteenID:     cart.CanteenID,
		CanteenName:   cart.CanteenName,
		Cart:          cart.Snapshot(),
		PaymentMethod: req.PaymentMethod,
		ScheduledTime: req.ScheduledTime,
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	if order.PaymentMethod == domain.PaymentMethodOnline {
		if s.payments == nil {
			return domain.Order{}, fmt.Errorf("%w: online payments are not configured", domain.ErrValidation)
		}
		paymentID, err := s.payments.CreatePaymentOrder(ctx, order.Total(), s.currency, order.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("create payment order: %w", err)
		}
		order.PaymentOrderID = paymentID
	}

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.carts.DeleteCart(ctx, req.UserID); err != nil {
		log.WithError(err).WithField("user_id", req.UserID).Warn("order placed but cart was not cleared")
	}
	return placed, nil
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		cart.Clear()
	}
	if err := s.carts.SaveCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) lock(userID string) func() {
	return s.locks.lock(userID)
}

// userLocks serializes cart writes per user. An entry lives only while some
// caller holds or waits for it.
type userLocks struct {
	mu      sync.Mutex
	entries map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*userLock)
	}
	entry, ok := l.entries[userID]
	if !ok {
		entry = &userLock{}
		l.entries[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, userID)
		}
		l.mu.Unlock()
	}
}
