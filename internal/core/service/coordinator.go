package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/metrics"
	"github.com/rl1809/canteen-orders/internal/port"
)

// Coordinator owns the status of active orders. Active orders live in the
// live store; terminal orders are moved to the archive and removed from it.
// Status writes are compare-and-set on the status last read, so of two
// racing writers exactly one wins and the other gets ErrInvalidTransition.
type Coordinator struct {
	live      port.LiveOrderStore
	archive   port.OrderArchive
	ledger    port.SpendLedger
	publisher port.StatusPublisher
	hub       *Hub
	now       func() time.Time
	newID     func() string
}

type CoordinatorOption func(*Coordinator)

func WithStatusPublisher(p port.StatusPublisher) CoordinatorOption {
	return func(c *Coordinator) { c.publisher = p }
}

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(live port.LiveOrderStore, archive port.OrderArchive, ledger port.SpendLedger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		live:    live,
		archive: archive,
		ledger:  ledger,
		hub:     NewHub(live),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run feeds live store changes to subscribers until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	c.hub.Run(ctx)
}

// PlaceOrder stores a new pending order and charges its total to the user's
// spend ledger. A failed ledger write removes the order again. Ids already
// used by an active or archived order are rejected.
func (c *Coordinator) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	if order.ID == "" {
		order.ID = c.newID()
	} else if _, err := c.archive.FindByOrderID(ctx, order.ID); err == nil {
		return domain.Order{}, duplicateOrder(order.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Order{}, err
	}

	now := c.now()
	order.Cart = append([]domain.CartItem(nil), order.Cart...)
	order.Status = domain.OrderStatusPending
	order.Version = 1
	order.CreatedAt = now
	order.UpdatedAt = now

	created, err := c.live.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order %s: %w", order.ID, err)
	}
	if !created {
		return domain.Order{}, duplicateOrder(order.ID)
	}

	total := order.Total()
	if err := c.ledger.RecordSpend(ctx, order.UserID, order.ID, total); err != nil {
		if delErr := c.live.DeleteOrder(ctx, order.ID); delErr != nil {
			log.WithError(delErr).WithField("order_id", order.ID).Error("CRITICAL: could not remove order after ledger failure")
		}
		return domain.Order{}, fmt.Errorf("record spend for order %s: %w", order.ID, err)
	}

	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	metrics.OrderValue.Observe(total.InexactFloat64())
	c.publish(ctx, order, "", domain.OrderStatusPending)

	log.WithFields(log.Fields{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"canteen_id": order.CanteenID,
		"total":      total.String(),
	}).Info("order placed")

	return order, nil
}

// UpdateStatus moves an active order one step forward. Terminal statuses are
// routed through CompleteOrder and CancelOrder so the order is archived.
func (c *Coordinator) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	return c.UpdateStatusFrom(ctx, orderID, "", status)
}

// UpdateStatusFrom is UpdateStatus for callers that made a decision based on
// a status they read earlier. The move only happens while the order is still
// in from; otherwise it fails with ErrInvalidTransition. An empty from
// accepts whatever status the order has now.
func (c *Coordinator) UpdateStatusFrom(ctx context.Context, orderID string, from, status domain.OrderStatus) (domain.Order, error) {
	if !status.IsValid() {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}
	switch status {
	case domain.OrderStatusCompleted:
		archived, err := c.CompleteOrderFrom(ctx, orderID, from)
		return archived.Order, err
	case domain.OrderStatusCancelled:
		archived, err := c.cancelOrder(ctx, orderID, from)
		return archived.Order, err
	}

	current, err := c.expectedOrder(ctx, orderID, from, status)
	if err != nil {
		return domain.Order{}, err
	}
	if err := c.checkTransition(*current, status); err != nil {
		return domain.Order{}, err
	}

	ok, err := c.live.UpdateStatus(ctx, orderID, current.Status, status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update status of order %s: %w", orderID, err)
	}
	if !ok {
		return domain.Order{}, c.lostRace(orderID, current.Status, status)
	}

	prev := current.Status
	current.Status = status
	current.Version++
	current.UpdatedAt = c.now()

	metrics.StatusTransitions.WithLabelValues(string(prev), string(status)).Inc()
	c.publish(ctx, *current, prev, status)

	log.WithFields(log.Fields{
		"order_id": orderID,
		"from":     prev,
		"to":       status,
	}).Info("order status updated")

	return *current, nil
}

// CompleteOrder archives a ready order as completed. The durable copy is
// written first; the live entry is only touched once that succeeded.
func (c *Coordinator) CompleteOrder(ctx context.Context, orderID string) (domain.ArchivedOrder, error) {
	return c.CompleteOrderFrom(ctx, orderID, "")
}

// CompleteOrderFrom completes the order only while it is still in from.
func (c *Coordinator) CompleteOrderFrom(ctx context.Context, orderID string, from domain.OrderStatus) (domain.ArchivedOrder, error) {
	current, err := c.expectedOrder(ctx, orderID, from, domain.OrderStatusCompleted)
	if err != nil {
		return domain.ArchivedOrder{}, err
	}
	if err := c.checkTransition(*current, domain.OrderStatusCompleted); err != nil {
		return domain.ArchivedOrder{}, err
	}
	return c.migrate(ctx, *current, domain.OrderStatusCompleted)
}

// CancelOrder archives an active order as cancelled and reverses its spend
// entry. The reversal is re-applied if archiving fails.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID string) (domain.ArchivedOrder, error) {
	return c.cancelOrder(ctx, orderID, "")
}

func (c *Coordinator) cancelOrder(ctx context.Context, orderID string, from domain.OrderStatus) (domain.ArchivedOrder, error) {
	current, err := c.expectedOrder(ctx, orderID, from, domain.OrderStatusCancelled)
	if err != nil {
		return domain.ArchivedOrder{}, err
	}
	if err := c.checkTransition(*current, domain.OrderStatusCancelled); err != nil {
		return domain.ArchivedOrder{}, err
	}

	total := current.Total()
	if err := c.ledger.RecordSpend(ctx, current.UserID, current.ID, total.Neg()); err != nil {
		return domain.ArchivedOrder{}, fmt.Errorf("reverse spend for order %s: %w", orderID, err)
	}

	archived, err := c.migrate(ctx, *current, domain.OrderStatusCancelled)
	if err != nil {
		if redoErr := c.ledger.RecordSpend(ctx, current.UserID, current.ID, total); redoErr != nil {
			log.WithError(redoErr).WithField("order_id", orderID).Error("CRITICAL: could not restore spend after failed cancel")
		}
		return domain.ArchivedOrder{}, err
	}
	return archived, nil
}

func (c *Coordinator) migrate(ctx context.Context, current domain.Order, to domain.OrderStatus) (domain.ArchivedOrder, error) {
	from := current.Status
	final := current
	final.Status = to
	final.Version++
	final.UpdatedAt = c.now()

	archived, err := c.archive.ArchiveOrder(ctx, final)
	if err != nil {
		return domain.ArchivedOrder{}, fmt.Errorf("archive order %s: %w", current.ID, err)
	}

	ok, err := c.live.UpdateStatus(ctx, current.ID, from, to)
	if err != nil || !ok {
		if delErr := c.archive.DeleteArchivedOrder(ctx, archived.ArchiveID); delErr != nil {
			log.WithError(delErr).WithFields(log.Fields{
				"order_id":   current.ID,
				"archive_id": archived.ArchiveID,
			}).Error("CRITICAL: could not remove archive record after failed status write")
		}
		if err != nil {
			return domain.ArchivedOrder{}, fmt.Errorf("update status of order %s: %w", current.ID, err)
		}
		return domain.ArchivedOrder{}, c.lostRace(current.ID, from, to)
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	metrics.OrdersArchived.WithLabelValues(string(to)).Inc()
	c.publish(ctx, final, from, to)

	// The order is durably terminal at this point. A leftover live entry is
	// removed by the next activeOrder lookup.
	if err := c.live.DeleteOrder(ctx, current.ID); err != nil {
		log.WithError(err).WithField("order_id", current.ID).Error("failed to remove archived order from live store")
	}

	log.WithFields(log.Fields{
		"order_id":   current.ID,
		"archive_id": archived.ArchiveID,
		"status":     to,
	}).Info("order archived")

	return archived, nil
}

// activeOrder loads the live entry. Orders already archived, or left behind
// in a terminal status by an interrupted migration, are reported as
// ErrInvalidTransition.
func (c *Coordinator) activeOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := c.live.GetOrder(ctx, orderID)
	if err == nil {
		if order.Status.IsTerminal() {
			if delErr := c.live.DeleteOrder(ctx, orderID); delErr != nil {
				log.WithError(delErr).WithField("order_id", orderID).Warn("stale terminal order left in live store")
			}
			return nil, fmt.Errorf("%w: order %s is already %s", domain.ErrInvalidTransition, orderID, order.Status)
		}
		return order, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	archived, err := c.archive.FindByOrderID(ctx, orderID)
	if err == nil {
		return nil, fmt.Errorf("%w: order %s is already %s", domain.ErrInvalidTransition, orderID, archived.Status)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
}

// expectedOrder is activeOrder plus the check that the order has not moved
// away from the status the caller decided on.
func (c *Coordinator) expectedOrder(ctx context.Context, orderID string, from, to domain.OrderStatus) (*domain.Order, error) {
	current, err := c.activeOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if from != "" && current.Status != from {
		return nil, c.lostRace(orderID, from, to)
	}
	return current, nil
}

func (c *Coordinator) checkTransition(current domain.Order, to domain.OrderStatus) error {
	if domain.CanTransition(current.Status, to) {
		return nil
	}
	metrics.RejectedTransitions.WithLabelValues(string(current.Status), string(to)).Inc()
	return fmt.Errorf("%w: order %s cannot move from %s to %s", domain.ErrInvalidTransition, current.ID, current.Status, to)
}

func (c *Coordinator) lostRace(orderID string, from, to domain.OrderStatus) error {
	metrics.RejectedTransitions.WithLabelValues(string(from), string(to)).Inc()
	return fmt.Errorf("%w: order %s changed status concurrently, expected %s", domain.ErrInvalidTransition, orderID, from)
}

func duplicateOrder(orderID string) error {
	return fmt.Errorf("%w: order %s already exists", domain.ErrValidation, orderID)
}

func (c *Coordinator) publish(ctx context.Context, order domain.Order, from, to domain.OrderStatus) {
	if c.publisher == nil {
		return
	}
	event := domain.StatusChangedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		CanteenID: order.CanteenID,
		OldStatus: from,
		NewStatus: to,
		ChangedAt: c.now(),
	}
	if err := c.publisher.PublishStatusChanged(ctx, event); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("failed to publish status change")
	}
}

// ActiveOrder returns a live, non-terminal order. Archived orders are
// reported as ErrInvalidTransition, unknown ids as ErrNotFound.
func (c *Coordinator) ActiveOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return c.activeOrder(ctx, orderID)
}

// GetOrder returns an active order.
func (c *Coordinator) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return c.live.GetOrder(ctx, orderID)
}

func (c *Coordinator) ListActive(ctx context.Context, filter domain.OrderFilter) (Snapshot, error) {
	return c.live.ListOrders(ctx, filter)
}

func (c *Coordinator) SubscribeToOrdersByUser(ctx context.Context, userID string) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return c.hub.Subscribe(ctx, domain.ByUser(userID))
}

func (c *Coordinator) SubscribeToOrdersByCanteen(ctx context.Context, canteenID string) (*Subscription, error) {
	if canteenID == "" {
		return nil, fmt.Errorf("%w: canteen id is required", domain.ErrValidation)
	}
	return c.hub.Subscribe(ctx, domain.ByCanteen(canteenID))
}
