package port

import (
	"context"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type LiveOrderStore interface {
	// CreateOrder writes the full order and indexes it by user and canteen.
	// It returns false without writing when the id is already taken.
	CreateOrder(ctx context.Context, order domain.Order) (bool, error)

	// GetOrder returns domain.ErrNotFound when no active order has this id
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// UpdateStatus sets the status only if it still equals from, returns false otherwise
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)

	// DeleteOrder removes the order and its index entries, missing ids are ignored
	DeleteOrder(ctx context.Context, orderID string) error

	// ListOrders returns every active order matching the filter keyed by order id
	ListOrders(ctx context.Context, filter domain.OrderFilter) (map[string]domain.Order, error)

	// Changes streams a notification per committed write until ctx is done
	Changes(ctx context.Context) (<-chan domain.OrderChange, error)
}
