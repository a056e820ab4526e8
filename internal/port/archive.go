package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type OrderArchive interface {
	// ArchiveOrder stores a terminal order under a new archive id
	ArchiveOrder(ctx context.Context, order domain.Order) (domain.ArchivedOrder, error)

	// DeleteArchivedOrder removes an archive record (compensation only)
	DeleteArchivedOrder(ctx context.Context, archiveID string) error

	// GetArchivedOrder returns domain.ErrNotFound for unknown archive ids
	GetArchivedOrder(ctx context.Context, archiveID string) (*domain.ArchivedOrder, error)

	// FindByOrderID looks up the archive record of a live order id
	FindByOrderID(ctx context.Context, orderID string) (*domain.ArchivedOrder, error)

	ListArchivedOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.ArchivedOrder, error)
}

type SpendLedger interface {
	// RecordSpend adds amount (negative for reversals) to the user's running total
	RecordSpend(ctx context.Context, userID, orderID string, amount decimal.Decimal) error
}
