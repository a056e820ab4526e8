package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

type PaymentGateway interface {
	// CreatePaymentOrder registers the amount with the payment provider and returns its order id
	CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error)
}

type ObjectStorage interface {
	// Upload stores the blob and returns a stable download URL
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)

	Delete(ctx context.Context, path string) error
}

type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
}
