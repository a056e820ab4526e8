package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Order is a checked-out cart plus fulfillment metadata. Only Status (and the
// Version that counts status writes) changes after placement.
type Order struct {
	ID             string      `json:"order_id" bson:"order_id"`
	UserID         string      `json:"user_id" bson:"user_id"`
	CanteenID      string      `json:"canteen_id" bson:"canteen_id"`
	CanteenName    string      `json:"canteen_name" bson:"canteen_name"`
	Cart           []CartItem  `json:"cart" bson:"cart"`
	PaymentMethod  string      `json:"payment_method" bson:"payment_method"`
	PaymentOrderID string      `json:"payment_order_id,omitempty" bson:"payment_order_id,omitempty"`
	ScheduledTime  *time.Time  `json:"scheduled_time,omitempty" bson:"scheduled_time,omitempty"`
	Status         OrderStatus `json:"order_status" bson:"order_status"`
	Version        int64       `json:"version" bson:"version"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}

func (o Order) Total() decimal.Decimal {
	return CartTotal(o.Cart)
}

func (o Order) Validate() error {
	switch {
	case o.UserID == "":
		return fmt.Errorf("%w: user id is required", ErrValidation)
	case o.CanteenID == "":
		return fmt.Errorf("%w: canteen id is required", ErrValidation)
	case len(o.Cart) == 0:
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	if o.PaymentMethod != PaymentMethodCash && o.PaymentMethod != PaymentMethodOnline {
		return fmt.Errorf("%w: unsupported payment method %q", ErrValidation, o.PaymentMethod)
	}

	seen := make(map[string]bool, len(o.Cart))
	for _, item := range o.Cart {
		if item.ID == "" || seen[item.ID] {
			return fmt.Errorf("%w: cart item ids must be unique and non-empty", ErrValidation)
		}
		seen[item.ID] = true
		if item.Quantity <= 0 || item.Price < 0 {
			return fmt.Errorf("%w: invalid quantity or price for item %q", ErrValidation, item.ID)
		}
	}
	return nil
}

func (o Order) Matches(f OrderFilter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.CanteenID != "" && o.CanteenID != f.CanteenID {
		return false
	}
	return f.UserID != "" || f.CanteenID != ""
}

// ArchivedOrder is a terminal order in durable storage under its own id.
type ArchivedOrder struct {
	ArchiveID  string `json:"archive_id" bson:"_id"`
	Order      `bson:",inline"`
	ArchivedAt time.Time `json:"archived_at" bson:"archived_at"`
}

// OrderFilter selects orders by user or by canteen.
type OrderFilter struct {
	UserID    string
	CanteenID string
}

func ByUser(userID string) OrderFilter {
	return OrderFilter{UserID: userID}
}

func ByCanteen(canteenID string) OrderFilter {
	return OrderFilter{CanteenID: canteenID}
}

func (f OrderFilter) MatchesChange(c OrderChange) bool {
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.CanteenID != "" && c.CanteenID != f.CanteenID {
		return false
	}
	return f.UserID != "" || f.CanteenID != ""
}

func (f OrderFilter) String() string {
	if f.UserID != "" {
		return "user:" + f.UserID
	}
	return "canteen:" + f.CanteenID
}

type ChangeKind string

const (
	ChangeSet    ChangeKind = "set"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// OrderChange is published by the live store after every committed write.
type OrderChange struct {
	OrderID   string     `json:"order_id"`
	UserID    string     `json:"user_id"`
	CanteenID string     `json:"canteen_id"`
	Kind      ChangeKind `json:"kind"`
}

// StatusChangedEvent is broadcast to downstream notifiers.
type StatusChangedEvent struct {
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	CanteenID string      `json:"canteen_id"`
	OldStatus OrderStatus `json:"old_status,omitempty"`
	NewStatus OrderStatus `json:"new_status"`
	ChangedAt time.Time   `json:"changed_at"`
}
