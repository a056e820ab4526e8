package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer     Role = "customer"
	RoleCanteenOwner Role = "canteen_owner"
)

func ParseRole(s string) Role {
	if Role(s) == RoleCanteenOwner {
		return RoleCanteenOwner
	}
	return RoleCustomer
}

// Identity is the signed-in principal returned by the identity provider.
type Identity struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photo_url"`
	Role        Role      `json:"role"`
	TokenID     string    `json:"-"`
	ExpiresAt   time.Time `json:"-"`
}

// CanSetStatus reports whether a caller acting on the role side of an order
// may move it from from to to. The side is decided per order, not by the
// caller's account role. Owners drive the kitchen side; customers acknowledge
// pickup and may withdraw an order nobody has started on.
func CanSetStatus(role Role, from, to OrderStatus) bool {
	switch role {
	case RoleCanteenOwner:
		return to == OrderStatusPreparing || to == OrderStatusReady || to == OrderStatusCancelled
	case RoleCustomer:
		return to == OrderStatusCompleted || (to == OrderStatusCancelled && from == OrderStatusPending)
	}
	return false
}

type UserProfile struct {
	UID         string          `json:"uid"`
	DisplayName string          `json:"display_name"`
	Email       string          `json:"email"`
	PhotoURL    string          `json:"photo_url"`
	Role        Role            `json:"role"`
	AmountSpent decimal.Decimal `json:"amount_spent"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
