package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/core/service"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func identityFrom(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return id, ok
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// statusAuthorizer decides whether a caller may move an order. The side a
// caller acts on is taken from the order itself: the owner of its canteen
// acts as the kitchen, the user who placed it acts as the customer. An owner
// ordering from another canteen is only a customer there.
type statusAuthorizer struct {
	orders  *service.Coordinator
	catalog *service.CatalogService
}

func (a statusAuthorizer) updateStatus(ctx context.Context, caller domain.Identity, orderID string, to domain.OrderStatus) (domain.Order, error) {
	from, err := a.check(ctx, caller, orderID, to)
	if err != nil {
		return domain.Order{}, err
	}
	return a.orders.UpdateStatusFrom(ctx, orderID, from, to)
}

func (a statusAuthorizer) completeOrder(ctx context.Context, caller domain.Identity, orderID string) (domain.ArchivedOrder, error) {
	from, err := a.check(ctx, caller, orderID, domain.OrderStatusCompleted)
	if err != nil {
		return domain.ArchivedOrder{}, err
	}
	return a.orders.CompleteOrderFrom(ctx, orderID, from)
}

// check validates that caller may move orderID to status to and returns the
// status the decision was made on. The write must still find the order in
// that status.
func (a statusAuthorizer) check(ctx context.Context, caller domain.Identity, orderID string, to domain.OrderStatus) (domain.OrderStatus, error) {
	if !to.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrValidation, to)
	}

	current, err := a.orders.ActiveOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	roles, err := a.actingRoles(ctx, caller, *current)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if domain.CanSetStatus(role, current.Status, to) {
			return current.Status, nil
		}
	}
	return "", fmt.Errorf("%w: %s may not set %s on a %s order", domain.ErrForbidden, caller.UID, to, current.Status)
}

// authorize checks that the caller may see the order at all.
func (a statusAuthorizer) authorize(ctx context.Context, caller domain.Identity, order domain.Order) error {
	_, err := a.actingRoles(ctx, caller, order)
	return err
}

// actingRoles lists the sides caller acts on for order, customer first. It
// never returns an empty list without an error.
func (a statusAuthorizer) actingRoles(ctx context.Context, caller domain.Identity, order domain.Order) ([]domain.Role, error) {
	var roles []domain.Role
	if order.UserID == caller.UID {
		roles = append(roles, domain.RoleCustomer)
	}

	if caller.Role == domain.RoleCanteenOwner {
		_, err := a.catalog.OwnedCanteen(ctx, caller.UID, order.CanteenID)
		switch {
		case err == nil:
			roles = append(roles, domain.RoleCanteenOwner)
		case len(roles) > 0 && (errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotFound)):
		default:
			return nil, err
		}
	}

	if len(roles) == 0 {
		return nil, fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
	}
	return roles, nil
}
