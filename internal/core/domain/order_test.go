package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validOrder() Order {
	return Order{
		UserID:        "u-1",
		CanteenID:     "c-1",
		CanteenName:   "Main Canteen",
		Cart:          []CartItem{burger(2)},
		PaymentMethod: PaymentMethodCash,
	}
}

func TestOrder_Total(t *testing.T) {
	o := validOrder()
	if !o.Total().Equal(decimal.NewFromInt(160)) {
		t.Errorf("expected total 160, got %s", o.Total())
	}
}

func TestOrder_Validate(t *testing.T) {
	if err := validOrder().Validate(); err != nil {
		t.Fatalf("expected valid order, got: %v", err)
	}

	broken := []func(*Order){
		func(o *Order) { o.UserID = "" },
		func(o *Order) { o.CanteenID = "" },
		func(o *Order) { o.Cart = nil },
		func(o *Order) { o.PaymentMethod = "barter" },
		func(o *Order) { o.Cart = append(o.Cart, burger(1)) },
		func(o *Order) { o.Cart[0].Quantity = 0 },
		func(o *Order) { o.Cart[0].Price = -1 },
	}
	for i, mutate := range broken {
		o := validOrder()
		o.Cart = append([]CartItem(nil), o.Cart...)
		mutate(&o)
		if err := o.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got: %v", i, err)
		}
	}
}

func TestOrder_MatchesFilter(t *testing.T) {
	o := validOrder()
	if !o.Matches(ByUser("u-1")) || !o.Matches(ByCanteen("c-1")) {
		t.Error("expected order to match its user and canteen")
	}
	if o.Matches(ByUser("u-2")) || o.Matches(ByCanteen("c-2")) {
		t.Error("expected order not to match other filters")
	}
	if o.Matches(OrderFilter{}) {
		t.Error("empty filter must match nothing")
	}
}

func TestTransportError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("live store: get order", cause)

	if !IsTransport(err) {
		t.Error("expected transport error")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if NewTransportError("noop", nil) != nil {
		t.Error("expected nil for nil cause")
	}
}
