package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	archived := []ArchivedOrder{
		{ArchiveID: "a1", Order: Order{Status: OrderStatusCompleted, Cart: []CartItem{burger(2)}}},
		{ArchiveID: "a2", Order: Order{Status: OrderStatusCompleted, Cart: []CartItem{
			burger(1),
			{ID: "t", Name: "Tea", Price: 10, Quantity: 4},
		}}},
		{ArchiveID: "a3", Order: Order{Status: OrderStatusCancelled, Cart: []CartItem{burger(5)}}},
	}
	active := []Order{
		{Status: OrderStatusPending},
		{Status: OrderStatusPending},
		{Status: OrderStatusReady},
	}

	got := Summarize("c-1", archived, active, 1)

	if got.CompletedOrders != 2 || got.CancelledOrders != 1 {
		t.Errorf("expected 2 completed / 1 cancelled, got %d / %d", got.CompletedOrders, got.CancelledOrders)
	}
	if !got.Revenue.Equal(decimal.NewFromInt(280)) {
		t.Errorf("expected revenue 280, got %s", got.Revenue)
	}
	if !got.AverageOrderValue.Equal(decimal.NewFromInt(140)) {
		t.Errorf("expected average 140, got %s", got.AverageOrderValue)
	}
	if len(got.TopItems) != 1 || got.TopItems[0].ItemID != "t" || got.TopItems[0].Quantity != 4 {
		t.Errorf("expected tea as top item, got %+v", got.TopItems)
	}
	if got.ActiveByStatus[OrderStatusPending] != 2 || got.ActiveByStatus[OrderStatusReady] != 1 {
		t.Errorf("unexpected active counts: %v", got.ActiveByStatus)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize("c-1", nil, nil, 5)
	if got.CompletedOrders != 0 || !got.Revenue.IsZero() || !got.AverageOrderValue.IsZero() {
		t.Errorf("expected zero analytics, got %+v", got)
	}
	if len(got.TopItems) != 0 {
		t.Errorf("expected no top items, got %+v", got.TopItems)
	}
}
