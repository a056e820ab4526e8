package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

func TestCreatePaymentOrder_Success(t *testing.T) {
	var got createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_Pay123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	id, err := client.CreatePaymentOrder(context.Background(), decimal.RequireFromString("185.50"), "INR", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "order_Pay123" {
		t.Errorf("expected order_Pay123, got %s", id)
	}
	if got.Amount != 18550 || got.Currency != "INR" || got.Receipt != "order-1" {
		t.Errorf("unexpected request body: %+v", got)
	}
}

func TestCreatePaymentOrder_RejectsNonPositive(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second)
	_, err := client.CreatePaymentOrder(context.Background(), decimal.Zero, "INR", "order-1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
}

func TestCreatePaymentOrder_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.CreatePaymentOrder(context.Background(), decimal.NewFromInt(10), "INR", "order-1")
	if !domain.IsTransport(err) {
		t.Errorf("expected transport error, got: %v", err)
	}
}

func TestCreatePaymentOrder_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	for i := 0; i < 10; i++ {
		client.CreatePaymentOrder(context.Background(), decimal.NewFromInt(10), "INR", "order-1")
	}

	// Trips after three failed requests; the rest never reach the provider.
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls before the circuit opened, got %d", calls.Load())
	}
}
