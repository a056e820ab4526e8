package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/metrics"
)

const circuitName = "payment"

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// Client creates payment orders on the external payment provider. Calls go
// through a circuit breaker.
type Client struct {
	http    *resty.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        circuitName,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(circuitName).Set(0)

	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		baseURL: baseURL,
		breaker: breaker,
	}
}

// CreatePaymentOrder registers amount (converted to minor units) and returns
// the provider's order id.
func (c *Client) CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}

	body := createOrderRequest{
		Amount:   amount.Shift(2).Round(0).IntPart(),
		Currency: currency,
		Receipt:  receipt,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(c.baseURL + "/orders")
		if err != nil {
			return nil, fmt.Errorf("http error: %w", err)
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
			return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode(), resp.String())
		}

		var out createOrderResponse
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		if out.ID == "" {
			return nil, errors.New("payment provider returned no order id")
		}
		return out.ID, nil
	})
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(circuitName).Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("circuit breaker %s is open: %w", circuitName, err)
		}
		return "", domain.NewTransportError("payment: create order", err)
	}

	return result.(string), nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
