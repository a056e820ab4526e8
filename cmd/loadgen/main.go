package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/rl1809/canteen-orders/internal/adapter/handler"
	"github.com/rl1809/canteen-orders/internal/adapter/handler/pb"
	"github.com/rl1809/canteen-orders/internal/adapter/identity"
	"github.com/rl1809/canteen-orders/internal/adapter/messaging"
	"github.com/rl1809/canteen-orders/internal/config"
	"github.com/rl1809/canteen-orders/internal/core/domain"
)

const (
	totalCustomers = 50
	itemPrice      = 40.0
	itemQuantity   = 2
)

// events per order: placed, preparing, ready, completed
const eventsPerOrder = 4

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.AuthProvider != config.AuthJWT {
		log.Fatal("loadgen mints its own tokens and needs AUTH_PROVIDER=jwt")
	}

	baseURL := getEnv("LOADGEN_HTTP_URL", "http://localhost"+cfg.HTTPAddr)
	grpcTarget := getEnv("LOADGEN_GRPC_TARGET", "localhost"+cfg.GRPCAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tokens := identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTTTL, nil)
	client := resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second)

	// Count status events when RabbitMQ is configured
	var events atomic.Int32
	if cfg.AMQPURL != "" {
		sub, err := messaging.NewRabbitPublisher(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect rabbitmq")
		}
		defer sub.Close()
		feed, err := sub.Subscribe(ctx)
		if err != nil {
			log.WithError(err).Fatal("failed to subscribe to status events")
		}
		go func() {
			for range feed {
				events.Add(1)
			}
		}()
	}

	// Owner sets up a canteen with one item
	owner := domain.Identity{UID: "loadgen-owner", DisplayName: "Loadgen Owner", Role: domain.RoleCanteenOwner}
	ownerToken := mustIssue(tokens, owner)

	var canteen domain.Canteen
	mustCall(client.R().SetAuthToken(ownerToken).Post("/api/auth/signin"))
	mustCall(client.R().SetAuthToken(ownerToken).
		SetBody(handler.CanteenHTTPRequest{Name: fmt.Sprintf("Loadgen Canteen %d", time.Now().Unix())}).
		SetResult(&canteen).Post("/api/canteens"))

	var item domain.MenuItem
	mustCall(client.R().SetAuthToken(ownerToken).
		SetBody(handler.MenuItemHTTPRequest{Name: "Veg Thali", Price: itemPrice}).
		SetResult(&item).Post("/api/canteens/" + canteen.ID + "/menu"))

	conn, err := grpc.NewClient(grpcTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.WithError(err).Fatal("failed to dial grpc")
	}
	defer conn.Close()
	kitchen := pb.NewOrderServiceClient(conn)
	ownerCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+ownerToken)

	// Counters
	var placed, completed, failed atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalCustomers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			customer := domain.Identity{UID: fmt.Sprintf("loadgen-customer-%d", n), Role: domain.RoleCustomer}
			token := mustIssue(tokens, customer)

			if err := call(client.R().SetAuthToken(token).Post("/api/auth/signin")); err != nil {
				fail(&failed, customer.UID, "signin", err)
				return
			}
			if err := call(client.R().SetAuthToken(token).
				SetBody(handler.AddItemRequest{CanteenID: canteen.ID, MenuItemID: item.ID, Quantity: itemQuantity}).
				Post("/api/cart/items")); err != nil {
				fail(&failed, customer.UID, "add item", err)
				return
			}

			var order domain.Order
			if err := call(client.R().SetAuthToken(token).
				SetBody(handler.CheckoutHTTPRequest{PaymentMethod: domain.PaymentMethodCash}).
				SetResult(&order).Post("/api/cart/checkout")); err != nil {
				fail(&failed, customer.UID, "checkout", err)
				return
			}
			placed.Add(1)

			for _, next := range []domain.OrderStatus{domain.OrderStatusPreparing, domain.OrderStatusReady} {
				if _, err := kitchen.UpdateStatus(ownerCtx, &pb.UpdateStatusRequest{OrderId: order.ID, Status: string(next)}); err != nil {
					fail(&failed, order.ID, string(next), err)
					return
				}
			}

			if err := call(client.R().SetAuthToken(token).
				SetBody(handler.StatusHTTPRequest{Status: domain.OrderStatusCompleted}).
				Post("/api/orders/" + order.ID + "/status")); err != nil {
				fail(&failed, order.ID, "complete", err)
				return
			}
			completed.Add(1)
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Give the fanout a moment to drain
	if cfg.AMQPURL != "" {
		time.Sleep(time.Second)
	}

	var active struct {
		Orders []domain.Order `json:"orders"`
	}
	mustCall(client.R().SetAuthToken(ownerToken).SetResult(&active).Get("/api/canteens/" + canteen.ID + "/orders/active"))

	var history struct {
		Orders []domain.ArchivedOrder `json:"orders"`
	}
	mustCall(client.R().SetAuthToken(ownerToken).SetResult(&history).Get("/api/canteens/" + canteen.ID + "/orders/history"))

	var stats domain.CanteenAnalytics
	mustCall(client.R().SetAuthToken(ownerToken).SetResult(&stats).Get("/api/canteens/" + canteen.ID + "/analytics"))

	// Results
	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Customers:        %d\n", totalCustomers)
	fmt.Printf("Placed:           %d\n", placed.Load())
	fmt.Printf("Completed:        %d\n", completed.Load())
	fmt.Printf("Failed:           %d\n", failed.Load())
	fmt.Printf("Still active:     %d\n", len(active.Orders))
	fmt.Printf("Archived:         %d\n", len(history.Orders))
	fmt.Printf("Revenue:          %s\n", stats.Revenue)
	fmt.Printf("Duration:         %v\n", elapsed)
	if cfg.AMQPURL != "" {
		fmt.Printf("Status events:    %d\n", events.Load())
	}
	fmt.Println("=======================================")

	// Assertions
	ok := true
	if completed.Load() != totalCustomers || len(active.Orders) != 0 || len(history.Orders) != totalCustomers {
		fmt.Printf("FAIL: expected %d completed and archived orders with none active\n", totalCustomers)
		ok = false
	}
	if cfg.AMQPURL != "" && events.Load() != totalCustomers*eventsPerOrder {
		fmt.Printf("FAIL: expected %d status events, got %d\n", totalCustomers*eventsPerOrder, events.Load())
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Println("PASS: every order went through the full lifecycle")
}

func mustIssue(tokens *identity.JWTProvider, id domain.Identity) string {
	token, err := tokens.Issue(id)
	if err != nil {
		log.WithError(err).Fatal("failed to issue token")
	}
	return token
}

func call(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("%s: %s", resp.Status(), resp.String())
	}
	return nil
}

func mustCall(resp *resty.Response, err error) {
	if err := call(resp, err); err != nil {
		log.WithError(err).WithField("url", resp.Request.URL).Fatal("request failed")
	}
}

func fail(counter *atomic.Int32, subject, step string, err error) {
	counter.Add(1)
	log.WithError(err).WithFields(log.Fields{"subject": subject, "step": step}).Warn("lifecycle step failed")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
