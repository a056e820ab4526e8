package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/grpc"

	"github.com/rl1809/canteen-orders/internal/adapter/handler"
	"github.com/rl1809/canteen-orders/internal/adapter/handler/pb"
	"github.com/rl1809/canteen-orders/internal/adapter/identity"
	"github.com/rl1809/canteen-orders/internal/adapter/messaging"
	"github.com/rl1809/canteen-orders/internal/adapter/objectstore"
	"github.com/rl1809/canteen-orders/internal/adapter/payment"
	"github.com/rl1809/canteen-orders/internal/adapter/storage"
	"github.com/rl1809/canteen-orders/internal/config"
	"github.com/rl1809/canteen-orders/internal/core/service"
	"github.com/rl1809/canteen-orders/internal/port"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL: catalog, users, and the default archive
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to open mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("failed to ping mysql")
	}
	log.Info("connected to mysql")

	// Redis: live orders, carts, token denylist
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	log.Info("connected to redis")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	liveStore := storage.NewRedisOrderStore(rdb)
	cartStore := storage.NewRedisCartStore(rdb, cfg.CartTTL)

	var (
		archive port.OrderArchive      = mysqlAdapter
		ledger  port.SpendLedger       = mysqlAdapter
		users   port.UserRepository    = mysqlAdapter
		catalog port.CatalogRepository = mysqlAdapter
	)

	if cfg.ArchiveBackend == config.ArchiveMongo {
		mongoClient, err := storage.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("failed to connect mongo")
		}
		defer mongoClient.Disconnect(context.Background())

		mongoArchive := storage.NewMongoArchive(mongoClient, cfg.MongoDatabase)
		if err := mongoArchive.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Fatal("failed to create mongo indexes")
		}
		archive, ledger, users = mongoArchive, mongoArchive, mongoArchive
		log.WithField("database", cfg.MongoDatabase).Info("archiving to mongo")
	}

	var app *firebase.App
	if cfg.UsesFirebase() {
		app, err = firebase.NewApp(ctx, &firebase.Config{StorageBucket: cfg.StorageBucket}, credentialsOption(cfg.FirebaseCredentials))
		if err != nil {
			log.WithError(err).Fatal("failed to initialise firebase")
		}
	}

	var idp port.IdentityProvider
	switch cfg.AuthProvider {
	case config.AuthFirebase:
		idp, err = identity.NewFirebaseProvider(ctx, app)
		if err != nil {
			log.WithError(err).Fatal("failed to initialise firebase auth")
		}
	default:
		idp = identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTTTL, storage.NewRedisTokenDenylist(rdb))
	}
	log.WithField("provider", cfg.AuthProvider).Info("identity provider ready")

	var images port.ObjectStorage
	if cfg.StorageBucket != "" {
		images, err = objectstore.NewFirebaseStorage(ctx, app, cfg.StorageBucket)
		if err != nil {
			log.WithError(err).Fatal("failed to open storage bucket")
		}
	}

	var payments port.PaymentGateway
	if cfg.PaymentURL != "" {
		payments = payment.NewClient(cfg.PaymentURL, cfg.PaymentTimeout)
	}

	var coordinatorOpts []service.CoordinatorOption
	if cfg.AMQPURL != "" {
		publisher, err := messaging.NewRabbitPublisher(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect rabbitmq")
		}
		defer publisher.Close()
		coordinatorOpts = append(coordinatorOpts, service.WithStatusPublisher(publisher))
		log.Info("publishing status changes to rabbitmq")
	}

	// Services
	coordinator := service.NewCoordinator(liveStore, archive, ledger, coordinatorOpts...)
	catalogService := service.NewCatalogService(catalog, images)
	cartService := service.NewCartService(cartStore, catalog, archive, coordinator, payments, cfg.Currency)
	accountService := service.NewAccountService(users, archive, liveStore, catalogService)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coordinator.Run(ctx)
	}()

	// gRPC server
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(handler.UnaryAuthInterceptor(idp)),
		grpc.StreamInterceptor(handler.StreamAuthInterceptor(idp)),
	)
	pb.RegisterOrderServiceServer(grpcServer, handler.NewGRPCHandler(coordinator, catalogService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.WithError(err).Fatal("failed to listen")
	}

	go func() {
		log.WithField("addr", cfg.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Error("gRPC server error")
		}
	}()

	// HTTP server
	httpHandler := handler.NewHTTPHandler(coordinator, cartService, catalogService, accountService, idp)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(handler.NewWSHandler(coordinator, catalogService)),
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	// Closing the feed ends every websocket and gRPC stream.
	cancel()
	wg.Wait()
	log.Info("order feed stopped")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}

// credentialsOption accepts either a service account file path or inline JSON.
func credentialsOption(creds string) option.ClientOption {
	if strings.HasPrefix(strings.TrimSpace(creds), "{") {
		return option.WithCredentialsJSON([]byte(creds))
	}
	return option.WithCredentialsFile(creds)
}
