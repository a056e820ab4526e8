package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	ArchiveMySQL = "mysql"
	ArchiveMongo = "mongo"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MySQLDSN       string
	ArchiveBackend string
	MongoURI       string
	MongoDatabase  string

	AMQPURL string

	PaymentURL     string
	PaymentTimeout time.Duration
	Currency       string

	AuthProvider        string
	JWTSecret           string
	JWTTTL              time.Duration
	FirebaseCredentials string
	StorageBucket       string

	CartTTL  time.Duration
	LogLevel log.Level
}

// Load reads the environment, seeded from a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:            getEnv("GRPC_ADDR", ":50051"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		MySQLDSN:            getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/canteen?parseTime=true"),
		ArchiveBackend:      getEnv("ARCHIVE_BACKEND", ArchiveMySQL),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnv("MONGO_DATABASE", "canteen"),
		AMQPURL:             getEnv("AMQP_URL", ""),
		PaymentURL:          getEnv("PAYMENT_URL", ""),
		Currency:            getEnv("CURRENCY", "INR"),
		AuthProvider:        getEnv("AUTH_PROVIDER", AuthJWT),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.PaymentTimeout, err = time.ParseDuration(getEnv("PAYMENT_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("PAYMENT_TIMEOUT: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.CartTTL, err = time.ParseDuration(getEnv("CART_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("CART_TTL: %w", err)
	}
	if cfg.LogLevel, err = log.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ArchiveBackend {
	case ArchiveMySQL, ArchiveMongo:
	default:
		return fmt.Errorf("ARCHIVE_BACKEND must be %q or %q, got %q", ArchiveMySQL, ArchiveMongo, c.ArchiveBackend)
	}

	switch c.AuthProvider {
	case AuthJWT:
		if len(c.JWTSecret) < 16 {
			return fmt.Errorf("JWT_SECRET must be at least 16 characters")
		}
	case AuthFirebase:
		if c.FirebaseCredentials == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthJWT, AuthFirebase, c.AuthProvider)
	}

	if c.StorageBucket != "" && c.FirebaseCredentials == "" {
		return fmt.Errorf("STORAGE_BUCKET needs FIREBASE_CREDENTIALS")
	}
	if c.PaymentTimeout <= 0 || c.JWTTTL <= 0 || c.CartTTL <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	return nil
}

// UsesFirebase reports whether a Firebase app has to be initialised.
func (c *Config) UsesFirebase() bool {
	return c.AuthProvider == AuthFirebase || c.StorageBucket != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
