package config

import (
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" || cfg.GRPCAddr != ":50051" {
		t.Errorf("unexpected addresses: %s %s", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.ArchiveBackend != ArchiveMySQL || cfg.AuthProvider != AuthJWT {
		t.Errorf("unexpected backends: %s %s", cfg.ArchiveBackend, cfg.AuthProvider)
	}
	if cfg.CartTTL != 7*24*time.Hour || cfg.JWTTTL != 24*time.Hour {
		t.Errorf("unexpected ttls: %v %v", cfg.CartTTL, cfg.JWTTTL)
	}
	if cfg.LogLevel != log.InfoLevel {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.UsesFirebase() {
		t.Error("jwt config must not need firebase")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("ARCHIVE_BACKEND", "mongo")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PAYMENT_TIMEOUT", "750ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ArchiveBackend != ArchiveMongo || cfg.RedisDB != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.PaymentTimeout != 750*time.Millisecond || cfg.LogLevel != log.DebugLevel {
		t.Errorf("unexpected parsed values: %v %v", cfg.PaymentTimeout, cfg.LogLevel)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"ARCHIVE_BACKEND":      {"JWT_SECRET": "0123456789abcdef", "ARCHIVE_BACKEND": "postgres"},
		"JWT_SECRET":           {"JWT_SECRET": "short"},
		"AUTH_PROVIDER":        {"AUTH_PROVIDER": "saml"},
		"FIREBASE_CREDENTIALS": {"AUTH_PROVIDER": "firebase"},
		"CART_TTL":             {"JWT_SECRET": "0123456789abcdef", "CART_TTL": "soon"},
		"REDIS_DB":             {"JWT_SECRET": "0123456789abcdef", "REDIS_DB": "one"},
	}

	for want, env := range cases {
		t.Run(want, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Errorf("expected error mentioning %s, got: %v", want, err)
			}
		})
	}
}
