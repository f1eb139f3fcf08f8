package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Mongo.Database != "shopping" {
		t.Fatalf("expected database shopping, got %s", cfg.Mongo.Database)
	}
	if cfg.RabbitMQ.ExchangeConfigs[0].Name != "exchange.purchase" {
		t.Fatalf("expected exchange.purchase, got %s", cfg.RabbitMQ.ExchangeConfigs[0].Name)
	}
	if cfg.Outbox.Interval != 500*time.Millisecond {
		t.Fatalf("expected 500ms outbox interval, got %v", cfg.Outbox.Interval)
	}
	if cfg.Purchase.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("expected 24h idempotency ttl, got %v", cfg.Purchase.IdempotencyTTL)
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("MONGO_DATABASE", "shop_test")
	t.Setenv("PURCHASE_RATE_LIMIT", "5")
	t.Setenv("IDEMPOTENCY_POLL_INTERVAL", "20")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := NewConfig()

	if cfg.Mongo.Database != "shop_test" {
		t.Fatalf("expected database shop_test, got %s", cfg.Mongo.Database)
	}
	if cfg.Purchase.RateLimitRequests != 5 {
		t.Fatalf("expected rate limit 5, got %d", cfg.Purchase.RateLimitRequests)
	}
	if cfg.Purchase.IdempotencyPollInterval != 20*time.Millisecond {
		t.Fatalf("expected 20ms poll interval, got %v", cfg.Purchase.IdempotencyPollInterval)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("expected metrics disabled")
	}
}

func TestGetIntEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("OUTBOX_BATCH_SIZE", "many")

	if got := getIntEnv("OUTBOX_BATCH_SIZE", 100); got != 100 {
		t.Fatalf("expected default 100, got %d", got)
	}
}
