package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BILLING_CONTRACT", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Calendar() != domain.DefaultCalendar {
		t.Fatalf("expected default calendar, got %+v", cfg.Calendar())
	}

	if cfg.Confirmations != 12 || cfg.BlockBatchSize != 2000 {
		t.Fatalf("unexpected indexer defaults: confirmations=%d batch=%d", cfg.Confirmations, cfg.BlockBatchSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("BILLING_CONTRACT", "0x00000000000000000000000000000000000000B1")
	t.Setenv("START_BLOCK", "11500000")
	t.Setenv("DAY_LENGTH_SECONDS", "3600")
	t.Setenv("EPOCH_DAY", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.StartBlock != 11500000 {
		t.Fatalf("expected start block override, got %d", cfg.StartBlock)
	}

	if cal := cfg.Calendar(); cal.DayLength != 3600 || cal.EpochDay != 0 {
		t.Fatalf("expected hourly calendar, got %+v", cal)
	}

	if err := cfg.ValidateIndexer(); err != nil {
		t.Fatalf("expected indexer settings to validate, got %v", err)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidCalendar(t *testing.T) {
	t.Setenv("DAY_LENGTH_SECONDS", "0")

	if _, err := config.Load(); !errors.Is(err, domain.ErrInvalidCalendar) {
		t.Fatalf("expected ErrInvalidCalendar, got %v", err)
	}
}

func TestValidateIndexer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"missing billing contract", config.Config{BlockBatchSize: 10}, true},
		{"malformed billing contract", config.Config{BillingContract: "0x12", BlockBatchSize: 10}, true},
		{"malformed token contract", config.Config{
			BillingContract: "0x00000000000000000000000000000000000000b1",
			TokenContract:   "token",
			BlockBatchSize:  10,
		}, true},
		{"zero batch", config.Config{BillingContract: "0x00000000000000000000000000000000000000b1"}, true},
		{"valid", config.Config{BillingContract: "0x00000000000000000000000000000000000000b1", BlockBatchSize: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateIndexer()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
