package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.CheckpointsTable != "checkpoints" {
		t.Errorf("expected default checkpoints table, got %s", cfg.CheckpointsTable)
	}
	if cfg.HorizonDays != 7 {
		t.Errorf("expected default horizon of 7 days, got %d", cfg.HorizonDays)
	}
	if cfg.BookingLockTTL != 5*time.Second {
		t.Errorf("expected default lock TTL of 5s, got %s", cfg.BookingLockTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("HORIZON_DAYS", "14")
	t.Setenv("USE_LOCAL_LOCKS", "true")
	t.Setenv("BOOKING_LOCK_TTL", "30s")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.HorizonDays != 14 {
		t.Errorf("expected horizon 14, got %d", cfg.HorizonDays)
	}
	if !cfg.UseLocalLocks {
		t.Error("expected local locks enabled")
	}
	if cfg.BookingLockTTL != 30*time.Second {
		t.Errorf("expected lock TTL 30s, got %s", cfg.BookingLockTTL)
	}
}
