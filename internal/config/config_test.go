package config

import (
	"testing"
	"time"
)

func TestTTLForDefaults(t *testing.T) {
	var cfg IdempotencyConfig
	if got := cfg.TTLFor("CREATE_PAYMENT"); got != 24*time.Hour {
		t.Fatalf("zero config TTL = %v, want 24h", got)
	}

	cfg = IdempotencyConfig{Default: 6 * time.Hour}
	if got := cfg.TTLFor("CREATE_PAYMENT"); got != 6*time.Hour {
		t.Fatalf("TTL = %v, want 6h", got)
	}
}

func TestTTLForOverrideWins(t *testing.T) {
	cfg := IdempotencyConfig{
		Default: 24 * time.Hour,
		Overrides: map[string]time.Duration{
			"IMPORT_BANK_STATEMENT": 72 * time.Hour,
		},
	}
	if got := cfg.TTLFor("IMPORT_BANK_STATEMENT"); got != 72*time.Hour {
		t.Fatalf("override TTL = %v, want 72h", got)
	}
	if got := cfg.TTLFor("CREATE_PAYMENT"); got != 24*time.Hour {
		t.Fatalf("non-overridden TTL = %v, want 24h", got)
	}
}

func TestLoadReadsTTLOverrides(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL", "12h")
	t.Setenv("IDEMPOTENCY_TTL_APPROVE_CASH_CLOSING", "30m")
	t.Setenv("IDEMPOTENCY_TTL_CREATE_PAYMENT", "nonsense")

	cfg := Load()
	if cfg.Idempotency.Default != 12*time.Hour {
		t.Fatalf("default TTL = %v, want 12h", cfg.Idempotency.Default)
	}
	if got := cfg.Idempotency.TTLFor("APPROVE_CASH_CLOSING"); got != 30*time.Minute {
		t.Fatalf("override TTL = %v, want 30m", got)
	}
	// Unparseable override falls back to the default.
	if got := cfg.Idempotency.TTLFor("CREATE_PAYMENT"); got != 12*time.Hour {
		t.Fatalf("bad override TTL = %v, want 12h", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr == "" || cfg.DBType == "" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if cfg.DBMaxOpenConn <= 0 {
		t.Fatalf("DBMaxOpenConn = %d, want positive default", cfg.DBMaxOpenConn)
	}
}
