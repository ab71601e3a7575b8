package config

import (
	"testing"
	"time"

	"github.com/clinscan/clinscan/internal/domain/screening"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Errorf("Env = %q, want development default", cfg.Env)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("pool bounds = %d/%d, want 20/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.ScorerTimeout != 10*time.Second {
		t.Errorf("ScorerTimeout = %v, want 10s", cfg.ScorerTimeout)
	}

	policy := cfg.Policy()
	if policy.UnknownGlucose != screening.AssumeFasting {
		t.Errorf("UnknownGlucose = %q, want assume_fasting default", policy.UnknownGlucose)
	}
	if policy.BloodPressure != screening.LabeledOnly {
		t.Errorf("BloodPressure = %q, want labeled default", policy.BloodPressure)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UNKNOWN_GLUCOSE_DEFAULT", "random")
	t.Setenv("BP_MATCH_MODE", "bare_fallback")
	t.Setenv("SCORER_URL", "http://scorer:5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.ScorerURL != "http://scorer:5000" {
		t.Errorf("ScorerURL = %q", cfg.ScorerURL)
	}

	policy := cfg.Policy()
	if policy.UnknownGlucose != screening.DefaultRandom || policy.BloodPressure != screening.BareNumericFallback {
		t.Errorf("policy = %+v, want loose variant", policy)
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	t.Setenv("UNKNOWN_GLUCOSE_DEFAULT", "sometimes")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown glucose mode")
	}
}

func TestValidateRequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when AUTH_SECRET is unset in production")
	}

	t.Setenv("AUTH_SECRET", "super-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() true with ENV=production")
	}
}
