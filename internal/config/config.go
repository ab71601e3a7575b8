package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/clinscan/clinscan/internal/domain/screening"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer  string   `mapstructure:"AUTH_ISSUER"`
	AuthSecret  string   `mapstructure:"AUTH_SECRET"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Body limits. The upload limit applies to multipart document uploads.
	MaxBodySize   string `mapstructure:"MAX_BODY_SIZE"`
	MaxUploadSize string `mapstructure:"MAX_UPLOAD_SIZE"`

	// Extraction policy toggles.
	UnknownGlucoseDefault string `mapstructure:"UNKNOWN_GLUCOSE_DEFAULT"`
	BPMatchMode           string `mapstructure:"BP_MATCH_MODE"`

	// External risk model.
	ScorerURL     string        `mapstructure:"SCORER_URL"`
	ScorerTimeout time.Duration `mapstructure:"SCORER_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_BODY_SIZE", "1M")
	v.SetDefault("MAX_UPLOAD_SIZE", "10M")
	v.SetDefault("UNKNOWN_GLUCOSE_DEFAULT", string(screening.AssumeFasting))
	v.SetDefault("BP_MATCH_MODE", string(screening.LabeledOnly))
	v.SetDefault("SCORER_TIMEOUT", "10s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MAX_BODY_SIZE")
	v.BindEnv("MAX_UPLOAD_SIZE")
	v.BindEnv("UNKNOWN_GLUCOSE_DEFAULT")
	v.BindEnv("BP_MATCH_MODE")
	v.BindEnv("SCORER_URL")
	v.BindEnv("SCORER_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Policy returns the extraction policy the config selects.
func (c *Config) Policy() screening.Policy {
	return screening.Policy{
		UnknownGlucose: screening.UnknownGlucoseMode(c.UnknownGlucoseDefault),
		BloodPressure:  screening.BloodPressureMode(c.BPMatchMode),
	}
}

// Validate checks that the configuration is safe to run. Outside
// development a signing secret is required so real authentication is
// enforced, and the policy toggles must name supported modes.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required when ENV is %q", c.Env)
	}
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.ScorerTimeout < 0 {
		return fmt.Errorf("SCORER_TIMEOUT must not be negative, got %s", c.ScorerTimeout)
	}
	return nil
}
