package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App     AppConfig
	Pricing PricingConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	// A missing .env file is fine; real env vars win either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPCORE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHOPCORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPCORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type PricingConfig struct {
	GoldDiscountPercent int `envconfig:"SHOPCORE_GOLD_DISCOUNT_PERCENT" default:"10"`
}

// GoldDiscountRate returns the discount as a fraction, e.g. 10 -> 0.10.
func (p PricingConfig) GoldDiscountRate() decimal.Decimal {
	return decimal.NewFromInt(int64(p.GoldDiscountPercent)).Div(decimal.NewFromInt(100))
}

func (p PricingConfig) validate() error {
	if p.GoldDiscountPercent < 0 || p.GoldDiscountPercent > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", EnvGoldDiscountPercent, p.GoldDiscountPercent)
	}
	return nil
}

type MetricsConfig struct {
	Enabled bool `envconfig:"SHOPCORE_METRICS_ENABLED" default:"true"`
}
