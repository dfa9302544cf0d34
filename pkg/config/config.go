package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Commission   CommissionConfig
	Checkout     CheckoutConfig
	Payment      PaymentConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Commission.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"FERIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"FERIA_DB_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"FERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FERIA_REDIS_URL" default:"redis://localhost:6379"`
	DialTimeout  time.Duration `envconfig:"FERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FERIA_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FERIA_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// CommissionConfig carries the platform commission baseline and the per-tier
// surcharges. Rates are fractions of the gross amount, never hardcoded in the
// calculator so they can change without a redeploy of the logic.
type CommissionConfig struct {
	Baseline       decimal.Decimal `envconfig:"FERIA_COMMISSION_BASELINE" default:"0.05"`
	Surcharge7Day  decimal.Decimal `envconfig:"FERIA_COMMISSION_SURCHARGE_7D" default:"0.07"`
	Surcharge15Day decimal.Decimal `envconfig:"FERIA_COMMISSION_SURCHARGE_15D" default:"0.04"`
	Surcharge35Day decimal.Decimal `envconfig:"FERIA_COMMISSION_SURCHARGE_35D" default:"0.01"`
}

// Validate enforces that rates are sane fractions and that a shorter hold
// always costs strictly more.
func (c CommissionConfig) Validate() error {
	one := decimal.NewFromInt(1)
	for name, rate := range map[string]decimal.Decimal{
		"baseline":      c.Baseline,
		"surcharge_7d":  c.Surcharge7Day,
		"surcharge_15d": c.Surcharge15Day,
		"surcharge_35d": c.Surcharge35Day,
	} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return fmt.Errorf("commission %s must be in [0,1): got %s", name, rate)
		}
	}
	if !c.Surcharge7Day.GreaterThan(c.Surcharge15Day) || !c.Surcharge15Day.GreaterThan(c.Surcharge35Day) {
		return fmt.Errorf("commission surcharges must strictly decrease with hold time")
	}
	if c.Baseline.Add(c.Surcharge7Day).GreaterThanOrEqual(one) {
		return fmt.Errorf("total commission for the 7 day tier must stay below 100%%")
	}
	return nil
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"FERIA_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type PaymentConfig struct {
	RedirectBaseURL string        `envconfig:"FERIA_PAYMENT_REDIRECT_BASE_URL" default:"https://pay.feriavirtual.local"`
	RequestTimeout  time.Duration `envconfig:"FERIA_PAYMENT_REQUEST_TIMEOUT" default:"10s"`
	Currency        string        `envconfig:"FERIA_PAYMENT_CURRENCY" default:"CLP"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FERIA_FEATURE_AUTO_MIGRATE" default:"false"`
}
