// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store driver selectors.
const (
	DriverSalesforce = "salesforce"
	DriverSpanner    = "spanner"
)

// Config is the process-level configuration. Request credentials are NOT part
// of it; they arrive per request in the client-context header.
type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"salesforce"`
	VendorTimeout   time.Duration `env:"VENDOR_TIMEOUT" envDefault:"30s"`
	SpannerDatabase string        `env:"SPANNER_DATABASE" envDefault:"projects/test-project/instances/emulator-instance/databases/test-db"`
	PricingRegion   string        `env:"PRICING_REGION" envDefault:"NA"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverSalesforce, DriverSpanner:
	default:
		return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}
