package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/granola-store/internal/pricing"
)

// Config holds the complete application configuration, loadable from
// environment variables (GRANOLA_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (GRANOLA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com)" flag:"image-base-url"`
	APIKeyPepper string `usage:"HMAC pepper for API key hashing (GRANOLA_API_KEY_PEPPER)" flag:"api-key-pepper"`
	Pricing      PricingConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// PricingConfig exposes the storefront pricing knobs that vary between
// deployments. Pack tiers and discount ratios are code-level policy and stay
// in pricing.DefaultConfig.
type PricingConfig struct {
	BasePriceCents          int64   `default:"900"  usage:"Base price per pouch in cents" flag:"base-price-cents"`
	ShippingCents           int64   `default:"500"  usage:"Standard shipping in cents" flag:"shipping-cents"`
	FreeShippingAmountCents int64   `default:"3500" usage:"Cart subtotal that waives shipping, in cents" flag:"free-shipping-amount-cents"`
	VATRate                 float64 `default:"0.10" usage:"VAT rate included in prices" flag:"vat-rate"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "GRANOLA",
		Files:     []string{"config.yaml", "/etc/granola/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set GRANOLA_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// EngineConfig projects the deployment overrides onto the default pricing
// policy.
func (c *Config) EngineConfig() pricing.Config {
	pc := pricing.DefaultConfig()
	if c.Pricing.BasePriceCents > 0 {
		pc.BasePriceCents = c.Pricing.BasePriceCents
	}
	if c.Pricing.ShippingCents > 0 {
		pc.ShippingCents = c.Pricing.ShippingCents
	}
	if c.Pricing.FreeShippingAmountCents > 0 {
		pc.FreeShippingAmountCents = c.Pricing.FreeShippingAmountCents
	}
	if c.Pricing.VATRate > 0 {
		pc.VATRate = decimal.NewFromFloat(c.Pricing.VATRate)
	}
	return pc
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's GRANOLA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
