package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL URL to load the catalog from (SHOP_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	CatalogFile string `usage:"Catalog JSON file, optionally gzip compressed; the embedded catalog is used when empty" flag:"catalog-file"`

	ImageBaseURL        string `default:"" usage:"Base URL for relative product image paths" flag:"image-base-url"`
	CheckoutFallbackURL string `default:"" usage:"Payment link used when a selection has no link of its own" flag:"checkout-fallback-url"`

	Brand     BrandConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// BrandConfig is the storefront identity.
type BrandConfig struct {
	Name            string `default:"Ojo Migrante"`
	Tagline         string `default:"Limited-edition photographic prints."`
	Location        string `default:"Boston, MA"`
	Email           string `default:"ojomigrante@gmail.com"`
	HeroNote        string `default:"Archival-quality prints • Signed & numbered • Ships in 3-5 business days"`
	LogoFileID      string `default:"1LRjqEfsH5RDg5hKNhHo8XmoAsAJNUOiU" usage:"Google Drive file id of the logo"`
	LogoResourceKey string `default:""`
}

// RateLimitConfig controls the per-client rate limiter.
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

func loaderConfig() aconfig.Config {
	return aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/shop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	}
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	return load(loaderConfig())
}

func load(lc aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, lc).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL != "" && cfg.CatalogFile != "" {
		return nil, errors.New("set either a database URL or a catalog file, not both")
	}
	if cfg.CheckoutFallbackURL != "" && !strings.HasPrefix(cfg.CheckoutFallbackURL, "http") {
		return nil, errors.Errorf("checkout fallback URL %q is not an http(s) URL", cfg.CheckoutFallbackURL)
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the DATABASE_URL and PORT variables set by
// hosting platforms onto the configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" && c.CatalogFile == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
