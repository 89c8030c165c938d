package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sweet-treats/internal/domain"
	"sweet-treats/internal/feed"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Feed      FeedConfig
	Refresh   RefreshConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Shipping  []domain.ShippingZone
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type FeedConfig struct {
	URL             string
	Scheme          feed.ColumnScheme
	FetchTimeout    time.Duration
	FingerprintPath string
}

type RefreshConfig struct {
	ActiveInterval time.Duration
	IdleInterval   time.Duration
	IdleAfter      time.Duration
}

type CheckoutConfig struct {
	ShopName     string
	Currency     string
	MessengerURL string
	Timezone     string
}

type SessionConfig struct {
	TTL           time.Duration
	PruneInterval time.Duration
}

// RedisConfig configures the rate limiter backend. An empty Addr disables
// rate limiting entirely, which is the common single-shop deployment.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Load reads configuration from .env and the environment, with defaults
// suitable for local development.
func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "")

	viper.SetDefault("FEED_COLUMNS", "id,name,price,image,status,stock")
	viper.SetDefault("FEED_FETCH_TIMEOUT", "10s")
	viper.SetDefault("FEED_FINGERPRINT_PATH", ".feed-fingerprint")

	viper.SetDefault("REFRESH_ACTIVE_INTERVAL", "30s")
	viper.SetDefault("REFRESH_IDLE_INTERVAL", "3m")
	viper.SetDefault("REFRESH_IDLE_AFTER", "2m")

	viper.SetDefault("SHOP_NAME", "Sky Sweet Treats")
	viper.SetDefault("CURRENCY", "₱")
	viper.SetDefault("TIMEZONE", "Asia/Manila")

	viper.SetDefault("SESSION_TTL", "2h")
	viper.SetDefault("SESSION_PRUNE_INTERVAL", "10m")

	viper.SetDefault("SHIPPING_ZONES", "Pickup=0,Zone 1=25,Zone 2=40")

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	// Missing .env is fine; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	scheme, err := feed.ParseColumnOrder(viper.GetString("FEED_COLUMNS"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_COLUMNS: %w", err)
	}

	zones, err := parseZones(viper.GetString("SHIPPING_ZONES"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_ZONES: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitNonEmpty(viper.GetString("ALLOWED_ORIGINS")),
		},
		Feed: FeedConfig{
			URL:             viper.GetString("FEED_URL"),
			Scheme:          scheme,
			FetchTimeout:    viper.GetDuration("FEED_FETCH_TIMEOUT"),
			FingerprintPath: viper.GetString("FEED_FINGERPRINT_PATH"),
		},
		Refresh: RefreshConfig{
			ActiveInterval: viper.GetDuration("REFRESH_ACTIVE_INTERVAL"),
			IdleInterval:   viper.GetDuration("REFRESH_IDLE_INTERVAL"),
			IdleAfter:      viper.GetDuration("REFRESH_IDLE_AFTER"),
		},
		Checkout: CheckoutConfig{
			ShopName:     viper.GetString("SHOP_NAME"),
			Currency:     viper.GetString("CURRENCY"),
			MessengerURL: viper.GetString("MESSENGER_URL"),
			Timezone:     viper.GetString("TIMEZONE"),
		},
		Session: SessionConfig{
			TTL:           viper.GetDuration("SESSION_TTL"),
			PruneInterval: viper.GetDuration("SESSION_PRUNE_INTERVAL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Shipping: zones,
	}, nil
}

// parseZones reads the static shipping fee table from its compact
// "Name=fee,Name=fee" form.
func parseZones(table string) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	for _, entry := range splitNonEmpty(table) {
		name, feeStr, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("zone entry %q is not Name=fee", entry)
		}
		fee, err := strconv.ParseFloat(strings.TrimSpace(feeStr), 64)
		if err != nil || fee < 0 {
			return nil, fmt.Errorf("zone %q has invalid fee %q", name, feeStr)
		}
		zones = append(zones, domain.ShippingZone{
			Name: strings.TrimSpace(name),
			Fee:  fee,
		})
	}
	return zones, nil
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
