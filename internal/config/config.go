package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	JWTSecret           string
	Origin              string
	Currency            string
	StripeAPIKey        string
	StripeWebhookSecret string
	GatewayTimeout      time.Duration
	KafkaBrokers        []string
	KafkaTopic          string
	StalePollInterval   time.Duration
	StaleCheckoutAge    time.Duration
	StaleBatchSize      int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultOrigin            = "http://localhost:3000"
	defaultCurrency          = "usd"
	defaultGatewayTimeout    = 10 * time.Second
	defaultKafkaTopic        = "orders.payment-completed"
	defaultStalePollInterval = 5 * time.Minute
	defaultStaleCheckoutAge  = time.Hour
	defaultStaleBatchSize    = 32
	defaultShutdownTimeout   = 10 * time.Second
)

// SuccessURL is the gateway redirect target after a completed payment.
func (c *Config) SuccessURL() string {
	return c.Origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is the gateway redirect target after an abandoned payment.
func (c *Config) CancelURL() string {
	return c.Origin + "/payment-cancelled"
}

// Load parses configuration from an optional .env file, environment variables
// and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		Origin:              getString(lookup, "ORIGIN", defaultOrigin),
		Currency:            getString(lookup, "CURRENCY", defaultCurrency),
		StripeAPIKey:        getString(lookup, "STRIPE_API_KEY", ""),
		StripeWebhookSecret: getString(lookup, "STRIPE_WEBHOOK_SECRET", ""),
		GatewayTimeout:      getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		KafkaTopic:          getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		StalePollInterval:   getDuration(lookup, "STALE_POLL_INTERVAL", defaultStalePollInterval),
		StaleCheckoutAge:    getDuration(lookup, "STALE_CHECKOUT_AGE", defaultStaleCheckoutAge),
		StaleBatchSize:      getInt(lookup, "STALE_BATCH_SIZE", defaultStaleBatchSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	brokers := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		stalePollStr       = cfg.StalePollInterval.String()
		staleAgeStr        = cfg.StaleCheckoutAge.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.Origin, "origin", cfg.Origin, "Storefront origin used for gateway redirect URLs")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "Checkout currency code")
	fs.StringVar(&brokers, "kafka-brokers", brokers, "Comma separated Kafka broker list (empty disables events)")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Topic for order payment events")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Timeout for checkout session creation")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&stalePollStr, "stale-poll", stalePollStr, "Interval between stale checkout scans")
	fs.StringVar(&staleAgeStr, "stale-age", staleAgeStr, "Age after which a pending checkout counts as stale")
	fs.IntVar(&cfg.StaleBatchSize, "stale-batch", cfg.StaleBatchSize, "Maximum entries per stale checkout scan")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StalePollInterval, err = time.ParseDuration(stalePollStr); err != nil {
		return nil, fmt.Errorf("invalid stale poll interval: %w", err)
	}

	if cfg.StaleCheckoutAge, err = time.ParseDuration(staleAgeStr); err != nil {
		return nil, fmt.Errorf("invalid stale checkout age: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.StalePollInterval <= 0 {
		cfg.StalePollInterval = defaultStalePollInterval
	}

	if cfg.StaleCheckoutAge <= 0 {
		cfg.StaleCheckoutAge = defaultStaleCheckoutAge
	}

	if cfg.StaleBatchSize <= 0 {
		cfg.StaleBatchSize = defaultStaleBatchSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("stripe API key must be provided")
	}

	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
