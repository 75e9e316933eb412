package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
)

const envPrefix = "COMMERCE_GATEWAY"

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g. "5m"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g. "10m"
}

// RedisConfig holds the connection settings for the rate limit counter store
type RedisConfig struct {
	Addr                string        `mapstructure:"addr"`
	Password            string        `mapstructure:"password"`
	DB                  int           `mapstructure:"db"`
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	Subject        string        `mapstructure:"subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds admin console authentication configuration
type AuthConfig struct {
	JWTPublicKey   string   `mapstructure:"jwt_public_key"`
	ConsoleOrigins []string `mapstructure:"console_origins"`
}

// PlanLimit is the request quota of one plan tier
type PlanLimit struct {
	PerMinute int `mapstructure:"per_minute"`
	PerDay    int `mapstructure:"per_day"`
}

// RateLimitConfig holds the per-plan quotas and counter key layout
type RateLimitConfig struct {
	KeyPrefix   string               `mapstructure:"key_prefix"`
	DefaultPlan string               `mapstructure:"default_plan"`
	Plans       map[string]PlanLimit `mapstructure:"plans"`
}

// WebhookConfig holds delivery settings
type WebhookConfig struct {
	// MaxWorkers bounds concurrent scheduler runs. 0 means unbounded.
	MaxWorkers         int      `mapstructure:"max_workers"`
	UserAgent          string   `mapstructure:"user_agent"`
	DefaultMaxAttempts int      `mapstructure:"default_max_attempts"`
	DefaultTimeoutMs   int      `mapstructure:"default_timeout_ms"`
	EventTypes         []string `mapstructure:"event_types"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// APIConfig holds configuration for the gateway API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Auth       AuthConfig      `mapstructure:"auth"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Webhook    WebhookConfig   `mapstructure:"webhook"`
	Usage      WorkerConfig    `mapstructure:"usage"`
}

// EventBridgeConfig holds configuration for event-bridge
type EventBridgeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
}

// MigrateConfig holds configuration for the migrate command
type MigrateConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "2s")
	v.SetDefault("redis.health_check_interval", "5s")
	v.SetDefault("rate_limit.key_prefix", "ratelimit:")
	v.SetDefault("rate_limit.default_plan", "free")
	v.SetDefault("rate_limit.plans", map[string]interface{}{
		"free":       map[string]interface{}{"per_minute": 60, "per_day": 1000},
		"starter":    map[string]interface{}{"per_minute": 120, "per_day": 10000},
		"pro":        map[string]interface{}{"per_minute": 600, "per_day": 100000},
		"enterprise": map[string]interface{}{"per_minute": 3000, "per_day": 1000000},
	})
	setWebhookDefaults(v)
	v.SetDefault("usage.pool_size", 4)
	v.SetDefault("usage.queue_size", 1000)

	var config APIConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadEventBridgeConfig loads configuration for event-bridge
func LoadEventBridgeConfig(configFile string, envPath string) (*EventBridgeConfig, error) {
	v := configureViper("event-bridge", configFile, envPath)

	v.SetDefault("debug", false)
	setDatabaseDefaults(v)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream_name", "COMMERCE_EVENTS")
	v.SetDefault("nats.consumer_name", "webhook-dispatcher")
	v.SetDefault("nats.subject", "commerce.events.>")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "commerce-event-bridge")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	setWebhookDefaults(v)

	var config EventBridgeConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadMigrateConfig loads configuration for the migrate command
func LoadMigrateConfig(configFile string, envPath string) (*MigrateConfig, error) {
	v := configureViper("migrate", configFile, envPath)

	v.SetDefault("debug", false)
	setDatabaseDefaults(v)

	var config MigrateConfig
	if err := readAndUnmarshal(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setWebhookDefaults(v *viper.Viper) {
	v.SetDefault("webhook.max_workers", 0)
	v.SetDefault("webhook.user_agent", "ShopKit-Webhooks/1.0")
	v.SetDefault("webhook.default_max_attempts", 3)
	v.SetDefault("webhook.default_timeout_ms", 30000)
	v.SetDefault("webhook.event_types", []string{
		"order.created",
		"order.paid",
		"order.refunded",
		"product.stock_low",
		"customer.created",
	})
}

func readAndUnmarshal(v *viper.Viper, out interface{}) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist surfaces as an fs error rather
		// than ConfigFileNotFoundError; both fall back to env and defaults.
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// configureViper creates a viper instance for a service
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds every leaf key so Unmarshal sees env-only values
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.dial_timeout",
		"redis.health_check_interval",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.console_origins",
		// Rate limit
		"rate_limit.key_prefix",
		"rate_limit.default_plan",
		// Webhook
		"webhook.max_workers",
		"webhook.user_agent",
		"webhook.default_max_attempts",
		"webhook.default_timeout_ms",
		"webhook.event_types",
		// Usage recorder
		"usage.pool_size",
		"usage.queue_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env, .env.local and .env.<service>.local from envPath.
// Later files override earlier ones.
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot walks up from the working directory until a config/ directory is found
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the database connection string in URL form, as expected by golang-migrate
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// Validate reports the backing store settings that are required but missing
func (c *DatabaseConfig) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "database.host")
	}
	if c.User == "" {
		missing = append(missing, "database.user")
	}
	if c.DBName == "" {
		missing = append(missing, "database.dbname")
	}
	if len(missing) > 0 {
		return &apierrors.ConfigurationError{Missing: missing}
	}
	return nil
}

// Validate checks the settings the API server cannot run without
func (c *APIConfig) Validate() error {
	var missing []string
	if err := c.Database.Validate(); err != nil {
		var cfgErr *apierrors.ConfigurationError
		if errors.As(err, &cfgErr) {
			missing = append(missing, cfgErr.Missing...)
		}
	}
	if c.Redis.Addr == "" {
		missing = append(missing, "redis.addr")
	}
	if _, ok := c.RateLimit.Plans[c.RateLimit.DefaultPlan]; !ok {
		missing = append(missing, "rate_limit.plans."+c.RateLimit.DefaultPlan)
	}
	if len(missing) > 0 {
		return &apierrors.ConfigurationError{Missing: missing}
	}
	return nil
}
