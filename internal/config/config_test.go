package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/shopkit/commerce-gateway/internal/api/shared/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
database:
  host: db
  port: 5433
  user: gateway
  password: secret
  dbname: commerce
redis:
  addr: "redis:6379"
  db: 2
auth:
  console_origins:
    - "https://console.example.com"
rate_limit:
  key_prefix: "rl:"
  default_plan: pro
  plans:
    pro:
      per_minute: 10
      per_day: 20
webhook:
  max_workers: 16
  user_agent: "Test-Agent/2.0"
  event_types:
    - order.paid
usage:
  pool_size: 2
  queue_size: 50
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "db", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "redis:6379", cfg.Redis.Addr)
				assert.Equal(t, 2, cfg.Redis.DB)
				assert.Equal(t, []string{"https://console.example.com"}, cfg.Auth.ConsoleOrigins)
				assert.Equal(t, "rl:", cfg.RateLimit.KeyPrefix)
				assert.Equal(t, "pro", cfg.RateLimit.DefaultPlan)
				assert.Equal(t, PlanLimit{PerMinute: 10, PerDay: 20}, cfg.RateLimit.Plans["pro"])
				assert.Equal(t, 16, cfg.Webhook.MaxWorkers)
				assert.Equal(t, "Test-Agent/2.0", cfg.Webhook.UserAgent)
				assert.Equal(t, []string{"order.paid"}, cfg.Webhook.EventTypes)
				assert.Equal(t, 2, cfg.Usage.WorkerPoolSize)
				assert.Equal(t, 50, cfg.Usage.WorkerQueueSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: gateway
  dbname: commerce
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, 5*time.Second, cfg.Redis.HealthCheckInterval)
				assert.Equal(t, "free", cfg.RateLimit.DefaultPlan)
				assert.Equal(t, PlanLimit{PerMinute: 60, PerDay: 1000}, cfg.RateLimit.Plans["free"])
				assert.Equal(t, PlanLimit{PerMinute: 3000, PerDay: 1000000}, cfg.RateLimit.Plans["enterprise"])
				assert.Equal(t, 3, cfg.Webhook.DefaultMaxAttempts)
				assert.Equal(t, 30000, cfg.Webhook.DefaultTimeoutMs)
				assert.Equal(t, "ShopKit-Webhooks/1.0", cfg.Webhook.UserAgent)
				assert.Contains(t, cfg.Webhook.EventTypes, "order.paid")
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadAPIConfig_MissingFile(t *testing.T) {
	cfg, err := LoadAPIConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEventBridgeConfig(t *testing.T) {
	cfg, err := LoadEventBridgeConfig(writeConfig(t, `
database:
  host: localhost
  user: gateway
  dbname: commerce
nats:
  url: "nats://nats:4222"
  max_deliver: 3
`), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, 3, cfg.NATS.MaxDeliver)
	assert.Equal(t, "COMMERCE_EVENTS", cfg.NATS.StreamName)
	assert.Equal(t, "webhook-dispatcher", cfg.NATS.ConsumerName)
	assert.Equal(t, "commerce.events.>", cfg.NATS.Subject)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
	assert.Equal(t, 30*time.Second, cfg.NATS.AckWait)
	assert.Equal(t, 3, cfg.Webhook.DefaultMaxAttempts)
}

func TestLoadMigrateConfig(t *testing.T) {
	cfg, err := LoadMigrateConfig(writeConfig(t, `
database:
  host: localhost
  user: gateway
  password: pw
  dbname: commerce
`), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "postgres://gateway:pw@localhost:5432/commerce?sslmode=disable", cfg.Database.URL())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "p@ssw0rd!",
		DBName:   "testdb",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=require", cfg.DSN())
}

func TestAPIConfig_Validate(t *testing.T) {
	cfg := APIConfig{
		RateLimit: RateLimitConfig{DefaultPlan: "free", Plans: map[string]PlanLimit{}},
	}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *apierrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.ElementsMatch(t, []string{
		"database.host",
		"database.user",
		"database.dbname",
		"redis.addr",
		"rate_limit.plans.free",
	}, cfgErr.Missing)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()
	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	envContent := `COMMERCE_GATEWAY_DEBUG=true
COMMERCE_GATEWAY_DATABASE_HOST=env-host
COMMERCE_GATEWAY_DATABASE_PORT=6543
COMMERCE_GATEWAY_REDIS_ADDR=env-redis:6379
COMMERCE_GATEWAY_WEBHOOK_USER_AGENT=Env-Agent/1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))
	t.Cleanup(func() {
		for _, k := range []string{
			"COMMERCE_GATEWAY_DEBUG",
			"COMMERCE_GATEWAY_DATABASE_HOST",
			"COMMERCE_GATEWAY_DATABASE_PORT",
			"COMMERCE_GATEWAY_REDIS_ADDR",
			"COMMERCE_GATEWAY_WEBHOOK_USER_AGENT",
		} {
			_ = os.Unsetenv(k)
		}
	})

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
debug: false
database:
  host: file-host
  port: 5432
redis:
  addr: file-redis:6379
`), 0600))

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "Env-Agent/1.0", cfg.Webhook.UserAgent)
}
