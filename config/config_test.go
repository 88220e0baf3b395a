package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()
	assert.Equal(t, "orders.events", cfg.Kafka.OrdersTopic)
	assert.Equal(t, int64(10000), cfg.Loyalty.SpendPerPoint)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "en", cfg.I18n.DefaultLanguage)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "42")
	t.Setenv("POSTGRES_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("REDIS_CACHE_TTL", "30s")
	t.Setenv("ELASTICSEARCH_ENABLED", "false")
	t.Setenv("APP_ENV", "production")

	cfg := LoadEnv()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 42, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Postgres.MaxIdleConns)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Elastic.Enabled)
	assert.False(t, cfg.IsDevelopment())
}
