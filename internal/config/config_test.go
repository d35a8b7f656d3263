package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, NotifyKafka, cfg.Notify.Mode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Mail.Enabled)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
http_port: "9090"
request_timeout: 5s
database:
  host: db.internal
  port: 6432
redis:
  session_ttl: 45m
kafka:
  brokers: ["k1:9092"]
notify:
  mode: inline
mail:
  enabled: true
  from_name: Corner Kitchen
`)
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "db.override", cfg.DB.Host)
	assert.Equal(t, 6432, cfg.DB.Port)
	assert.Equal(t, "kitchen", cfg.DB.User, "untouched keys keep defaults")
	assert.Equal(t, 45*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, NotifyInline, cfg.Notify.Mode)
	assert.True(t, cfg.Mail.Enabled)
	assert.Equal(t, "Corner Kitchen", cfg.Mail.FromName)
	assert.Equal(t, 2525, cfg.Mail.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "http_port: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "forever")
		_, err := Load("")
		assert.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("unknown notify mode", func(t *testing.T) {
		t.Setenv("NOTIFY_MODE", "pigeon")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown notify mode")
	})
}
