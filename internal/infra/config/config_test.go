package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.StorageMode)
	assert.Equal(t, "goodwill", cfg.MongoDB)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "info@casa-bella-vista.example", cfg.MailFrom)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "2s")
	t.Setenv("RETRY_BACKOFF", "100ms, 1s")
	t.Setenv("WHOLE_PROPERTY_NAME", "Finca Entera")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, time.Second}, cfg.RetryBackoff)
	assert.Equal(t, "Finca Entera", cfg.WholePropertyName)
}

func TestLoadMongoModeRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_MODE", "mongo")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongo", cfg.StorageMode)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE_MODE", "postgres")
	_, err := Load()
	assert.Error(t, err)
	t.Setenv("STORAGE_MODE", "memory")

	t.Setenv("SMTP_PORT", "smtp")
	_, err = Load()
	assert.Error(t, err)
	t.Setenv("SMTP_PORT", "587")

	t.Setenv("RETRY_BACKOFF", "soon")
	_, err = Load()
	assert.Error(t, err)
}
