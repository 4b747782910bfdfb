package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  address: ":8080"
verification:
  code_ttl_minute: 15
  base_window_second: 30
  max_send_count: 5
kafka:
  brokers: "localhost:9092,localhost:9093"
sms:
  secret: "c2VjcmV0LWtleQ=="
maintenance: true
`

func newTestConfig(t *testing.T) *Viper {
	t.Helper()

	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	return cfg
}

func TestViper_Getters(t *testing.T) {
	cfg := newTestConfig(t)

	assert.Equal(t, ":8080", cfg.GetString("server.address"))
	assert.Equal(t, 5, cfg.GetInt("verification.max_send_count"))
	assert.Equal(t, int32(5), cfg.GetInt32("verification.max_send_count"))
	assert.Equal(t, int64(30), cfg.GetInt64("verification.base_window_second"))
	assert.Equal(t, 30*time.Second, cfg.GetSecond("verification.base_window_second"))
	assert.Equal(t, 15*time.Minute, cfg.GetMinute("verification.code_ttl_minute"))
	assert.True(t, cfg.GetBool("maintenance"))
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.GetArray("kafka.brokers"))
	assert.Equal(t, []byte("secret-key"), cfg.GetBinary("sms.secret"))
}

func TestViper_MissingKeys(t *testing.T) {
	cfg := newTestConfig(t)

	assert.Empty(t, cfg.GetString("nope"))
	assert.Zero(t, cfg.GetInt("nope"))
	assert.Zero(t, cfg.GetSecond("nope"))
	assert.False(t, cfg.GetBool("nope"))
	assert.NoError(t, cfg.Close())
}

func TestNewViperFromBytes_Invalid(t *testing.T) {
	_, err := NewViperFromBytes("", []byte("a: 1"))
	assert.Error(t, err)

	_, err = NewViperFromBytes("yaml", []byte("a: [unclosed"))
	assert.Error(t, err)
}
