package config

import (
	"ecosync-hub/internal/common/enum"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "APP_PORT", "DB_DRIVER", "AWS_BUCKET_NAME",
		"CHECKOUT_PAYMENT_DELAY_MS", "CHECKOUT_REDIRECT_DELAY_MS",
		"CHECKOUT_CANCEL_ON_CLOSE", "CHECKOUT_SESSION_TTL_MINUTES")

	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, enum.DEVELOPMENT, cfg.AppEnv)
	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay())
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.False(t, cfg.CheckoutCancelOnClose)
	assert.Empty(t, cfg.AWSBucketName)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_CACHE", "true")
	t.Setenv("CHECKOUT_PAYMENT_DELAY_MS", "250")
	t.Setenv("CHECKOUT_CANCEL_ON_CLOSE", "1")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "5")

	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, enum.LOCAL, cfg.AppEnv)
	assert.Equal(t, 9090, cfg.AppPort)
	assert.True(t, cfg.DBCache)
	assert.Equal(t, 250*time.Millisecond, cfg.PaymentDelay())
	assert.True(t, cfg.CheckoutCancelOnClose)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("APP_PORT", "eighty")
	assert.ErrorContains(t, Load(&Config{}), "APP_PORT")

	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_CACHE", "maybe")
	assert.ErrorContains(t, Load(&Config{}), "DB_CACHE")
}

func TestLoadRequiredWithoutDefault(t *testing.T) {
	var target struct {
		Secret string `env:"ECOSYNC_TEST_REQUIRED_SECRET"`
		Other  string
	}
	unsetEnv(t, "ECOSYNC_TEST_REQUIRED_SECRET")
	assert.ErrorContains(t, Load(&target), "ECOSYNC_TEST_REQUIRED_SECRET")

	t.Setenv("ECOSYNC_TEST_REQUIRED_SECRET", "s3cret")
	require.NoError(t, Load(&target))
	assert.Equal(t, "s3cret", target.Secret)
}
