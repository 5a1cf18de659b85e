package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExchangeCredentials(t *testing.T) {
	t.Setenv("BINANCE_READ_KEY", "key")
	t.Setenv("BINANCE_READ_SECRET", "secret")

	key, secret, err := LoadExchangeCredentials("BINANCE_READ")
	require.NoError(t, err)
	assert.Equal(t, "key", key)
	assert.Equal(t, "secret", secret)

	// *_API_KEY takes precedence
	t.Setenv("BINANCE_READ_API_KEY", "api-key")
	key, _, err = LoadExchangeCredentials("BINANCE_READ")
	require.NoError(t, err)
	assert.Equal(t, "api-key", key)
}

func TestLoadExchangeCredentials_Missing(t *testing.T) {
	_, _, err := LoadExchangeCredentials("LEVGUARD_TEST_MISSING")
	assert.Error(t, err)
}

// unsetEnv clears the variables for the rest of the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadExchangeCredentials_IgnoresUnprefixedEnv(t *testing.T) {
	unsetEnv(t, "BINANCE_READ_API_KEY", "BINANCE_READ_API_SECRET", "BINANCE_READ_KEY", "BINANCE_READ_SECRET")
	t.Setenv("KEY", "stray-key")
	t.Setenv("SECRET", "stray-secret")
	t.Setenv("API_KEY", "stray-api-key")
	t.Setenv("API_SECRET", "stray-api-secret")

	key, secret, err := LoadExchangeCredentials("BINANCE_READ")
	assert.EqualError(t, err, "API key or secret is not set: prefix BINANCE_READ")
	assert.Empty(t, key)
	assert.Empty(t, secret)
}

func TestLoadAwsCredentials_IgnoresUnprefixedEnv(t *testing.T) {
	unsetEnv(t, "ARCHIVE_ACCESS_KEY", "ARCHIVE_SECRET_KEY")
	t.Setenv("ACCESS_KEY", "stray-access")
	t.Setenv("SECRET_KEY", "stray-secret")

	_, err := LoadAwsCredentials("ARCHIVE")
	assert.EqualError(t, err, "ARCHIVE_ACCESS_KEY and ARCHIVE_SECRET_KEY must be set")
}

func TestLoadAwsCredentials(t *testing.T) {
	t.Setenv("ARCHIVE_ACCESS_KEY", "AKIA")
	t.Setenv("ARCHIVE_SECRET_KEY", "shh")

	creds, err := LoadAwsCredentials("ARCHIVE")
	require.NoError(t, err)
	assert.Equal(t, "AKIA", creds.AccessKey)

	_, err = LoadAwsCredentials("LEVGUARD_TEST_MISSING")
	assert.EqualError(t, err, "LEVGUARD_TEST_MISSING_ACCESS_KEY and LEVGUARD_TEST_MISSING_SECRET_KEY must be set")
}

func TestLoadServerEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	env, err := LoadServerEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, env.Port)
}
