package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "OPENROUTER_API_KEY", "AI_PROVIDER", "FAVORITES_BACKEND", "REDIS_ADDR", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAIEnv(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, BackendMemory, cfg.Favorites.Backend)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,192.168.0.0/16")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.Server.TrustedProxies)
}

func TestMissingCredentialIsNotAnError(t *testing.T) {
	clearAIEnv(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.False(t, cfg.AIConfigured())
	assert.Empty(t, cfg.Credential())
}

func TestCredentialFollowsProvider(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("API_KEY", "gemini-key-123456")
	t.Setenv("OPENROUTER_API_KEY", "or-key-123456")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gemini-key-123456", cfg.Credential())

	t.Setenv("AI_PROVIDER", "OpenRouter")
	cfg, err = Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, cfg.AI.Provider)
	assert.Equal(t, "or-key-123456", cfg.Credential())
}

func TestGeminiKeyTakesPrecedenceOverAPIKey(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "secondary")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.AI.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearAIEnv(t)

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "carrier-pigeon")
		_, err := Load(viper.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported ai provider")
	})

	t.Run("unknown favorites backend", func(t *testing.T) {
		t.Setenv("FAVORITES_BACKEND", "sqlite")
		_, err := Load(viper.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported favorites backend")
	})

	t.Run("bad rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_REQUESTS", "0")
		_, err := Load(viper.New())
		require.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEDUP_WINDOW", "3s")
	t.Setenv("FAVORITES_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.DedupWindow)
	assert.Equal(t, BackendRedis, cfg.Favorites.Backend)
	assert.Equal(t, "cache:6379", cfg.Favorites.RedisAddr)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
