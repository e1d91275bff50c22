package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, config.EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "https://mydataapidev.aade.gr/DCL", cfg.AADEBaseURL)
	assert.Equal(t, "https://wrapp.ai/api/v1", cfg.WrappBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("AADE_USER_ID", "user")
	t.Setenv("AADE_SUBSCRIPTION_KEY", "sub")
	t.Setenv("WRAPP_API_KEY", "key")
	t.Setenv("WRAPP_USER_ID", "u-1")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "user", cfg.AADEUserID)
	assert.Equal(t, "u-1", cfg.WrappUserID)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown env", "APP_ENV", "staging"},
		{"port out of range", "PORT", "70000"},
		{"zero timeout", "HTTP_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load(config.New())
			assert.Error(t, err)
		})
	}
}

func TestLoad_Override(t *testing.T) {
	v := config.New()
	v.Set("PORT", 9000)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
}

func TestMissingCredentials(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"AADE_USER_ID",
		"AADE_SUBSCRIPTION_KEY",
		"WRAPP_API_KEY",
		"WRAPP_EMAIL or WRAPP_USER_ID",
	}, cfg.MissingCredentials())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WRAPP_EMAIL=ops@example.gr\nAADE_USER_ID=from-file\n"), 0o600))

	// Already-set variables win over the file
	t.Setenv("AADE_USER_ID", "from-env")
	t.Setenv("WRAPP_EMAIL", "")
	require.NoError(t, os.Unsetenv("WRAPP_EMAIL"))

	config.LoadDotEnv(path)
	t.Cleanup(func() { _ = os.Unsetenv("WRAPP_EMAIL") })

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AADEUserID)
	assert.Equal(t, "ops@example.gr", cfg.WrappEmail)
}
