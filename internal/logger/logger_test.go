package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/internal/logger"
)

func TestSetup_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")

	require.NoError(t, logger.Setup(logger.Config{Level: "debug", Format: "json", Output: path}))
	t.Cleanup(func() { _ = logger.Setup(logger.DefaultConfig()) })

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log := logger.WithComponent("aade")
	log.Info().Str("op", "SendClient").Msg("submitted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"aade"`)
	assert.Contains(t, string(data), `"op":"SendClient"`)
}

func TestSetup_InvalidLevel(t *testing.T) {
	err := logger.Setup(logger.Config{Level: "loud"})
	assert.Error(t, err)
}

func TestSetup_Defaults(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DefaultConfig()))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
