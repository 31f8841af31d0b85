package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "resources/cards.json", cfg.CardsFile)
	assert.Equal(t, "decks.yaml", cfg.DecksFile)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 200, cfg.MaxTurns)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POCKETCG_SEED", "42")
	t.Setenv("POCKETCG_MAX_TURNS", "30")
	t.Setenv("POCKETCG_DECKS", "/tmp/decks.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 30, cfg.MaxTurns)
	assert.Equal(t, "/tmp/decks.yaml", cfg.DecksFile)
}

func TestLoadError(t *testing.T) {
	t.Setenv("POCKETCG_MAX_TURNS", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	z, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, z.Core().Enabled(zapcore.WarnLevel))

	cfg = Config{LogLevel: "nonsense"}
	z, err = cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, z.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, z.Core().Enabled(zapcore.DebugLevel))
}
