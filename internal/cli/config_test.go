package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/putusan/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
concurrency:
  workers: 3
  timeout: 90s
extract:
  court_name: PN SLEMAN
`), 0644))

	t.Setenv("PUTUSAN_CONCURRENCY_WORKERS", "9")

	v := viper.New()
	v.SetConfigFile(path)
	bindEnv(v)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Concurrency.Workers)
	assert.Equal(t, 90*time.Second, cfg.Concurrency.Timeout)
	assert.Equal(t, "PN SLEMAN", cfg.Extract.CourtName)
	assert.Equal(t, 10, cfg.Concurrency.BatchSize)
}

func TestLoadConfig_EnvWithoutFile(t *testing.T) {
	t.Setenv("PUTUSAN_PATHS_RAW_DIR", "/tmp/elsewhere")

	v := viper.New()
	bindEnv(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.Paths.RawDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("concurrency.workers", 0)

	_, err := loadConfig(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency.workers")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".putusan", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cleaning.log")

	logger, closer, err := setupLogger(path, false)
	require.NoError(t, err)
	logger.Info("processed document", "file", "a.pdf")
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file=a.pdf")
	assert.NotContains(t, string(data), "hidden")
}
