package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Puzzle.WordSearchSize)
	assert.Equal(t, 12, cfg.Puzzle.CrosswordRows)
	assert.Equal(t, 12, cfg.Puzzle.CrosswordCols)
	assert.Equal(t, 14, cfg.Puzzle.TashchetzRows)
	assert.Equal(t, 11, cfg.Puzzle.TashchetzCols)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
server:
  port: "9090"
  move_rate: 30
gcp:
  project_id: newsroom
puzzle:
  tashchetz_rows: 16
  tashchetz_cols: 9
log:
  level: debug
  format: console
`))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.MoveRate)
	assert.Equal(t, 5, cfg.Server.GenerateRate)
	assert.Equal(t, "newsroom", cfg.GCP.ProjectID)
	assert.Equal(t, "europe-west1", cfg.GCP.Region)
	assert.Equal(t, 16, cfg.Puzzle.TashchetzRows)
	assert.Equal(t, 9, cfg.Puzzle.TashchetzCols)
	assert.Equal(t, 12, cfg.Puzzle.CrosswordRows)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "puzzle:\n  crossword_rows: 10\n"))
	t.Setenv("PUZZLE_CROSSWORD_ROWS", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Puzzle.CrosswordRows)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "log:\n  format: xml\n"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		c := *testConfig()
		c.Log = LogConfig{Level: "info", Format: "json"}
		return c
	}

	cases := map[string]func(*Config){
		"word search too small": func(c *Config) { c.Puzzle.WordSearchSize = 1 },
		"crossword too small":   func(c *Config) { c.Puzzle.CrosswordCols = 0 },
		"tashchetz too short":   func(c *Config) { c.Puzzle.TashchetzRows = 3 },
		"zero move rate":        func(c *Config) { c.Server.MoveRate = 0 },
		"unknown log format":    func(c *Config) { c.Log.Format = "logfmt" },
	}

	base := valid()
	require.NoError(t, base.Validate())

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(LogConfig{Level: "loud", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
