package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Catalog.ResolveDepth, cfg.Catalog.ResolveDepth)
	assert.Equal(t, domain.LanguageEnglish, cfg.Language())
	assert.Equal(t, def.Steam.BaseURL, cfg.Steam.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Steam.Timeout)
	assert.Equal(t, 3.0, cfg.Scoring.WeightFactor)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: /tmp/shelf/games.json
  language: German
  resolve_depth: 5
  max_age: 48h
steam:
  api_key: abc
  timeout: 5s
scoring:
  weight_factor: 2.5
  exclude_genres: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shelf/games.json", cfg.Catalog.Path)
	assert.Equal(t, domain.LanguageGerman, cfg.Language())
	assert.Equal(t, 5, cfg.Catalog.ResolveDepth)
	assert.Equal(t, 48*time.Hour, cfg.Catalog.MaxAge)
	assert.Equal(t, "abc", cfg.Steam.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Steam.Timeout)
	assert.Equal(t, 2.5, cfg.Scoring.WeightFactor)
	assert.True(t, cfg.Scoring.ExcludeGenres)
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().Steam.PageSize, cfg.Steam.PageSize)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SHELF_CATALOG_LANGUAGE", "french")
	t.Setenv("SHELF_STEAM_PAGE_SIZE", "100")

	cfg, err := LoadConfig(writeConfig(t, "catalog:\n  language: german\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageFrench, cfg.Language())
	assert.Equal(t, 100, cfg.Steam.PageSize)
}

func TestLoadConfigRejectsUnknownLanguage(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "catalog:\n  language: klingon\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownLanguage)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "catalog:\n  resolve_depth: -1\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "steam:\n  page_size: 0\n"))
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.Language = "japanese"
	cfg.Steam.APIKey = "key"
	cfg.Scoring.TagsPerGame = 7

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageJapanese, loaded.Language())
	assert.Equal(t, "key", loaded.Steam.APIKey)
	assert.Equal(t, 7, loaded.Scoring.TagsPerGame)
	assert.Equal(t, cfg.Catalog.MaxAge, loaded.Catalog.MaxAge)
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shelf.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("hello", "id", 10)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"id":10`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}
