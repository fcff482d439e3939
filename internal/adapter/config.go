package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/shelf/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Steam   SteamConfig   `mapstructure:"steam"`
	AppInfo AppInfoConfig `mapstructure:"appinfo"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Open    OpenConfig    `mapstructure:"open"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds catalog snapshot configuration
type CatalogConfig struct {
	Path         string        `mapstructure:"path"`          // Snapshot file; empty = memory-only
	Pretty       bool          `mapstructure:"pretty"`        // Indent the snapshot JSON
	ResolveDepth int           `mapstructure:"resolve_depth"` // Parent hops for inherited attributes
	Language     string        `mapstructure:"language"`      // Store language code
	MaxAge       time.Duration `mapstructure:"max_age"`       // Store data older than this is stale
}

// SteamConfig holds the app listing endpoint configuration
type SteamConfig struct {
	APIKey      string        `mapstructure:"api_key"` // Empty uses the keyless listing
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PageSize    int           `mapstructure:"page_size"`
	ListingFile string        `mapstructure:"listing_file"` // Read the listing from disk instead
}

// AppInfoConfig holds the local app-info cache configuration
type AppInfoConfig struct {
	Path string `mapstructure:"path"`
}

// ScoringConfig holds tag scoring defaults
type ScoringConfig struct {
	WeightFactor  float64 `mapstructure:"weight_factor"`
	TagsPerGame   int     `mapstructure:"tags_per_game"`
	MinScore      float64 `mapstructure:"min_score"`
	ExcludeGenres bool    `mapstructure:"exclude_genres"`
	MinCount      int     `mapstructure:"min_count"` // Developer/publisher count floor
}

// OpenConfig selects how store pages are opened
type OpenConfig struct {
	Command     string   `mapstructure:"command"` // Empty uses the system default
	Args        []string `mapstructure:"args"`
	SteamClient bool     `mapstructure:"steam_client"` // steam:// URLs instead of the web store
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:         filepath.Join(defaultDataPath(), "games.json"),
			ResolveDepth: 3,
			Language:     string(domain.DefaultLanguage),
			MaxAge:       30 * 24 * time.Hour,
		},
		Steam: SteamConfig{
			BaseURL:  "https://api.steampowered.com",
			Timeout:  30 * time.Second,
			PageSize: 50000,
		},
		AppInfo: AppInfoConfig{
			Path: filepath.Join(defaultDataPath(), "appinfo.db"),
		},
		Scoring: ScoringConfig{
			WeightFactor: 3,
			TagsPerGame:  5,
			MinCount:     1,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "shelf.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "shelf")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// LoadConfig loads configuration from file and environment. An empty
// configFile searches config.yaml in the OS config directory and ".".
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with cfg as defaults so that every
// key can be overridden from SHELF_<SECTION>_<KEY> environment variables.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("catalog.path", cfg.Catalog.Path)
	v.SetDefault("catalog.pretty", cfg.Catalog.Pretty)
	v.SetDefault("catalog.resolve_depth", cfg.Catalog.ResolveDepth)
	v.SetDefault("catalog.language", cfg.Catalog.Language)
	v.SetDefault("catalog.max_age", cfg.Catalog.MaxAge)

	v.SetDefault("steam.api_key", cfg.Steam.APIKey)
	v.SetDefault("steam.base_url", cfg.Steam.BaseURL)
	v.SetDefault("steam.timeout", cfg.Steam.Timeout)
	v.SetDefault("steam.page_size", cfg.Steam.PageSize)
	v.SetDefault("steam.listing_file", cfg.Steam.ListingFile)

	v.SetDefault("appinfo.path", cfg.AppInfo.Path)

	v.SetDefault("scoring.weight_factor", cfg.Scoring.WeightFactor)
	v.SetDefault("scoring.tags_per_game", cfg.Scoring.TagsPerGame)
	v.SetDefault("scoring.min_score", cfg.Scoring.MinScore)
	v.SetDefault("scoring.exclude_genres", cfg.Scoring.ExcludeGenres)
	v.SetDefault("scoring.min_count", cfg.Scoring.MinCount)

	v.SetDefault("open.command", cfg.Open.Command)
	v.SetDefault("open.args", cfg.Open.Args)
	v.SetDefault("open.steam_client", cfg.Open.SteamClient)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	return v
}

// Validate normalizes paths and rejects unusable values
func (c *Config) Validate() error {
	lang, err := domain.ParseLanguage(c.Catalog.Language)
	if err != nil {
		return fmt.Errorf("catalog.language: %w", err)
	}
	c.Catalog.Language = string(lang)

	if c.Catalog.ResolveDepth < 0 {
		return fmt.Errorf("catalog.resolve_depth must not be negative, got %d", c.Catalog.ResolveDepth)
	}
	if c.Steam.PageSize <= 0 {
		return fmt.Errorf("steam.page_size must be positive, got %d", c.Steam.PageSize)
	}

	c.Catalog.Path = expandHome(c.Catalog.Path)
	c.AppInfo.Path = expandHome(c.AppInfo.Path)
	c.Steam.ListingFile = expandHome(c.Steam.ListingFile)
	c.Logging.File = expandHome(c.Logging.File)
	return nil
}

// Language returns the validated catalog language
func (c *Config) Language() domain.Language {
	return domain.Language(c.Catalog.Language)
}

// SaveConfig writes cfg as YAML to path, or to the default location when empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(cfg)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
