package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/processing"
	"github.com/jask/splatcam/internal/viewer"
	"github.com/jask/splatcam/internal/wizard"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig
	Gallery    GalleryConfig
	Processing ProcessingConfig
	Viewer     ViewerConfig
	Log        LogConfig
}

// DatabaseConfig holds sqlite settings for the scan journal.
type DatabaseConfig struct {
	Path string
}

// GalleryConfig controls capture.
type GalleryConfig struct {
	MinImages int    `mapstructure:"min_images"`
	Dedup     string // content | identity
	StartDir  string `mapstructure:"start_dir"`
}

// ProcessingConfig paces the simulated reconstruction.
type ProcessingConfig struct {
	Interval time.Duration
}

// ViewerConfig holds viewer settings.
type ViewerConfig struct {
	AssetURL     string `mapstructure:"asset_url"`
	Height       int
	FPS          int
	WindowWidth  int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`
	MaxAssetMB   int `mapstructure:"max_asset_mb"`
}

// MaxAssetBytes is the asset download cap in bytes.
func (v ViewerConfig) MaxAssetBytes() int64 { return int64(v.MaxAssetMB) << 20 }

// LogConfig holds logging settings. The TUI owns the terminal, so logs go to a file.
type LogConfig struct {
	Level string
	File  string
}

// DedupPolicy parses Gallery.Dedup.
func (c Config) DedupPolicy() (gallery.DedupPolicy, error) {
	return gallery.ParseDedupPolicy(c.Gallery.Dedup)
}

// Load reads configuration from file and env. Env var overrides use prefix SPLATCAM_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SPLATCAM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home(), ".config", "splatcam"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SPLATCAM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file, named or searched for, means defaults plus env
	if err := v.ReadInConfig(); err != nil && !missingConfig(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the wizard cannot run with.
func (c Config) Validate() error {
	if c.Gallery.MinImages < 1 {
		return fmt.Errorf("config: gallery.min_images must be at least 1, got %d", c.Gallery.MinImages)
	}
	if _, err := c.DedupPolicy(); err != nil {
		return fmt.Errorf("config: gallery.dedup: %w", err)
	}
	if c.Processing.Interval < 0 {
		return fmt.Errorf("config: processing.interval must not be negative")
	}
	if c.Viewer.MaxAssetMB < 0 {
		return fmt.Errorf("config: viewer.max_asset_mb must not be negative")
	}
	if strings.TrimSpace(c.Viewer.AssetURL) == "" {
		return fmt.Errorf("config: viewer.asset_url is required")
	}
	return nil
}

// Path is where Save writes: $SPLATCAM_CONFIG, else ~/.config/splatcam/config.toml.
func Path() string {
	if p := os.Getenv("SPLATCAM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "splatcam", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) (string, error) {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("gallery.min_images", cfg.Gallery.MinImages)
	v.Set("gallery.dedup", cfg.Gallery.Dedup)
	v.Set("gallery.start_dir", cfg.Gallery.StartDir)
	v.Set("processing.interval", cfg.Processing.Interval.String())
	v.Set("viewer.asset_url", cfg.Viewer.AssetURL)
	v.Set("viewer.height", cfg.Viewer.Height)
	v.Set("viewer.fps", cfg.Viewer.FPS)
	v.Set("viewer.window_width", cfg.Viewer.WindowWidth)
	v.Set("viewer.window_height", cfg.Viewer.WindowHeight)
	v.Set("viewer.max_asset_mb", cfg.Viewer.MaxAssetMB)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(home(), ".local", "share", "splatcam", "journal.db"))
	v.SetDefault("gallery.min_images", wizard.DefaultMinImages)
	v.SetDefault("gallery.dedup", string(gallery.DedupContent))
	v.SetDefault("gallery.start_dir", ".")
	v.SetDefault("processing.interval", processing.DefaultInterval)
	v.SetDefault("viewer.asset_url", viewer.SampleAssetURL)
	v.SetDefault("viewer.height", 20)
	v.SetDefault("viewer.fps", 30)
	v.SetDefault("viewer.window_width", 800)
	v.SetDefault("viewer.window_height", 500)
	v.SetDefault("viewer.max_asset_mb", 256)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home(), ".local", "state", "splatcam", "splatcam.log"))
}

func missingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
