// Package config loads the ctxsearch command-line configuration from YAML and
// layers it with built-in defaults and flag overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration directory.
const AppName = "ctxsearch"

// Config is the top-level configuration.
type Config struct {
	Storage    StorageConfig `yaml:"storage"`
	Browser    BrowserConfig `yaml:"browser"`
	OptionsURL string        `yaml:"options_url"`
	Log        LogConfig     `yaml:"log"`
}

// StorageConfig locates the two storage tiers. An empty SyncPath disables
// the durable tier.
type StorageConfig struct {
	SyncPath  string        `yaml:"sync_path"`
	LocalPath string        `yaml:"local_path"`
	Debounce  time.Duration `yaml:"debounce"`
}

// BrowserConfig controls the Chrome instance tabs are opened in. ControlURL
// attaches to a running browser; otherwise one is launched from Bin.
type BrowserConfig struct {
	ControlURL string `yaml:"control_url"`
	Bin        string `yaml:"bin"`
	Headless   *bool  `yaml:"headless"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  *bool  `yaml:"json"`
}

// Dir returns the directory holding the config file and the databases.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the config file location inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Defaults returns the built-in configuration rooted at dir.
func Defaults(dir string) Config {
	headless := false
	jsonLogs := false
	return Config{
		Storage: StorageConfig{
			SyncPath:  filepath.Join(dir, "sync.db"),
			LocalPath: filepath.Join(dir, "local.db"),
			Debounce:  100 * time.Millisecond,
		},
		Browser: BrowserConfig{Headless: &headless},
		Log:     LogConfig{Level: "info", JSON: &jsonLogs},
	}
}

// LoadFile reads a YAML configuration file. A missing file yields an empty
// Config so callers can fall through to defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves flags over the file at path over Defaults(dir).
func Load(path, dir string, flags Config) (Config, error) {
	file, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Merge(flags, file, Defaults(dir))
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage.LocalPath) == "" {
		return errors.New("config: storage.local_path is required")
	}
	if c.Storage.SyncPath != "" && filepath.Clean(c.Storage.SyncPath) == filepath.Clean(c.Storage.LocalPath) {
		return errors.New("config: storage.sync_path and storage.local_path must differ")
	}
	if c.Storage.Debounce < 0 {
		return errors.New("config: storage.debounce must not be negative")
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// IsHeadless reports whether a launched browser runs headless.
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless != nil && *b.Headless
}

// IsJSON reports whether logs are encoded as JSON.
func (l LogConfig) IsJSON() bool {
	return l.JSON != nil && *l.JSON
}

// ZapLevel parses Level, defaulting to info.
func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// Logger builds a zap logger whose level is controlled by the returned
// AtomicLevel. JSON output uses the production encoder, console output the
// development one.
func (l LogConfig) Logger() (*zap.Logger, zap.AtomicLevel, error) {
	level, err := l.ZapLevel()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	var zc zap.Config
	if l.IsJSON() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, zc.Level, nil
}

// Bool returns a pointer to v for optional flags.
func Bool(v bool) *bool {
	return &v
}
