package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL          = "http://127.0.0.1:7380"
	DefaultDBFileName      = ".boxd.db"
	DefaultBlobRoot        = "/tmp/boxd"
	DefaultSessionTTLHours = 24
	DefaultLogLevel        = "info"

	DefaultThumbWorkers   = 2
	DefaultThumbQueueSize = 64

	configFileName  = ".boxd.toml"
	configDirEnvKey = "BOXD_CONFIG_DIR"
	blobRootEnvKey  = "BOXD_BLOB_ROOT"
)

// ThumbsConfig defines runtime configuration for the thumbnail pipeline.
type ThumbsConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// Config defines runtime configuration for boxd.
type Config struct {
	APIURL          string       `toml:"api_url"`
	DBPath          string       `toml:"db_path"`
	BlobRoot        string       `toml:"blob_root"`
	SessionDBPath   string       `toml:"session_db_path"`
	SessionTTLHours int          `toml:"session_ttl_hours"`
	LogLevel        string       `toml:"log_level"`
	Thumbs          ThumbsConfig `toml:"thumbs"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:          DefaultAPIURL,
		DBPath:          "",
		BlobRoot:        DefaultBlobRoot,
		SessionDBPath:   "",
		SessionTTLHours: DefaultSessionTTLHours,
		LogLevel:        DefaultLogLevel,
		Thumbs: ThumbsConfig{
			Workers:   DefaultThumbWorkers,
			QueueSize: DefaultThumbQueueSize,
		},
	}
}

// Load builds the effective configuration: defaults, then the config
// file when present, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	if root := strings.TrimSpace(os.Getenv(blobRootEnvKey)); root != "" {
		cfg.BlobRoot = root
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DBPath = filepath.Join(home, DefaultDBFileName)
		} else {
			c.DBPath = DefaultDBFileName
		}
	}
	if c.SessionDBPath == "" {
		c.SessionDBPath = filepath.Join(filepath.Dir(c.DBPath), ".boxd-sessions")
	}
	if c.BlobRoot == "" {
		c.BlobRoot = DefaultBlobRoot
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = DefaultSessionTTLHours
	}
	if c.Thumbs.Workers <= 0 {
		c.Thumbs.Workers = DefaultThumbWorkers
	}
	if c.Thumbs.QueueSize <= 0 {
		c.Thumbs.QueueSize = DefaultThumbQueueSize
	}
}

func configPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}
