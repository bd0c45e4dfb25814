package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Sync     SyncConfig     `yaml:"sync"`
	Worker   WorkerConfig   `yaml:"worker"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig contains site database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig identifies this site and bounds sync batches.
type SyncConfig struct {
	SiteID        int64  `yaml:"site_id"`
	SiteName      string `yaml:"site_name"`
	PushBatchSize int    `yaml:"push_batch_size"`
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	VacuumInterval  Duration `yaml:"vacuum_interval"`
	BufferRetention Duration `yaml:"buffer_retention"`
}

// SnapshotConfig contains S3 snapshot upload settings. Credentials are
// env-only so they never land in a config file.
type SnapshotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("SITESYNC_CONFIG_PATH", "config/sitesync.yaml")

	// Missing file is not an error; defaults plus env cover it.
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "data/sitesync.db",
		},
		Sync: SyncConfig{
			PushBatchSize: 512,
		},
		Worker: WorkerConfig{
			VacuumInterval:  Duration(1 * time.Hour),
			BufferRetention: Duration(7 * 24 * time.Hour),
		},
		Snapshot: SnapshotConfig{
			UseSSL: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SITESYNC_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("SITESYNC_SITE_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Sync.SiteID = id
		}
	}
	if v := os.Getenv("SITESYNC_SITE_NAME"); v != "" {
		cfg.Sync.SiteName = v
	}
	if v := os.Getenv("SITESYNC_PUSH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.PushBatchSize = n
		}
	}

	if v := os.Getenv("SITESYNC_VACUUM_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Worker.VacuumInterval = Duration(d)
		}
	}
	if v := os.Getenv("SITESYNC_BUFFER_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Worker.BufferRetention = Duration(d)
		}
	}

	if v := os.Getenv("SITESYNC_SNAPSHOT_ENABLED"); v != "" {
		cfg.Snapshot.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_ENDPOINT"); v != "" {
		cfg.Snapshot.Endpoint = v
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_BUCKET"); v != "" {
		cfg.Snapshot.Bucket = v
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_PREFIX"); v != "" {
		cfg.Snapshot.Prefix = v
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_USE_SSL"); v != "" {
		cfg.Snapshot.UseSSL = v == "true" || v == "1"
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_ACCESS_KEY"); v != "" {
		cfg.Snapshot.AccessKey = v
	}
	if v := os.Getenv("SITESYNC_SNAPSHOT_SECRET_KEY"); v != "" {
		cfg.Snapshot.SecretKey = v
	}

	if v := os.Getenv("SITESYNC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SITESYNC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks that required configuration values are set.
func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Sync.SiteID <= 0 {
		return fmt.Errorf("sync site_id must be a positive site identifier")
	}
	if c.Sync.PushBatchSize <= 0 {
		return fmt.Errorf("sync push_batch_size must be positive")
	}
	if c.Snapshot.Enabled {
		if c.Snapshot.Endpoint == "" || c.Snapshot.Bucket == "" {
			return fmt.Errorf("snapshot endpoint and bucket are required when snapshot upload is enabled")
		}
		if c.Snapshot.AccessKey == "" || c.Snapshot.SecretKey == "" {
			return fmt.Errorf("SITESYNC_SNAPSHOT_ACCESS_KEY and SITESYNC_SNAPSHOT_SECRET_KEY are required when snapshot upload is enabled")
		}
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
