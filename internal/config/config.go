// Package config loads the matcheck configuration from a TOML file and
// MATCHECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"matcheck/internal/blob"
	"matcheck/internal/core"
	"matcheck/internal/logging"
	"matcheck/pkg/domain"
)

// Environment overrides. Log settings use the logging.EnvLog* variables.
const (
	EnvStorageDriver     = "MATCHECK_STORAGE_DRIVER"
	EnvStorageKey        = "MATCHECK_STORAGE_KEY"
	EnvSQLitePath        = "MATCHECK_SQLITE_PATH"
	EnvPostgresDSN       = "MATCHECK_POSTGRES_DSN"
	EnvObjectDriver      = "MATCHECK_OBJECT_DRIVER"
	EnvObjectRoot        = "MATCHECK_OBJECT_ROOT"
	EnvObjectPrefix      = "MATCHECK_OBJECT_PREFIX"
	EnvS3Bucket          = "MATCHECK_S3_BUCKET"
	EnvS3Region          = "MATCHECK_S3_REGION"
	EnvS3Endpoint        = "MATCHECK_S3_ENDPOINT"
	EnvS3PathStyle       = "MATCHECK_S3_PATH_STYLE"
	EnvCatalogPath       = "MATCHECK_CATALOG_PATH"
	EnvExpvarName        = "MATCHECK_EXPVAR_NAME"
	EnvMetricsPrometheus = "MATCHECK_METRICS_PROMETHEUS"
)

type Config struct {
	CatalogPath string         `toml:"catalog_path"`
	Storage     StorageConfig  `toml:"storage"`
	Log         logging.Config `toml:"log"`
	Metrics     MetricsConfig  `toml:"metrics"`
}

type StorageConfig struct {
	Driver      string       `toml:"driver"`
	Key         string       `toml:"key"`
	SQLitePath  string       `toml:"sqlite_path"`
	PostgresDSN string       `toml:"postgres_dsn"`
	Object      ObjectConfig `toml:"object"`
}

type ObjectConfig struct {
	Driver    string `toml:"driver"`
	Root      string `toml:"root"`
	Prefix    string `toml:"prefix"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

type MetricsConfig struct {
	ExpvarName string `toml:"expvar_name"`
	Prometheus bool   `toml:"prometheus"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver:     string(domain.StorageSQLite),
			Key:        domain.DefaultSlot,
			SQLitePath: "matcheck.db",
			Object:     ObjectConfig{Driver: string(blob.DriverFilesystem), Root: "./blobdata"},
		},
		Log: logging.DefaultConfig(logging.ProfileRuntime),
	}
}

// Load reads path (when non-empty), applies environment overrides and validates.
func Load(path string) (Config, error) {
	return LoadWithLookup(path, os.LookupEnv)
}

// LoadWithLookup is Load with an injectable environment.
func LoadWithLookup(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg, lookup)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(path string, out *Config) error {
	meta, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) {
	setString := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString(&cfg.Storage.Driver, EnvStorageDriver)
	setString(&cfg.Storage.Key, EnvStorageKey)
	setString(&cfg.Storage.SQLitePath, EnvSQLitePath)
	setString(&cfg.Storage.PostgresDSN, EnvPostgresDSN)
	setString(&cfg.Storage.Object.Driver, EnvObjectDriver)
	setString(&cfg.Storage.Object.Root, EnvObjectRoot)
	setString(&cfg.Storage.Object.Prefix, EnvObjectPrefix)
	setString(&cfg.Storage.Object.Bucket, EnvS3Bucket)
	setString(&cfg.Storage.Object.Region, EnvS3Region)
	setString(&cfg.Storage.Object.Endpoint, EnvS3Endpoint)
	setString(&cfg.CatalogPath, EnvCatalogPath)
	setString(&cfg.Metrics.ExpvarName, EnvExpvarName)
	if v, ok := lookup(EnvS3PathStyle); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Storage.Object.PathStyle = b
		}
	}
	if v, ok := lookup(EnvMetricsPrometheus); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Metrics.Prometheus = b
		}
	}
	logging.ApplyLookup(&cfg.Log, lookup)
}

// Validate reports the first invalid setting.
func Validate(cfg Config) error {
	switch domain.StorageDriver(cfg.Storage.Driver) {
	case domain.StorageMemory, domain.StorageSQLite, domain.StoragePostgres, domain.StorageObject:
	default:
		return fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage: key is required")
	}
	if domain.StorageDriver(cfg.Storage.Driver) == domain.StorageObject {
		switch blob.Driver(cfg.Storage.Object.Driver) {
		case blob.DriverFilesystem, blob.DriverMemory:
		case blob.DriverS3:
			if strings.TrimSpace(cfg.Storage.Object.Bucket) == "" {
				return fmt.Errorf("storage.object: bucket is required for the s3 driver")
			}
		default:
			return fmt.Errorf("storage.object: unknown driver %q", cfg.Storage.Object.Driver)
		}
	}
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// StorageOptions translates the storage section for core.OpenStore.
func (c Config) StorageOptions() core.StorageOptions {
	obj := c.Storage.Object
	return core.StorageOptions{
		Driver:      domain.StorageDriver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		Object: core.ObjectStorageOptions{
			Prefix: obj.Prefix,
			Blob: blob.Options{
				Driver: blob.Driver(obj.Driver),
				Root:   obj.Root,
				S3: blob.S3Config{
					Bucket:    obj.Bucket,
					Region:    obj.Region,
					Endpoint:  obj.Endpoint,
					PathStyle: obj.PathStyle,
				},
			},
		},
	}
}
