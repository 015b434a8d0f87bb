package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"matcheck/internal/blob"
	"matcheck/pkg/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matcheck.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithLookup("", noEnv)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Key != domain.DefaultSlot || cfg.Storage.SQLitePath != "matcheck.db" {
		t.Fatalf("unexpected defaults %+v", cfg.Storage)
	}
	opts := cfg.StorageOptions()
	if opts.Driver != domain.StorageSQLite || opts.Object.Blob.Driver != blob.DriverFilesystem {
		t.Fatalf("unexpected storage options %+v", opts)
	}
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog_path = "recipes.yaml"

[storage]
driver = "object"

[storage.object]
driver = "s3"
bucket = "checklists"
prefix = "users/alice/"
path_style = true

[log]
level = "debug"
format = "json"

[metrics]
prometheus = true
`)
	cfg, err := LoadWithLookup(path, noEnv)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CatalogPath != "recipes.yaml" || cfg.Storage.Key != domain.DefaultSlot {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Log.Format != "json" || !cfg.Metrics.Prometheus {
		t.Fatalf("unexpected log/metrics %+v %+v", cfg.Log, cfg.Metrics)
	}
	opts := cfg.StorageOptions()
	if opts.Driver != domain.StorageObject || opts.Object.Prefix != "users/alice/" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Object.Blob.Driver != blob.DriverS3 || opts.Object.Blob.S3.Bucket != "checklists" || !opts.Object.Blob.S3.PathStyle {
		t.Fatalf("unexpected blob options %+v", opts.Object.Blob)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[storage]\ndriver = \"sqlite\"\n")
	cfg, err := LoadWithLookup(path, envFrom(map[string]string{
		EnvStorageDriver:     "postgres",
		EnvPostgresDSN:       "postgres://db/matcheck",
		EnvStorageKey:        "team",
		EnvMetricsPrometheus: "true",
		EnvS3PathStyle:       "nope",
		"MATCHECK_LOG_LEVEL": "error",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.PostgresDSN != "postgres://db/matcheck" || cfg.Storage.Key != "team" {
		t.Fatalf("env not applied: %+v", cfg.Storage)
	}
	if !cfg.Metrics.Prometheus || cfg.Storage.Object.PathStyle || cfg.Log.Level != "error" {
		t.Fatalf("unexpected flags %+v %+v", cfg.Metrics, cfg.Log)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadWithLookup(filepath.Join(t.TempDir(), "missing.toml"), noEnv); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := LoadWithLookup(writeConfig(t, "[storage\n"), noEnv); err == nil {
		t.Fatalf("expected parse error")
	}
	_, err := LoadWithLookup(writeConfig(t, "[storage]\nflavour = \"x\"\n"), noEnv)
	if err == nil || !strings.Contains(err.Error(), "flavour") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":    func(c *Config) { c.Storage.Driver = "redis" },
		"key":       func(c *Config) { c.Storage.Key = " " },
		"object":    func(c *Config) { c.Storage.Driver = "object"; c.Storage.Object.Driver = "ftp" },
		"s3 bucket": func(c *Config) { c.Storage.Driver = "object"; c.Storage.Object.Driver = "s3" },
		"log":       func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	cfg := Default()
	cfg.Storage.Object.Driver = "ftp"
	if err := Validate(cfg); err != nil {
		t.Fatalf("object section is ignored for other drivers: %v", err)
	}
}
