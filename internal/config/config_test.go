package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docscope/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %s, want %s", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if cfg.Options() != domain.DefaultOptions() {
		t.Errorf("Options() = %+v, want defaults", cfg.Options())
	}
}

func TestOptionsOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Introspection.ReferenceSampleSize = intPtr(0)
	cfg.Introspection.MaxPropertiesPerObject = intPtr(5)

	opts := cfg.Options()
	if opts.CollectionSampleSize != domain.DefaultCollectionSampleSize {
		t.Errorf("CollectionSampleSize = %d, want default", opts.CollectionSampleSize)
	}
	if opts.ReferenceSampleSize != 0 {
		t.Errorf("ReferenceSampleSize = %d, want 0", opts.ReferenceSampleSize)
	}
	if opts.MaxPropertiesPerObject != 5 {
		t.Errorf("MaxPropertiesPerObject = %d, want 5", opts.MaxPropertiesPerObject)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "redis" }, true},
		{"missing uri", func(c *Config) { c.Database.URI = "" }, true},
		{"mongodb without name", func(c *Config) {
			c.Database.Driver = DriverMongoDB
			c.Database.URI = "mongodb://localhost:27017"
		}, true},
		{"mongodb with name", func(c *Config) {
			c.Database.Driver = DriverMongoDB
			c.Database.URI = "mongodb://localhost:27017"
			c.Database.Name = "shop"
		}, false},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"bad sample size", func(c *Config) { c.Introspection.CollectionSampleSize = intPtr(0) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Database = DatabaseConfig{Driver: DriverMongoDB, URI: "mongodb://db:27017", Name: "shop"}
	cfg.Introspection.CollectionSampleSize = intPtr(250)
	timeout := Duration(2 * time.Minute)
	cfg.Introspection.Timeout = &timeout
	cfg.Output = OutputConfig{Format: "yaml", Path: "s3://schemas/shop.yaml"}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Database != cfg.Database {
		t.Errorf("Database = %+v, want %+v", loaded.Database, cfg.Database)
	}
	if loaded.Options().CollectionSampleSize != 250 {
		t.Errorf("CollectionSampleSize = %d, want 250", loaded.Options().CollectionSampleSize)
	}
	if loaded.Timeout() != 2*time.Minute {
		t.Errorf("Timeout() = %s, want 2m", loaded.Timeout())
	}
	if loaded.Output != cfg.Output {
		t.Errorf("Output = %+v, want %+v", loaded.Output, cfg.Output)
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("introspection:\n  reference_sample_size: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.URI != "./docscope.db" {
		t.Errorf("Database = %+v, want sqlite defaults", cfg.Database)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Options().ReferenceSampleSize != 3 {
		t.Errorf("ReferenceSampleSize = %d, want 3", cfg.Options().ReferenceSampleSize)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("introspection:\n  timeout: soon\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() should reject an invalid duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCSCOPE_DATABASE_DRIVER", "postgres")
	t.Setenv("DOCSCOPE_DATABASE_URI", "postgres://app:secret@db/shop")
	t.Setenv("DOCSCOPE_S3_ENDPOINT", "minio:9000")
	t.Setenv("DOCSCOPE_S3_USE_SSL", "true")
	t.Setenv("DOCSCOPE_SSH_HOST", "bastion.internal")
	t.Setenv("DOCSCOPE_SSH_USER", "ops")
	t.Setenv("DOCSCOPE_SSH_PORT", "2222")

	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}

	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Driver = %s, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.URI != "postgres://app:secret@db/shop" {
		t.Errorf("URI = %s", cfg.Database.URI)
	}
	if cfg.S3.Endpoint != "minio:9000" || !cfg.S3.UseSSL {
		t.Errorf("S3 = %+v", cfg.S3)
	}

	tc, ok := cfg.TunnelConfig()
	if !ok {
		t.Fatal("TunnelConfig() should be set from DOCSCOPE_SSH_HOST")
	}
	if tc.Host != "bastion.internal" || tc.User != "ops" || tc.Port != 2222 {
		t.Errorf("TunnelConfig() = %+v", tc)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DOCSCOPE_DATABASE_DRIVER", "")
	t.Setenv("DOCSCOPE_DATABASE_URI", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.URI != "./docscope.db" {
		t.Errorf("Database = %+v, want sqlite defaults", cfg.Database)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestFromEnvDriverWithoutURI(t *testing.T) {
	t.Setenv("DOCSCOPE_DATABASE_DRIVER", "postgres")
	t.Setenv("DOCSCOPE_DATABASE_URI", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.Database.URI != "" {
		t.Errorf("URI = %q, want empty: the SQLite default must not leak into %s", cfg.Database.URI, DriverPostgres)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should require a URI for postgres")
	}
}

func TestLoadFromPathReadsDotenv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("database:\n  driver: mongodb\n  uri: mongodb://db:27017\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("DOCSCOPE_DATABASE_NAME=shop\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)

	// Registers cleanup, then leaves the variable unset so .env can fill it
	t.Setenv("DOCSCOPE_DATABASE_NAME", "")
	os.Unsetenv("DOCSCOPE_DATABASE_NAME")

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Database.Name != "shop" {
		t.Errorf("Database.Name = %q, want shop from .env", cfg.Database.Name)
	}
}

func TestEnvOverridesInvalid(t *testing.T) {
	t.Setenv("DOCSCOPE_S3_USE_SSL", "maybe")
	if err := DefaultConfig().applyEnv(); err == nil {
		t.Error("applyEnv() should reject a non-boolean DOCSCOPE_S3_USE_SSL")
	}
}

func TestTunnelConfigAbsent(t *testing.T) {
	if _, ok := DefaultConfig().TunnelConfig(); ok {
		t.Error("TunnelConfig() should be unset by default")
	}
}

func TestSummaryRedactsPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database = DatabaseConfig{Driver: DriverPostgres, URI: "postgres://app:secret@db/shop"}

	summary := cfg.Summary()
	if strings.Contains(summary, "secret") {
		t.Errorf("Summary() leaks password: %s", summary)
	}
	if !strings.Contains(summary, "postgres://app:xxxxx@db/shop") {
		t.Errorf("Summary() = %s", summary)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Explicit path doesn't exist, should fall back to working directory
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %q, want working directory config", found)
	}

	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %q, want %q", found, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/u")

	got := SearchPaths()
	want := []string{
		"/explicit.yaml",
		ConfigFileName,
		"/xdg/docscope/config.yaml",
		"/home/u/.config/docscope/config.yaml",
		"/etc/docscope/config.yaml",
	}
	if len(got) != len(want) {
		t.Fatalf("SearchPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchPaths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
