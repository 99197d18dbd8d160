// Package config provides configuration management for docscope.
//
// Settings come from three layers, later ones winning:
//  1. the YAML config file (see FindConfigPath)
//  2. a .env file in the working directory, loaded into the environment
//  3. DOCSCOPE_* environment variables
//
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"docscope/internal/domain"
	"docscope/internal/tunnel"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg, err := FromEnv()
		return cfg, "", err
	}

	return LoadFromPath(path)
}

// FromEnv builds a config from defaults and the environment alone. Defaults
// are filled in after the environment so a driver chosen there never
// inherits the SQLite path.
func FromEnv() (*Config, error) {
	loadDotenv()

	var cfg Config
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	loadDotenv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return &cfg, path, nil
}

// loadDotenv reads ./.env into the environment. Variables already set win
// and a missing file is not an error.
func loadDotenv() {
	_ = godotenv.Load()
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns a config that introspects ./docscope.db and prints
// JSON to stdout
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Database: DatabaseConfig{Driver: DriverSQLite, URI: "./docscope.db"},
		Output:   OutputConfig{Format: "json"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.URI == "" && c.Database.Driver == DriverSQLite {
		c.Database.URI = "./docscope.db"
	}
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
}

// applyEnv overlays DOCSCOPE_* environment variables
func (c *Config) applyEnv() error {
	setString(&c.Database.Driver, "DOCSCOPE_DATABASE_DRIVER")
	setString(&c.Database.URI, "DOCSCOPE_DATABASE_URI")
	setString(&c.Database.Name, "DOCSCOPE_DATABASE_NAME")

	setString(&c.Output.Format, "DOCSCOPE_OUTPUT_FORMAT")
	setString(&c.Output.Path, "DOCSCOPE_OUTPUT_PATH")

	setString(&c.S3.Endpoint, "DOCSCOPE_S3_ENDPOINT")
	setString(&c.S3.Region, "DOCSCOPE_S3_REGION")
	setString(&c.S3.AccessKey, "DOCSCOPE_S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "DOCSCOPE_S3_SECRET_KEY")
	setString(&c.S3.Bucket, "DOCSCOPE_S3_BUCKET")
	if err := setBool(&c.S3.UseSSL, "DOCSCOPE_S3_USE_SSL"); err != nil {
		return err
	}

	if host := envValue("DOCSCOPE_SSH_HOST"); host != "" && c.Tunnel == nil {
		c.Tunnel = &TunnelConfig{}
	}
	if c.Tunnel == nil {
		return nil
	}
	setString(&c.Tunnel.Host, "DOCSCOPE_SSH_HOST")
	setString(&c.Tunnel.User, "DOCSCOPE_SSH_USER")
	setString(&c.Tunnel.Password, "DOCSCOPE_SSH_PASSWORD")
	setString(&c.Tunnel.PrivateKeyPath, "DOCSCOPE_SSH_KEY_PATH")
	setString(&c.Tunnel.Passphrase, "DOCSCOPE_SSH_PASSPHRASE")
	setString(&c.Tunnel.KnownHostsPath, "DOCSCOPE_SSH_KNOWN_HOSTS")
	if raw := envValue("DOCSCOPE_SSH_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("DOCSCOPE_SSH_PORT: %w", err)
		}
		c.Tunnel.Port = port
	}
	return nil
}

// Options merges the introspection overrides into the engine defaults.
// Bounds are checked by domain.Options.Validate.
func (c *Config) Options() domain.Options {
	opts := domain.DefaultOptions()
	if v := c.Introspection.CollectionSampleSize; v != nil {
		opts.CollectionSampleSize = *v
	}
	if v := c.Introspection.ReferenceSampleSize; v != nil {
		opts.ReferenceSampleSize = *v
	}
	if v := c.Introspection.MaxPropertiesPerObject; v != nil {
		opts.MaxPropertiesPerObject = *v
	}
	return opts
}

// Timeout returns the run deadline, zero when unbounded
func (c *Config) Timeout() time.Duration {
	if c.Introspection.Timeout == nil {
		return 0
	}
	return c.Introspection.Timeout.Duration()
}

// TunnelConfig converts the tunnel section for tunnel.Open
func (c *Config) TunnelConfig() (tunnel.Config, bool) {
	if c.Tunnel == nil || c.Tunnel.Host == "" {
		return tunnel.Config{}, false
	}
	cfg := tunnel.Config{
		Host:           c.Tunnel.Host,
		Port:           c.Tunnel.Port,
		User:           c.Tunnel.User,
		Password:       c.Tunnel.Password,
		PrivateKeyPath: expandHome(c.Tunnel.PrivateKeyPath),
		Passphrase:     c.Tunnel.Passphrase,
		KnownHostsPath: expandHome(c.Tunnel.KnownHostsPath),
	}
	if c.Tunnel.Timeout != nil {
		cfg.Timeout = c.Tunnel.Timeout.Duration()
	}
	return cfg, true
}

// Validate checks settings the engine does not see
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	case DriverMongoDB:
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the %s driver", DriverMongoDB)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %q", c.Output.Format)
	}
	return c.Options().Validate()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	opts := c.Options()
	summary := fmt.Sprintf("Database: %s %s", c.Database.Driver, redactURI(c.Database.URI))
	if c.Database.Name != "" {
		summary += fmt.Sprintf(" (%s)", c.Database.Name)
	}
	if c.Tunnel != nil && c.Tunnel.Host != "" {
		summary += fmt.Sprintf(" via %s@%s", c.Tunnel.User, c.Tunnel.Host)
	}
	summary += fmt.Sprintf("\nSampling: %d documents, %d reference values, %d properties max",
		opts.CollectionSampleSize, opts.ReferenceSampleSize, opts.MaxPropertiesPerObject)
	return summary
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := envValue(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	raw := envValue(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}

// redactURI hides the password in user:password@host URIs
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return uri
	}
	return scheme + "://" + user + ":xxxxx@" + host
}
