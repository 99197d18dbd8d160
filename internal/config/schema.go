package config

import (
	"time"

	"docscope/internal/artifact"
)

// Config is the root configuration structure
type Config struct {
	Version       int                 `yaml:"version"`
	Database      DatabaseConfig      `yaml:"database"`
	Introspection IntrospectionConfig `yaml:"introspection"`
	Tunnel        *TunnelConfig       `yaml:"tunnel,omitempty"` // nil = connect directly
	Output        OutputConfig        `yaml:"output"`
	S3            artifact.S3Config   `yaml:"s3"`
}

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URI    string `yaml:"uri"`
	Name   string `yaml:"name,omitempty"` // mongodb only
}

// IntrospectionConfig overrides engine defaults. Unset fields keep defaults.
type IntrospectionConfig struct {
	CollectionSampleSize   *int      `yaml:"collection_sample_size,omitempty"`
	ReferenceSampleSize    *int      `yaml:"reference_sample_size,omitempty"`
	MaxPropertiesPerObject *int      `yaml:"max_properties_per_object,omitempty"`
	Timeout                *Duration `yaml:"timeout,omitempty"`
}

// TunnelConfig describes an SSH bastion for reaching the database
type TunnelConfig struct {
	Host           string    `yaml:"host"`
	Port           int       `yaml:"port,omitempty"`
	User           string    `yaml:"user"`
	Password       string    `yaml:"password,omitempty"`
	PrivateKeyPath string    `yaml:"private_key_path,omitempty"`
	Passphrase     string    `yaml:"passphrase,omitempty"`
	KnownHostsPath string    `yaml:"known_hosts_path,omitempty"`
	Timeout        *Duration `yaml:"timeout,omitempty"`
}

// OutputConfig says where and how results are written
type OutputConfig struct {
	Format string `yaml:"format"`         // json or yaml
	Path   string `yaml:"path,omitempty"` // file path or s3://bucket/key, empty = stdout
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
