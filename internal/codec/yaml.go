package codec

import (
	"fmt"
	"io"

	"docscope/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode reads a result from YAML
func (c *YAMLCodec) Decode(r io.Reader) (*domain.IntrospectionResult, error) {
	var result domain.IntrospectionResult
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return checkDecoded(&result)
}

// Encode writes a result as YAML
func (c *YAMLCodec) Encode(result *domain.IntrospectionResult, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
