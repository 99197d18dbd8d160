package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"docscope/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode reads a result from JSON
func (c *JSONCodec) Decode(r io.Reader) (*domain.IntrospectionResult, error) {
	var result domain.IntrospectionResult
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return checkDecoded(&result)
}

// Encode writes a result as indented JSON. Object keys come out sorted
// because encoding/json sorts map keys.
func (c *JSONCodec) Encode(result *domain.IntrospectionResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
