package codec

import (
	"fmt"
	"io"

	"docscope/internal/domain"
)

// Encoder writes an introspection result in one serialization format
type Encoder interface {
	Encode(result *domain.IntrospectionResult, w io.Writer) error
	Format() string
}

// Decoder reads an introspection result, rejecting newer format versions
type Decoder interface {
	Decode(r io.Reader) (*domain.IntrospectionResult, error)
	Format() string
}

// Codec both encodes and decodes
type Codec interface {
	Encoder
	Decoder
}

// ForFormat returns the codec registered under format
func ForFormat(format string) (Codec, error) {
	switch format {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func checkDecoded(result *domain.IntrospectionResult) (*domain.IntrospectionResult, error) {
	if err := result.CheckVersion(); err != nil {
		return nil, err
	}
	return result, nil
}
