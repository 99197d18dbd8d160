package introspect

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"docscope/internal/domain"
)

const (
	// maxReferenceStringLength fits a textual UUID
	maxReferenceStringLength = 36
	// maxReferenceBinarySize fits a binary UUID
	maxReferenceBinarySize = 16
)

// observation is a value together with what the engine knows about it
type observation struct {
	tag    domain.TypeTag
	scalar *domain.Scalar
}

// classify resolves the type tag of a value: null, then driver scalars,
// then arrays and objects, then native primitives
func classify(c domain.ScalarClassifier, v any) observation {
	if v == nil {
		return observation{tag: domain.TypeNull}
	}
	if s, ok := c.ClassifyScalar(v); ok {
		return observation{tag: s.Tag, scalar: &s}
	}
	switch v.(type) {
	case []any:
		return observation{tag: domain.TypeArray}
	case map[string]any:
		return observation{tag: domain.TypeObject}
	case string:
		return observation{tag: domain.TypeString}
	case bool:
		return observation{tag: domain.TypeBoolean}
	case json.Number, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return observation{tag: domain.TypeNumber}
	default:
		return observation{tag: domain.TypeTag(fmt.Sprintf("%T", v))}
	}
}

// identifierShaped reports whether a value could be a primary key
func (o observation) identifierShaped(v any) bool {
	if o.tag == domain.TypeNull {
		return true
	}
	if o.scalar != nil {
		switch o.scalar.Kind {
		case domain.ScalarIdentifier:
			return true
		case domain.ScalarBinary:
			return o.scalar.Size <= maxReferenceBinarySize
		default:
			return false
		}
	}
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s) <= maxReferenceStringLength
	}
	return false
}

// canonicalKey returns the comparable form of an identifier value
func canonicalKey(c domain.ScalarClassifier, v any) string {
	if s, ok := c.ClassifyScalar(v); ok {
		return s.Key
	}
	return domain.CanonicalKey(v)
}
