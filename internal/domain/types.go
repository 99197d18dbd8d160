package domain

// TypeTag names the type of a value observed at one position of a document
type TypeTag string

const (
	TypeNull    TypeTag = "null"
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeBoolean TypeTag = "boolean"
	TypeArray   TypeTag = "array"
	TypeObject  TypeTag = "object"

	// TypeMixed is the resolved type for positions too ambiguous to describe
	// with a single concrete type
	TypeMixed TypeTag = "Mixed"
)

// IDField is the conventional primary key field of a document
const IDField = "_id"

// Document is a single sampled document. Nested objects are map[string]any
// and arrays are []any; anything else is a scalar.
type Document = map[string]any

// ScalarKind tells the analyzer how a driver-specific scalar behaves when
// deciding whether a position may hold references
type ScalarKind int

const (
	// ScalarOther never qualifies as a reference
	ScalarOther ScalarKind = iota
	// ScalarIdentifier is an opaque identifier type and always qualifies
	ScalarIdentifier
	// ScalarBinary qualifies while its Size fits a binary UUID
	ScalarBinary
)

// Scalar describes a driver-specific value the engine cannot classify on its own
type Scalar struct {
	Tag  TypeTag
	Kind ScalarKind
	// Size is the payload length in bytes for ScalarBinary values
	Size int
	// Key is the canonical string form used to compare identifiers
	Key string
}

// ScalarClassifier is supplied by the storage layer so that wrapped
// identifiers, binary blobs, timestamps and similar types stay out of the
// engine's type resolution
type ScalarClassifier interface {
	// ClassifyScalar returns false for values the driver does not own
	ClassifyScalar(v any) (Scalar, bool)
}

// NoScalars is a ScalarClassifier for stores that only produce native values
type NoScalars struct{}

// ClassifyScalar implements ScalarClassifier
func (NoScalars) ClassifyScalar(any) (Scalar, bool) {
	return Scalar{}, false
}
