package mongodb

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"docscope/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Type tags of the BSON scalars the engine cannot recognize natively
const (
	TypeObjectID   domain.TypeTag = "ObjectId"
	TypeBinary     domain.TypeTag = "Binary"
	TypeDecimal128 domain.TypeTag = "Decimal128"
	TypeDate       domain.TypeTag = "Date"
	TypeTimestamp  domain.TypeTag = "Timestamp"
	TypeRegExp     domain.TypeTag = "RegExp"
	TypeCode       domain.TypeTag = "Code"
	TypeMinKey     domain.TypeTag = "MinKey"
	TypeMaxKey     domain.TypeTag = "MaxKey"
	TypeUndefined  domain.TypeTag = "Undefined"
)

// binary subtypes holding a 16 byte UUID
const (
	binarySubtypeUUIDOld byte = 0x03
	binarySubtypeUUID    byte = 0x04
)

// Classifier recognizes BSON scalar types
type Classifier struct{}

// ClassifyScalar implements domain.ScalarClassifier
func (Classifier) ClassifyScalar(v any) (domain.Scalar, bool) {
	switch val := v.(type) {
	case bson.ObjectID:
		return domain.Scalar{Tag: TypeObjectID, Kind: domain.ScalarIdentifier, Key: val.Hex()}, true
	case bson.Binary:
		return domain.Scalar{Tag: TypeBinary, Kind: domain.ScalarBinary, Size: len(val.Data), Key: binaryKey(val)}, true
	case bson.Decimal128:
		return domain.Scalar{Tag: TypeDecimal128, Key: val.String()}, true
	case bson.DateTime:
		return domain.Scalar{Tag: TypeDate, Key: strconv.FormatInt(int64(val), 10)}, true
	case time.Time:
		return domain.Scalar{Tag: TypeDate, Key: strconv.FormatInt(val.UnixMilli(), 10)}, true
	case bson.Timestamp:
		return domain.Scalar{Tag: TypeTimestamp, Key: fmt.Sprintf("%d:%d", val.T, val.I)}, true
	case bson.Regex:
		return domain.Scalar{Tag: TypeRegExp, Key: "/" + val.Pattern + "/" + val.Options}, true
	case bson.JavaScript:
		return domain.Scalar{Tag: TypeCode, Key: string(val)}, true
	case bson.MinKey:
		return domain.Scalar{Tag: TypeMinKey, Key: "MinKey"}, true
	case bson.MaxKey:
		return domain.Scalar{Tag: TypeMaxKey, Key: "MaxKey"}, true
	case bson.Undefined:
		return domain.Scalar{Tag: TypeUndefined}, true
	}
	return domain.Scalar{}, false
}

// binaryKey renders UUID subtypes in their textual form and anything else as hex
func binaryKey(b bson.Binary) string {
	if (b.Subtype == binarySubtypeUUID || b.Subtype == binarySubtypeUUIDOld) && len(b.Data) == 16 {
		if u, err := uuid.FromBytes(b.Data); err == nil {
			return u.String()
		}
	}
	return hex.EncodeToString(b.Data)
}

// toDocument converts a decoded BSON document into native maps and slices
func toDocument(d bson.D) domain.Document {
	return normalize(d).(map[string]any)
}

func normalize(v any) any {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = normalize(item)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case bson.Null:
		return nil
	default:
		return v
	}
}
