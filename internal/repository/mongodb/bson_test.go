package mongodb

import (
	"testing"
	"time"

	"docscope/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestClassifyScalar(t *testing.T) {
	oid := bson.NewObjectID()
	u := uuid.MustParse("2f1c3a5e-8d4b-4c1a-9e6f-0a1b2c3d4e5f")
	dec, err := bson.ParseDecimal128("12.50")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		want  domain.Scalar
	}{
		{"object id", oid, domain.Scalar{Tag: TypeObjectID, Kind: domain.ScalarIdentifier, Key: oid.Hex()}},
		{"uuid binary", bson.Binary{Subtype: 0x04, Data: u[:]}, domain.Scalar{Tag: TypeBinary, Kind: domain.ScalarBinary, Size: 16, Key: u.String()}},
		{"generic binary", bson.Binary{Subtype: 0x00, Data: []byte{0xca, 0xfe}}, domain.Scalar{Tag: TypeBinary, Kind: domain.ScalarBinary, Size: 2, Key: "cafe"}},
		{"decimal", dec, domain.Scalar{Tag: TypeDecimal128, Key: "12.50"}},
		{"date", bson.DateTime(1700000000000), domain.Scalar{Tag: TypeDate, Key: "1700000000000"}},
		{"time", time.UnixMilli(1700000000000), domain.Scalar{Tag: TypeDate, Key: "1700000000000"}},
		{"timestamp", bson.Timestamp{T: 5, I: 1}, domain.Scalar{Tag: TypeTimestamp, Key: "5:1"}},
		{"regex", bson.Regex{Pattern: "^a", Options: "i"}, domain.Scalar{Tag: TypeRegExp, Key: "/^a/i"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classifier{}.ClassifyScalar(tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyScalarIgnoresNativeValues(t *testing.T) {
	for _, v := range []any{"s", int32(1), int64(1), 1.5, true, nil, []any{}, map[string]any{}} {
		_, ok := Classifier{}.ClassifyScalar(v)
		assert.False(t, ok, "%T", v)
	}
}

func TestToDocument(t *testing.T) {
	oid := bson.NewObjectID()
	raw := bson.D{
		{Key: "_id", Value: oid},
		{Key: "tags", Value: bson.A{"a", bson.D{{Key: "n", Value: int32(1)}}}},
		{Key: "meta", Value: bson.M{"deep": bson.A{bson.A{}}}},
		{Key: "gone", Value: nil},
	}

	doc := toDocument(raw)

	assert.Equal(t, domain.Document{
		"_id":  oid,
		"tags": []any{"a", map[string]any{"n": int32(1)}},
		"meta": map[string]any{"deep": []any{[]any{}}},
		"gone": nil,
	}, doc)
}
