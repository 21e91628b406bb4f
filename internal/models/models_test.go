package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitiveText(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
		want  string
	}{
		{"null", &Value{Kind: Null}, "null"},
		{"true", &Value{Kind: Bool, Boolean: true}, "true"},
		{"false", &Value{Kind: Bool, Boolean: false}, "false"},
		{"number keeps source text", &Value{Kind: Number, Text: []byte("1.50e+2")}, "1.50e+2"},
		{"string raw text", &Value{Kind: String, Text: []byte("hello")}, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.value.PrimitiveText()))
		})
	}
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, (&Value{Kind: Null}).IsPrimitive())
	assert.True(t, (&Value{Kind: Bool}).IsPrimitive())
	assert.True(t, (&Value{Kind: Number}).IsPrimitive())
	assert.True(t, (&Value{Kind: String}).IsPrimitive())
	assert.False(t, (&Value{Kind: Array}).IsPrimitive())
	assert.False(t, (&Value{Kind: Object}).IsPrimitive())
}

func TestPairListGet(t *testing.T) {
	pairs := PairList{
		{Key: []byte("a"), Val: []byte("1")},
		{Key: []byte("a.b"), Val: []byte("2")},
		{Key: []byte("a"), Val: []byte("3")},
	}

	// Exact byte match; the first occurrence wins.
	assert.Equal(t, "1", string(pairs.Get([]byte("a"))))
	assert.Equal(t, "2", string(pairs.Get([]byte("a.b"))))

	// Missing key is nil, not an error: it becomes an empty cell.
	assert.Nil(t, pairs.Get([]byte("missing")))
	assert.Nil(t, pairs.Get([]byte("a.")))
}
