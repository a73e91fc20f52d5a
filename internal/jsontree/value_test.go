package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_WithDoesNotMutateReceiver(t *testing.T) {
	orig := Object(Field{Name: "a", Value: Number("1")})

	added := orig.With("b", String("x"))
	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, `{"a":1,"b":"x"}`, added.String())

	replaced := added.With("a", Bool(true))
	assert.Equal(t, `{"a":true,"b":"x"}`, replaced.String())
	assert.Equal(t, `{"a":1,"b":"x"}`, added.String())
}

func TestValue_WithOnNonObject(t *testing.T) {
	arr := Array(Number("1"))
	assert.True(t, Equal(arr, arr.With("a", Null())))
}

func TestValue_EmptyConstructors(t *testing.T) {
	assert.Equal(t, "[]", Array().String())
	assert.Equal(t, "{}", Object().String())
	assert.Equal(t, "null", Value{}.String())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "same_object", a: `{"a":[1,{"b":null}]}`, b: `{"a":[1,{"b":null}]}`, want: true},
		{name: "field_order_matters", a: `{"a":1,"b":2}`, b: `{"b":2,"a":1}`, want: false},
		{name: "number_literal_matters", a: `1.0`, b: `1`, want: false},
		{name: "array_length", a: `[1]`, b: `[1,1]`, want: false},
		{name: "kind_mismatch", a: `"1"`, b: `1`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseString(tt.a, Limits{})
			require.NoError(t, err)
			b, err := ParseString(tt.b, Limits{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, Equal(a, b))
		})
	}
}
