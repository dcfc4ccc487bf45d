package broker

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	plainInts struct{ a, b int32 }
	namedInt  struct{ name string }
	wideInts  struct{ a, b, c int64 }
	ptrArray  struct{ refs [2]*int }
	nested    struct{ inner namedInt }
)

func TestHasPointers(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int", reflect.TypeFor[int](), false},
		{"pointer-free struct", reflect.TypeFor[plainInts](), false},
		{"string field", reflect.TypeFor[namedInt](), true},
		{"array of pointers", reflect.TypeFor[ptrArray](), true},
		{"empty array", reflect.TypeFor[[0]*int](), false},
		{"nested string field", reflect.TypeFor[nested](), true},
		{"slice", reflect.TypeFor[[]byte](), true},
		{"map", reflect.TypeFor[map[string]int](), true},
		{"func", reflect.TypeFor[func() error](), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasPointers(tt.typ))
		})
	}
}

func TestBindBatched(t *testing.T) {
	small := Bind(&plainInts{}, func(*plainInts) error { return nil })
	require.NoError(t, small.validate("t"))
	assert.True(t, small.handler.batched())

	wide := Bind(&wideInts{}, func(*wideInts) error { return nil })
	require.NoError(t, wide.validate("t"))
	assert.False(t, wide.handler.batched())

	named := Bind(&namedInt{}, func(*namedInt) error { return nil })
	require.NoError(t, named.validate("t"))
	assert.False(t, named.handler.batched())
}

func TestRefValidateWrappedError(t *testing.T) {
	ref := Ref{err: fmt.Errorf("bind: %w", invalidArgument("", "target", "bad target"))}

	err := ref.validate("orders")

	require.ErrorIs(t, err, ErrInvalidArgument)
	e, ok := err.(*Error)
	require.True(t, ok, "validate should return the *Error with its topic set")
	assert.Equal(t, "orders", e.Topic)
	assert.Equal(t, "target", e.Arg)
}
