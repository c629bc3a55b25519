package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeUninitialized, "pool has no instances")

	assert.Equal(t, ErrorTypeUninitialized, err.Type)
	assert.Equal(t, "uninitialized: pool has no instances", err.Error())
	assert.NotEmpty(t, err.Stack, "expected captured stack frames")
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("clone failed")
	err := Wrap(cause, ErrorTypeInternal, "growth failed")

	require.NotNil(t, err)
	assert.Equal(t, "internal: growth failed: clone failed", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, ErrorTypeInternal, "ignored"); err != nil {
		t.Fatalf("wrapping nil should return nil, got %v", err)
	}
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeForeignInstance, "not owned by this pool")
	outer := Wrap(inner, ErrorTypeInternal, "despawn failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeInternal))
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeCapacity, "pool at max size")

	assert.True(t, IsType(err, ErrorTypeCapacity))
	assert.False(t, IsType(err, ErrorTypeConflict))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeCapacity))
	assert.False(t, IsType(nil, ErrorTypeCapacity))

	// Type checks see through plain wrapping too.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeCapacity))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeCapacity, "pool at max size").
		WithDetail("pool", "bullets").
		WithDetail("max_size", 128)

	assert.Equal(t, "bullets", err.Details["pool"])
	assert.Equal(t, 128, err.Details["max_size"])
}
