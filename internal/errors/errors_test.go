package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("WrapNilReturnsNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("WrapPreservesErrorChain", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "key must be 64 hex characters")
		require.Error(t, wrapped)
		assert.True(t, stderrors.Is(wrapped, ErrInvalidInput))
		assert.Contains(t, wrapped.Error(), "key must be 64 hex characters")
	})

	t.Run("DoubleWrapKeepsSentinel", func(t *testing.T) {
		inner := Wrap(ErrConfiguration, "encryption key missing")
		outer := Wrap(inner, "startup failed")
		assert.True(t, stderrors.Is(outer, ErrConfiguration))
	})
}

func TestIs(t *testing.T) {
	err := Wrap(ErrNotFound, "rotation record")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
}

func TestNew(t *testing.T) {
	err := New("boom")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}
