package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := E(Schema, "column %q not found", "key")
	assert.Equal(t, `schema error: column "key" not found`, err.Error())
	assert.Equal(t, `column "key" not found`, err.(*Error).Message())
	assert.Equal(t, "no error", (&Error{}).Error())
}

func TestKindThroughWrapping(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("writing page 3: %w", E(IO, base))
	require.True(t, Is(err, IO))
	require.False(t, Is(err, Schema))
	require.ErrorIs(t, err, base)
	assert.Equal(t, Other, KindOf(base))
	assert.False(t, Is(nil, Other))
}

func TestUnknownArgument(t *testing.T) {
	err := E(Invalid, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type int")
}
