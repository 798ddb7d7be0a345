package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", h)
	assert.True(t, CheckPassword(h, "s3cret-pass"))
	assert.False(t, CheckPassword(h, "wrong"))
}

func TestTokenDigest(t *testing.T) {
	assert.Equal(t, TokenDigest("abc"), TokenDigest("abc"))
	assert.NotEqual(t, TokenDigest("abc"), TokenDigest("abd"))
	assert.Len(t, TokenDigest("abc"), 64)
}
