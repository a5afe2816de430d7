package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher("test-key")
	require.NoError(t, err)

	token, err := c.Encrypt("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", token)

	plaintext, err := c.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "s3cret-password", plaintext)
}

func TestCipherWrongKey(t *testing.T) {
	c1, err := NewCipher("key-one")
	require.NoError(t, err)
	c2, err := NewCipher("key-two")
	require.NoError(t, err)

	token, err := c1.Encrypt("password")
	require.NoError(t, err)

	plaintext, err := c2.Resolve(token)
	require.Error(t, err)
	assert.Empty(t, plaintext)
	assert.True(t, errors.IsSecretUnavailableError(err))
}

func TestCipherRejectsGarbage(t *testing.T) {
	c, err := NewCipher("test-key")
	require.NoError(t, err)

	cases := []string{"", "not-base64!!!", "aGVsbG8="}
	for _, in := range cases {
		_, err := c.Resolve(in)
		assert.Error(t, err, "input %q", in)
		assert.True(t, errors.IsSecretUnavailableError(err))
	}
}

func TestNewCipherRequiresKey(t *testing.T) {
	_, err := NewCipher("")
	require.Error(t, err)
}
