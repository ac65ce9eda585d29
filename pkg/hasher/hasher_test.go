package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/gamevault/pkg"
)

func TestSHA512(t *testing.T) {
	h := SHA512{}

	for _, secret := range []string{"pw1", "", "correct horse battery staple", "üñí©ødé"} {
		a, err := h.Hash(secret)
		require.NoError(t, err)
		b, err := h.Hash(secret)
		require.NoError(t, err)

		assert.Equal(t, a, b, "digest must be reproducible")
		assert.NotEqual(t, secret, a)
		assert.Len(t, a, 128)
		assert.True(t, h.Verify(a, secret))
		assert.False(t, h.Verify(a, secret+"x"))
	}

	t.Run("known vector", func(t *testing.T) {
		digest, _ := h.Hash("abc")
		assert.Equal(t, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a"+
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f", digest)
	})
}

func TestBcrypt(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}

	a, err := h.Hash("pw1")
	require.NoError(t, err)
	b, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "bcrypt digests are salted")
	assert.True(t, h.Verify(a, "pw1"))
	assert.True(t, h.Verify(b, "pw1"))
	assert.False(t, h.Verify(a, "pw2"))

	t.Run("password over 72 bytes is a validation error", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", 73))
		assert.ErrorIs(t, err, pkg.ErrValidation)
	})
}

func TestNew(t *testing.T) {
	h, err := New("")
	require.NoError(t, err)
	assert.IsType(t, SHA512{}, h)

	h, err = New(KindBcrypt)
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	_, err = New("md5")
	assert.Error(t, err)
}
