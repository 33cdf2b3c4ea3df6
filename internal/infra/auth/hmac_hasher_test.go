package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACHasher_HashAndVerify(t *testing.T) {
	hasher := NewHMACHasher()

	password := "Sup3r-secret!"
	hash, salt, err := hasher.Hash(password)
	require.NoError(t, err)

	assert.Len(t, hash, HashLength)
	assert.Len(t, salt, SaltLength)

	assert.True(t, hasher.Verify(password, hash, salt))
	assert.False(t, hasher.Verify("Sup3r-secret?", hash, salt))
	assert.False(t, hasher.Verify("", hash, salt))
}

func TestHMACHasher_FreshSaltPerCall(t *testing.T) {
	hasher := NewHMACHasher()

	password := "same-password"
	hash1, salt1, err := hasher.Hash(password)
	require.NoError(t, err)
	hash2, salt2, err := hasher.Hash(password)
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	// Each hash still verifies against its own salt.
	assert.True(t, hasher.Verify(password, hash1, salt1))
	assert.True(t, hasher.Verify(password, hash2, salt2))

	// But not against the other's salt.
	assert.False(t, hasher.Verify(password, hash1, salt2))
}

func TestHMACHasher_UnicodePassword(t *testing.T) {
	hasher := NewHMACHasher()

	password := "pässwörd-密碼-🔑"
	hash, salt, err := hasher.Hash(password)
	require.NoError(t, err)

	assert.True(t, hasher.Verify(password, hash, salt))
	assert.False(t, hasher.Verify("pässwörd-密碼-", hash, salt))
}

func TestHMACHasher_MalformedLengthsPanic(t *testing.T) {
	hasher := NewHMACHasher()

	hash, salt, err := hasher.Hash("whatever")
	require.NoError(t, err)

	assert.Panics(t, func() {
		hasher.Verify("whatever", hash[:HashLength-1], salt)
	})
	assert.Panics(t, func() {
		hasher.Verify("whatever", hash, salt[:SaltLength-1])
	})
}
