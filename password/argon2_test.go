package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastArgon2 uses small parameters so the suite stays quick.
func fastArgon2() *Argon2Hasher {
	return NewArgon2Hasher(&Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func TestArgon2Hasher_Hash(t *testing.T) {
	h := fastArgon2()

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
	assert.Contains(t, hash, "m=8192,t=1,p=1")
}

func TestArgon2Hasher_HashUnique(t *testing.T) {
	h := fastArgon2()

	hash1, err := h.Hash("password123")
	require.NoError(t, err)
	hash2, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "hashes should be unique due to random salt")
}

func TestArgon2Hasher_Verify(t *testing.T) {
	h := fastArgon2()
	hash, err := h.Hash("password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "password123", true},
		{"wrong password", "wrongpassword", false},
		{"empty password", "", false},
		{"similar password", "password124", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := h.Verify(tt.password, hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestArgon2Hasher_VerifyUsesEmbeddedParameters(t *testing.T) {
	hash, err := fastArgon2().Hash("password123")
	require.NoError(t, err)

	// A hasher configured differently still verifies from the encoding alone.
	valid, err := NewArgon2Hasher(nil).Verify("password123", hash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestArgon2Hasher_VerifyCorruptHash(t *testing.T) {
	h := fastArgon2()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"invalid format", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"},
		{"missing parts", "$argon2id$v=19$m=65536"},
		{"bad version", "$argon2id$v=1$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
		{"zero parallelism", "$argon2id$v=19$m=65536,t=3,p=0$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"zero iterations", "$argon2id$v=19$m=65536,t=0,p=2$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"memory below lanes", "$argon2id$v=19$m=8,t=1,p=2$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"empty salt", "$argon2id$v=19$m=8192,t=1,p=1$$aGFzaGhhc2g"},
		{"empty key", "$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$"},
		{"parallelism overflow", "$argon2id$v=19$m=8192,t=1,p=300$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"parameters out of order", "$argon2id$v=19$t=1,m=8192,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ok bool
			var err error
			require.NotPanics(t, func() {
				ok, err = h.Verify("password", tt.hash)
			})
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrCorruptCredential)

			var corruptErr *CorruptHashError
			require.ErrorAs(t, err, &corruptErr)
			assert.Equal(t, AlgorithmArgon2id, corruptErr.Algorithm)
			assert.NotNil(t, corruptErr.Unwrap())
		})
	}
}

func TestArgon2Hasher_HashRejectsUnusableConfig(t *testing.T) {
	h := NewArgon2Hasher(&Argon2Config{Memory: 8 * 1024, Iterations: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	_, err := h.Hash("password123")
	assert.Error(t, err)
}

func TestArgon2Hasher_NeedsRehash(t *testing.T) {
	h := fastArgon2()
	hash, err := h.Hash("password123")
	require.NoError(t, err)

	assert.False(t, h.NeedsRehash(hash))
	assert.True(t, NewArgon2Hasher(nil).NeedsRehash(hash))
	assert.True(t, h.NeedsRehash("invalid-hash"))
}

func TestDefaultArgon2Config(t *testing.T) {
	config := DefaultArgon2Config()

	assert.Equal(t, uint32(64*1024), config.Memory)
	assert.Equal(t, uint32(3), config.Iterations)
	assert.Equal(t, uint8(2), config.Parallelism)
	assert.Equal(t, uint32(16), config.SaltLength)
	assert.Equal(t, uint32(32), config.KeyLength)
}
