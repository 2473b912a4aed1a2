package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasher(t *testing.T) {
	tests := []struct {
		algorithm string
		want      any
	}{
		{"", &BcryptHasher{}},
		{"bcrypt", &BcryptHasher{}},
		{"BCRYPT", &BcryptHasher{}},
		{"argon2id", &Argon2Hasher{}},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			h, err := NewHasher(tt.algorithm)
			require.NoError(t, err)
			assert.IsType(t, tt.want, h)
		})
	}
}

func TestNewHasher_Unsupported(t *testing.T) {
	_, err := NewHasher("md5")
	assert.Error(t, err)
}

func TestHasher_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   fastBcrypt(),
		"argon2id": fastArgon2(),
	}
	plaintexts := []string{"secret1", "", "pässwörd", "a b c", "x"}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			for _, p := range plaintexts {
				hash, err := h.Hash(p)
				require.NoError(t, err)

				ok, err := h.Verify(p, hash)
				require.NoError(t, err)
				assert.True(t, ok, "verify(%q, hash(%q))", p, p)

				ok, err = h.Verify(p+"!", hash)
				require.NoError(t, err)
				assert.False(t, ok, "verify(%q, hash(%q))", p+"!", p)
			}
		})
	}
}
