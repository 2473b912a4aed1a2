package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/aloks98/devconnector/internal/crypto"
)

// Argon2Config holds the configuration for Argon2id hashing.
type Argon2Config struct {
	// Memory is the amount of memory used in KiB.
	Memory uint32

	// Iterations is the number of passes over the memory.
	Iterations uint32

	// Parallelism is the number of lanes.
	Parallelism uint8

	// SaltLength is the length of the random salt in bytes.
	SaltLength uint32

	// KeyLength is the length of the derived key in bytes.
	KeyLength uint32
}

// DefaultArgon2Config returns the OWASP-recommended Argon2id parameters.
func DefaultArgon2Config() *Argon2Config {
	return &Argon2Config{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// validate rejects parameters argon2.IDKey cannot run with.
func (c *Argon2Config) validate() error {
	switch {
	case c.Iterations == 0:
		return errors.New("iterations must be at least 1")
	case c.Parallelism == 0:
		return errors.New("parallelism must be at least 1")
	case c.Memory < 8*uint32(c.Parallelism):
		return fmt.Errorf("memory %d KiB is below 8 KiB per lane", c.Memory)
	case c.SaltLength == 0:
		return errors.New("salt is empty")
	case c.KeyLength == 0:
		return errors.New("key is empty")
	}
	return nil
}

// Argon2Hasher implements the Hasher interface using Argon2id.
type Argon2Hasher struct {
	config *Argon2Config
}

// NewArgon2Hasher creates a new Argon2id hasher with the given configuration.
// If config is nil, DefaultArgon2Config is used.
func NewArgon2Hasher(config *Argon2Config) *Argon2Hasher {
	if config == nil {
		config = DefaultArgon2Config()
	}
	return &Argon2Hasher{config: config}
}

// argon2Hash is a decoded PHC string.
type argon2Hash struct {
	params Argon2Config
	salt   []byte
	key    []byte
}

func (h *argon2Hash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), h.salt,
		h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
}

// String encodes the hash as $argon2id$v=19$m=65536,t=3,p=2$salt$key.
func (h *argon2Hash) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id, argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

// Hash creates an Argon2id hash in PHC string format.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if err := h.config.validate(); err != nil {
		return "", fmt.Errorf("argon2id config: %w", err)
	}

	salt, err := crypto.GenerateRandomBytes(int(h.config.SaltLength))
	if err != nil {
		return "", err
	}

	encoded := &argon2Hash{params: *h.config, salt: salt}
	encoded.key = encoded.derive(password)
	return encoded.String(), nil
}

// Verify checks a password against an Argon2id hash using the parameters
// embedded in the hash.
func (h *Argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	stored, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, corrupt(AlgorithmArgon2id, err)
	}
	return subtle.ConstantTimeCompare(stored.key, stored.derive(password)) == 1, nil
}

// NeedsRehash checks if a hash was created with different parameters.
func (h *Argon2Hasher) NeedsRehash(encodedHash string) bool {
	stored, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return true
	}
	p := stored.params
	return p.Memory != h.config.Memory ||
		p.Iterations != h.config.Iterations ||
		p.Parallelism != h.config.Parallelism ||
		p.KeyLength != h.config.KeyLength
}

// parseArgon2Hash decodes a PHC string and checks its parameters are usable.
func parseArgon2Hash(encoded string) (*argon2Hash, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return nil, errors.New("invalid hash format")
	}
	if fields[1] != AlgorithmArgon2id {
		return nil, fmt.Errorf("unsupported algorithm: %s", fields[1])
	}

	version, ok := strings.CutPrefix(fields[2], "v=")
	if !ok {
		return nil, errors.New("missing version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, fmt.Errorf("incompatible argon2 version: %q", version)
	}

	params, err := parseArgon2Params(fields[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	params.SaltLength = uint32(len(salt)) //nolint:gosec // bounded by base64 decode
	params.KeyLength = uint32(len(key))   //nolint:gosec // bounded by base64 decode

	if err := params.validate(); err != nil {
		return nil, err
	}
	return &argon2Hash{params: params, salt: salt, key: key}, nil
}

// parseArgon2Params parses "m=<KiB>,t=<iterations>,p=<lanes>" in that order.
func parseArgon2Params(s string) (Argon2Config, error) {
	var params Argon2Config

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return params, fmt.Errorf("invalid parameters: %q", s)
	}

	for i, name := range []string{"m", "t", "p"} {
		key, value, ok := strings.Cut(parts[i], "=")
		if !ok || key != name {
			return params, fmt.Errorf("expected parameter %s, got %q", name, parts[i])
		}

		bits := 32
		if name == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(value, 10, bits)
		if err != nil {
			return params, fmt.Errorf("parameter %s: %w", name, err)
		}

		switch name {
		case "m":
			params.Memory = uint32(n)
		case "t":
			params.Iterations = uint32(n)
		case "p":
			params.Parallelism = uint8(n)
		}
	}
	return params, nil
}

var _ Hasher = (*Argon2Hasher)(nil)
