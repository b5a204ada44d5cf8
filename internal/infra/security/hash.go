package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/arklim/social-platform-auth/internal/core/port"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

// Argon2Hasher implements port.PasswordHasher using Argon2id with a random
// per-call salt. The encoded form carries variant, version, parameters, salt,
// and digest, so stored hashes remain verifiable after parameter changes.
type Argon2Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// Argon2Params overrides the hashing cost parameters.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// NewArgon2Hasher constructs a hasher with the service defaults.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		memory:      64 * 1024,
		iterations:  3,
		parallelism: 4,
		saltLength:  16,
		keyLength:   32,
	}
}

// NewArgon2HasherWithParams constructs a hasher with explicit cost parameters,
// substituting the service defaults for zero values.
func NewArgon2HasherWithParams(p Argon2Params) *Argon2Hasher {
	h := NewArgon2Hasher()
	if p.Memory > 0 {
		h.memory = p.Memory
	}
	if p.Iterations > 0 {
		h.iterations = p.Iterations
	}
	if p.Parallelism > 0 {
		h.parallelism = p.Parallelism
	}
	if p.SaltLength > 0 {
		h.saltLength = p.SaltLength
	}
	if p.KeyLength > 0 {
		h.keyLength = p.KeyLength
	}
	return h
}

// Hash derives an Argon2id digest of password under a fresh random salt.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, h.keyLength)

	return fmt.Sprintf("%s$%s$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2Version,
		h.memory,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. Stored hashes are untrusted
// input on the login path: a malformed encoding verifies as false rather than
// surfacing an error. The digest comparison is constant time.
func (h *Argon2Hasher) Verify(password string, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != argon2Variant || parts[1] != argon2Version {
		return false
	}

	var (
		memory, iterations uint32
		parallelism        uint8
	)
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

var _ port.PasswordHasher = (*Argon2Hasher)(nil)
