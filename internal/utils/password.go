package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Canonical stored-password format: "argon2id$<salt-b64>$<hash-b64>".
//
// Legacy records predate this scheme and may hold either a bare SHA-256 hex
// digest (the first-access flow hashed but never verified) or plaintext (the
// admin-created flow compared by equality). VerifyPassword accepts all three
// forms so that existing accounts keep working; callers upgrade the stored
// value to the canonical form on the next successful verification.
const passwordScheme = "argon2id"

// Argon2id parameters, matching the OWASP recommendation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var hexDigestRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// HashPassword derives the canonical stored form of a plaintext password:
// a fresh random salt and an argon2id digest, both base64-encoded.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating password salt: %w", err)
	}

	digest := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s$%s$%s",
		passwordScheme,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// VerifyPassword checks a supplied plaintext password against the stored
// credential value.
//
// Returns:
//   - ok     — whether the password matches;
//   - legacy — whether the stored value used a pre-canonical form (bare
//     SHA-256 hex or plaintext) and should be rewritten by the caller.
func VerifyPassword(stored, plain string) (ok bool, legacy bool) {
	switch {
	case strings.HasPrefix(stored, passwordScheme+"$"):
		return verifyArgon2id(stored, plain), false
	case hexDigestRe.MatchString(stored):
		return constantTimeEqual(stored, SHA256Hex(plain)), true
	default:
		return constantTimeEqual(stored, plain), true
	}
}

// IsCanonicalPassword reports whether the stored value already uses the
// canonical argon2id form.
func IsCanonicalPassword(stored string) bool {
	return strings.HasPrefix(stored, passwordScheme+"$")
}

func verifyArgon2id(stored, plain string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
