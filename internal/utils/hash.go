// Package utils provides general-purpose helpers used across the
// application: hashing, password verification, session-token generation and
// validation, and ID generation.
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashString computes an HMAC-SHA256 signature over data using hashKey and
// returns the hex-encoded digest. Used for integrity stamps on outbound
// payloads and for legacy credential digests.
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}

// SHA256Hex returns the plain (unkeyed) SHA-256 hex digest of data. Legacy
// user records created by the first-access flow stored passwords in this
// form; VerifyPassword still accepts it and upgrades the record on the next
// successful login.
func SHA256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
