package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	// KeySize is the required key length in bytes (256 bits).
	KeySize = 32

	// KeyHexLength is the length of a key's external hexadecimal representation.
	KeyHexLength = 64

	// FingerprintLength is the number of trailing hex characters used to
	// identify a key in audit records and logs. The full key is never logged.
	FingerprintLength = 8
)

// Key is a 32-byte symmetric encryption key.
//
// Keys are represented externally as 64-character hexadecimal strings and are
// loaded once from the environment at process start. They are never persisted
// to disk and never logged; only the trailing-8-hex-character fingerprint may
// appear in audit records.
type Key []byte

// ParseKey decodes and validates a 64-character hexadecimal key string.
//
// Returns ErrKeyRequired for an empty string and ErrInvalidKeyFormat for any
// value that does not decode to exactly 32 bytes.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return nil, ErrKeyRequired
	}

	if len(s) != KeyHexLength {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidKeyFormat, len(s))
	}

	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}

	return Key(key), nil
}

// GenerateKey produces a fresh cryptographically random 32-byte key.
//
// Intended for operator use when provisioning a new key ahead of rotation.
// Environment gating (refusing to run in production) is enforced by the
// key manager service, not here.
func GenerateKey() (Key, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return Key(key), nil
}

// Hex returns the 64-character hexadecimal representation of the key.
func (k Key) Hex() string {
	return hex.EncodeToString(k)
}

// Fingerprint returns the trailing 8 hex characters of the key, safe to
// include in audit records and log lines.
func (k Key) Fingerprint() string {
	h := k.Hex()
	if len(h) < FingerprintLength {
		return h
	}
	return h[len(h)-FingerprintLength:]
}

// Valid reports whether the key has the required 32-byte length.
func (k Key) Valid() bool {
	return len(k) == KeySize
}

// Equal compares two keys in constant time.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	return subtle.ConstantTimeCompare(k, other) == 1
}

// Zero overwrites the key material in place.
func (k Key) Zero() {
	Zero(k)
}
