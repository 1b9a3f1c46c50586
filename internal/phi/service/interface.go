// Package service provides the PHI field-encryption engine: AES-256-GCM
// envelope encryption, deterministic search hashing, and key management.
package service

import (
	"context"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// Encryptor defines the narrow interface the rest of the application uses to
// protect PHI fields at rest. Implementations are stateless per call and safe
// for concurrent use; the only shared state is the cached key, which is
// written once and thereafter only read.
type Encryptor interface {
	// Encrypt encrypts a plaintext field value and returns a versioned
	// ciphertext envelope. Empty or whitespace-only plaintext returns the
	// empty string: encryption of "nothing" is "nothing", never a decoy
	// envelope for absent data.
	Encrypt(plaintext string) (string, error)

	// Decrypt parses a ciphertext envelope and returns the plaintext.
	// Empty input returns empty, mirroring Encrypt's sentinel handling.
	// A malformed envelope, a wrong key, or tampered bytes fail closed
	// with distinct error kinds.
	Decrypt(envelope string) (string, error)

	// SearchHash returns the deterministic SHA-256 hex digest of the
	// normalized plaintext (trimmed, lowercased), or the empty string for
	// blank input. Used as a secondary indexed column for equality search
	// over encrypted fields.
	SearchHash(plaintext string) string
}

// KeyProvider supplies the current process-wide encryption key.
type KeyProvider interface {
	// EncryptionKey returns the cached 32-byte key, loading and validating
	// it on first use. Repeated calls return the same key.
	EncryptionKey() (phiDomain.Key, error)
}

// KeySource supplies raw key material as a 64-character hex string from an
// external secret source (environment variable or KMS-wrapped ciphertext).
type KeySource interface {
	KeyHex(ctx context.Context) (string, error)
}
