package domain

import (
	"github.com/clearcove/phicrypt/internal/errors"
)

// PHI encryption error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for encryption failures. Callers must be able to tell
// "bad configuration" apart from "bad data": configuration errors abort the
// operation (and usually process startup), while ciphertext errors are
// recoverable by the caller but are never coerced to an empty value.
var (
	// ErrKeyRequired indicates no encryption key is configured.
	//
	// Encryption and decryption must fail loudly when the key is absent.
	// Falling back to storing or returning plaintext is never acceptable.
	ErrKeyRequired = errors.Wrap(errors.ErrConfiguration, "encryption key required")

	// ErrInvalidKeyFormat indicates the configured key material is malformed.
	//
	// Keys are 32 bytes represented as exactly 64 hexadecimal characters.
	// Any other length or non-hex content is a fatal configuration error.
	ErrInvalidKeyFormat = errors.Wrap(errors.ErrConfiguration, "encryption key must be 64 hex characters")

	// ErrInvalidCiphertext indicates the envelope string does not match the
	// expected "version:iv:tag:ciphertext" shape or uses an unrecognized
	// version tag. Recoverable by the caller (treat as "cannot display this
	// field") but distinct from an authentication failure.
	ErrInvalidCiphertext = errors.Wrap(errors.ErrInvalidInput, "invalid ciphertext format")

	// ErrAuthenticationFailed indicates a well-formed envelope failed AEAD
	// integrity verification: wrong key or tampered bytes. Logged distinctly
	// from format errors for security monitoring.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "ciphertext authentication failed")

	// ErrRotationValidation indicates a key rotation precondition failure
	// (malformed key, identical keys, failed self-test). Rotation aborts
	// before any data is touched.
	ErrRotationValidation = errors.Wrap(errors.ErrInvalidInput, "rotation validation failed")

	// ErrRotationField indicates a single field value could not be
	// re-encrypted during rotation. The field is skipped with a warning and
	// the run continues; it never aborts the whole rotation.
	ErrRotationField = errors.Wrap(errors.ErrInvalidInput, "rotation field failure")
)
