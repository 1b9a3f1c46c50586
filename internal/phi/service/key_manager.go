package service

import (
	"context"
	"fmt"
	"sync"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// keyValidationProbe is the fixed plaintext used by the key self-test.
const keyValidationProbe = "phicrypt-key-validation-probe"

// KeyManagerService owns the process-wide encryption key.
//
// The key is loaded once from an external secret source, validated (exactly
// 64 hex characters decoding to 32 bytes), and cached in process memory for
// the process lifetime. It is never persisted to disk and never logged.
// Initialization is guarded by sync.Once so the cached value is written
// exactly once and thereafter only read, making concurrent access safe
// without locking.
//
// The manager is constructed and injected explicitly rather than held as
// module-level state, so tests and the rotation procedure can operate on
// keys without touching global configuration.
type KeyManagerService struct {
	source      KeySource
	environment string

	once sync.Once
	key  phiDomain.Key
	err  error
}

// NewKeyManager creates a KeyManagerService reading key material from the
// given source. The environment string gates key generation: generating a
// key is refused when the process is configured for production.
func NewKeyManager(source KeySource, environment string) *KeyManagerService {
	return &KeyManagerService{
		source:      source,
		environment: environment,
	}
}

// Initialize loads and validates the key from the secret source. Idempotent:
// repeated calls return the result of the first load without re-validating.
func (m *KeyManagerService) Initialize(ctx context.Context) error {
	m.once.Do(func() {
		hexKey, err := m.source.KeyHex(ctx)
		if err != nil {
			m.err = err
			return
		}

		m.key, m.err = phiDomain.ParseKey(hexKey)
	})
	return m.err
}

// EncryptionKey returns the cached key, initializing it on first use.
func (m *KeyManagerService) EncryptionKey() (phiDomain.Key, error) {
	if err := m.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return m.key, nil
}

// ValidateCurrentKey exercises an encrypt→decrypt round trip on a fixed probe
// string with the current key and reports whether the round trip matches.
// Used by health checks, not by normal encrypt/decrypt calls.
func (m *KeyManagerService) ValidateCurrentKey() (bool, error) {
	key, err := m.EncryptionKey()
	if err != nil {
		return false, err
	}

	envelope, err := EncryptWithKey(keyValidationProbe, key)
	if err != nil {
		return false, err
	}

	plaintext, err := DecryptWithKey(envelope, key)
	if err != nil {
		return false, err
	}

	return plaintext == keyValidationProbe, nil
}

// GenerateKeyHex produces a fresh random 32-byte key as a 64-character hex
// string, for operator use when provisioning a new key ahead of rotation.
//
// Refuses to run when the process is configured for production: key
// generation is an ops-bootstrap action, and allowing it in production
// risks silent key replacement.
func (m *KeyManagerService) GenerateKeyHex() (string, error) {
	if m.environment == "production" {
		return "", fmt.Errorf("key generation is disabled in production")
	}

	key, err := phiDomain.GenerateKey()
	if err != nil {
		return "", err
	}
	defer key.Zero()

	return key.Hex(), nil
}
