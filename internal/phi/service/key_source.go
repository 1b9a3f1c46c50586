package service

import (
	"context"
	"encoding/base64"
	"fmt"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// EnvKeySource supplies the key directly from configuration (the
// PHI_ENCRYPTION_KEY environment variable). The key lives in the environment
// rather than a file, deliberately, to keep key material off disk.
type EnvKeySource struct {
	value string
}

// NewEnvKeySource creates a key source around a configured hex key string.
func NewEnvKeySource(value string) *EnvKeySource {
	return &EnvKeySource{value: value}
}

// KeyHex returns the configured key material, or ErrKeyRequired when unset.
func (s *EnvKeySource) KeyHex(_ context.Context) (string, error) {
	if s.value == "" {
		return "", phiDomain.ErrKeyRequired
	}
	return s.value, nil
}

// KMSKeySource supplies the key by decrypting a KMS-wrapped ciphertext at
// startup. The environment then carries only the wrapped key
// (PHI_ENCRYPTION_KEY_CIPHERTEXT, base64) and the KMS key URI, never the
// plaintext key.
type KMSKeySource struct {
	kms        KMSService
	keyURI     string
	ciphertext string
}

// NewKMSKeySource creates a key source that unwraps the key via the
// configured KMS provider.
func NewKMSKeySource(kms KMSService, keyURI, ciphertext string) *KMSKeySource {
	return &KMSKeySource{
		kms:        kms,
		keyURI:     keyURI,
		ciphertext: ciphertext,
	}
}

// KeyHex opens the KMS keeper, decrypts the wrapped key, and returns the
// recovered 64-character hex string.
func (s *KMSKeySource) KeyHex(ctx context.Context) (string, error) {
	if s.ciphertext == "" {
		return "", phiDomain.ErrKeyRequired
	}

	wrapped, err := base64.StdEncoding.DecodeString(s.ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: wrapped key is not valid base64", phiDomain.ErrInvalidKeyFormat)
	}

	keeper, err := s.kms.OpenKeeper(ctx, s.keyURI)
	if err != nil {
		return "", err
	}
	defer func() { _ = keeper.Close() }()

	keyHex, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt wrapped key: %w", err)
	}
	defer phiDomain.Zero(keyHex)

	return string(keyHex), nil
}
