package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// EncryptionService implements the Encryptor interface over a single
// process-wide key supplied by a KeyProvider.
//
// Encryption uses AES-256-GCM with a fresh random 16-byte IV per call and a
// 16-byte authentication tag, composed into the v1 envelope format. Because
// the IV is random, two calls with identical plaintext produce different
// envelopes; this is required so ciphertext comparison cannot leak equality.
//
// Decryption additionally accepts the legacy v2 envelope format
// (ChaCha20-Poly1305) for data written by an earlier module revision.
//
// Thread safety: the service is stateless per call and safe for concurrent
// use from request-handling goroutines without locking.
type EncryptionService struct {
	keys KeyProvider
}

// NewEncryptionService creates an EncryptionService backed by the provided
// key provider.
func NewEncryptionService(keys KeyProvider) *EncryptionService {
	return &EncryptionService{keys: keys}
}

// Encrypt encrypts a plaintext field value under the current key.
// Blank input (empty or whitespace-only) returns the empty string.
// A missing or malformed key fails loudly; there is no plaintext fallback.
func (s *EncryptionService) Encrypt(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", nil
	}

	key, err := s.keys.EncryptionKey()
	if err != nil {
		return "", err
	}

	return EncryptWithKey(plaintext, key)
}

// Decrypt decrypts a ciphertext envelope under the current key.
// Blank input returns the empty string, mirroring Encrypt.
func (s *EncryptionService) Decrypt(envelope string) (string, error) {
	if strings.TrimSpace(envelope) == "" {
		return "", nil
	}

	key, err := s.keys.EncryptionKey()
	if err != nil {
		return "", err
	}

	return DecryptWithKey(envelope, key)
}

// SearchHash returns the deterministic SHA-256 hex digest of the normalized
// plaintext, or the empty string for blank input.
//
// The hash is unkeyed on purpose: equality lookups require the same input to
// always produce the same stored value, and the envelope format cannot
// provide that because of IV randomness. The trade-off is that low-entropy
// inputs (common names, known email domains) are vulnerable to dictionary
// and frequency analysis; the hash is a searchability aid, not a security
// boundary.
func (s *EncryptionService) SearchHash(plaintext string) string {
	return SearchHash(plaintext)
}

// EncryptWithKey encrypts plaintext under an explicit key, producing a v1
// envelope. Used directly by the rotation procedure, which operates on two
// keys at once and must not touch the cached process key.
func EncryptWithKey(plaintext string, key phiDomain.Key) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", nil
	}

	if !key.Valid() {
		return "", fmt.Errorf("%w: got %d bytes", phiDomain.ErrInvalidKeyFormat, len(key))
	}

	aead, err := newAEAD(phiDomain.FormatV1, key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, phiDomain.V1IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	// Seal appends the 16-byte tag to the ciphertext; the envelope stores
	// them as separate segments.
	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	boundary := len(sealed) - phiDomain.TagSize

	env := &phiDomain.Envelope{
		Version: phiDomain.FormatV1,
		IV:      iv,
		Tag:     sealed[boundary:],
		Data:    sealed[:boundary],
	}

	return env.String(), nil
}

// DecryptWithKey decrypts an envelope under an explicit key.
//
// Format problems return errors wrapping ErrInvalidCiphertext; a well-formed
// envelope that fails integrity verification (wrong key or tampered bytes)
// returns ErrAuthenticationFailed. The two are distinct so callers can log
// tampering separately from corrupt data.
func DecryptWithKey(envelope string, key phiDomain.Key) (string, error) {
	if strings.TrimSpace(envelope) == "" {
		return "", nil
	}

	if !key.Valid() {
		return "", fmt.Errorf("%w: got %d bytes", phiDomain.ErrInvalidKeyFormat, len(key))
	}

	env, err := phiDomain.ParseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	aead, err := newAEAD(env.Version, key)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(env.Data)+len(env.Tag))
	sealed = append(sealed, env.Data...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aead.Open(nil, env.IV, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s envelope", phiDomain.ErrAuthenticationFailed, env.Version)
	}

	return string(plaintext), nil
}

// SearchHash normalizes plaintext (trim, lowercase) and returns its SHA-256
// digest as 64 lowercase hex characters. Blank input returns "".
func SearchHash(plaintext string) string {
	normalized := strings.ToLower(strings.TrimSpace(plaintext))
	if normalized == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// newAEAD constructs the AEAD cipher for an envelope format version.
func newAEAD(version phiDomain.FormatVersion, key phiDomain.Key) (cipher.AEAD, error) {
	switch version {
	case phiDomain.FormatV1:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", err)
		}
		// v1 carries a 16-byte IV rather than GCM's 12-byte default.
		aead, err := cipher.NewGCMWithNonceSize(block, phiDomain.V1IVSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return aead, nil

	case phiDomain.FormatV2:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create ChaCha20-Poly1305: %w", err)
		}
		return aead, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized version %q", phiDomain.ErrInvalidCiphertext, version)
	}
}
