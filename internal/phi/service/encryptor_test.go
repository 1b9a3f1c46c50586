package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// staticKeyProvider returns a fixed key for testing.
type staticKeyProvider struct {
	key phiDomain.Key
	err error
}

func (p *staticKeyProvider) EncryptionKey() (phiDomain.Key, error) {
	return p.key, p.err
}

func newTestService(t *testing.T) (*EncryptionService, phiDomain.Key) {
	t.Helper()
	key, err := phiDomain.GenerateKey()
	require.NoError(t, err)
	return NewEncryptionService(&staticKeyProvider{key: key}), key
}

func TestEncryptionService_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	plaintexts := []string{
		"Patient SSN: 123-45-6789",
		"1985-03-22",
		"free-text clinical note with unicode: émotions, 治疗",
		"a",
		strings.Repeat("long note ", 500),
	}

	for _, plaintext := range plaintexts {
		envelope, err := svc.Encrypt(plaintext)
		require.NoError(t, err)
		require.NotEmpty(t, envelope)
		assert.NotEqual(t, plaintext, envelope)

		recovered, err := svc.Decrypt(envelope)
		require.NoError(t, err)
		assert.Equal(t, plaintext, recovered)
	}
}

func TestEncryptionService_EnvelopeShape(t *testing.T) {
	svc, _ := newTestService(t)

	envelope, err := svc.Encrypt("Patient SSN: 123-45-6789")
	require.NoError(t, err)

	// v1, 16-byte IV (32 hex), 16-byte tag (32 hex), non-empty hex payload.
	assert.Regexp(t, regexp.MustCompile(`^v1:[a-f0-9]{32}:[a-f0-9]{32}:[a-f0-9]+$`), envelope)
}

func TestEncryptionService_NonDeterminism(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Encrypt("identical plaintext")
	require.NoError(t, err)
	second, err := svc.Encrypt("identical plaintext")
	require.NoError(t, err)

	// Fresh IV per call: identical plaintext must never produce identical
	// envelopes, or ciphertext comparison would leak equality.
	assert.NotEqual(t, first, second)
}

func TestEncryptionService_BlankHandling(t *testing.T) {
	svc, _ := newTestService(t)

	for _, blank := range []string{"", "   ", "\t\n"} {
		envelope, err := svc.Encrypt(blank)
		require.NoError(t, err)
		assert.Empty(t, envelope)

		plaintext, err := svc.Decrypt(blank)
		require.NoError(t, err)
		assert.Empty(t, plaintext)

		assert.Empty(t, svc.SearchHash(blank))
	}
}

func TestEncryptionService_MissingKey(t *testing.T) {
	svc := NewEncryptionService(&staticKeyProvider{err: phiDomain.ErrKeyRequired})

	_, err := svc.Encrypt("must not fall back to plaintext")
	require.Error(t, err)
	assert.ErrorIs(t, err, phiDomain.ErrKeyRequired)

	_, err = svc.Decrypt("v1:aa:bb:cc")
	require.Error(t, err)
	assert.ErrorIs(t, err, phiDomain.ErrKeyRequired)
}

func TestDecryptWithKey_WrongKey(t *testing.T) {
	key1, err := phiDomain.GenerateKey()
	require.NoError(t, err)
	key2, err := phiDomain.GenerateKey()
	require.NoError(t, err)

	envelope, err := EncryptWithKey("sensitive", key1)
	require.NoError(t, err)

	_, err = DecryptWithKey(envelope, key2)
	require.Error(t, err)
	assert.ErrorIs(t, err, phiDomain.ErrAuthenticationFailed)
	assert.NotErrorIs(t, err, phiDomain.ErrInvalidCiphertext)
}

func TestDecryptWithKey_TamperDetection(t *testing.T) {
	key, err := phiDomain.GenerateKey()
	require.NoError(t, err)

	envelope, err := EncryptWithKey("tamper target", key)
	require.NoError(t, err)

	flip := func(c byte) byte {
		if c == 'a' {
			return 'b'
		}
		return 'a'
	}

	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 4)

	// Flip one hex character in the tag and in the payload; each must fail
	// integrity verification, never return corrupted plaintext.
	for _, segment := range []int{2, 3} {
		tampered := append([]string{}, parts...)
		seg := []byte(tampered[segment])
		seg[0] = flip(seg[0])
		tampered[segment] = string(seg)

		_, err := DecryptWithKey(strings.Join(tampered, ":"), key)
		require.Error(t, err, "segment %d", segment)
		assert.ErrorIs(t, err, phiDomain.ErrAuthenticationFailed)
	}

	// Flipping the IV also breaks authentication.
	tampered := append([]string{}, parts...)
	seg := []byte(tampered[1])
	seg[0] = flip(seg[0])
	tampered[1] = string(seg)

	_, err = DecryptWithKey(strings.Join(tampered, ":"), key)
	assert.ErrorIs(t, err, phiDomain.ErrAuthenticationFailed)
}

func TestDecryptWithKey_MalformedEnvelope(t *testing.T) {
	key, err := phiDomain.GenerateKey()
	require.NoError(t, err)

	for _, input := range []string{
		"not an envelope",
		"v1:only:three",
		"v9:" + strings.Repeat("ab", 16) + ":" + strings.Repeat("cd", 16) + ":ef",
	} {
		_, err := DecryptWithKey(input, key)
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, phiDomain.ErrInvalidCiphertext)
		assert.NotErrorIs(t, err, phiDomain.ErrAuthenticationFailed)
	}
}

func TestDecryptWithKey_V2Compatibility(t *testing.T) {
	key, err := phiDomain.GenerateKey()
	require.NoError(t, err)

	// Build a v2 envelope the way the earlier module revision did:
	// ChaCha20-Poly1305 with a 12-byte nonce.
	aead, err := chacha20poly1305.New(key)
	require.NoError(t, err)

	nonce := make([]byte, phiDomain.V2NonceSize)
	for i := range nonce {
		nonce[i] = byte(i)
	}
	sealed := aead.Seal(nil, nonce, []byte("legacy v2 field"), nil)
	boundary := len(sealed) - phiDomain.TagSize

	env := &phiDomain.Envelope{
		Version: phiDomain.FormatV2,
		IV:      nonce,
		Tag:     sealed[boundary:],
		Data:    sealed[:boundary],
	}

	plaintext, err := DecryptWithKey(env.String(), key)
	require.NoError(t, err)
	assert.Equal(t, "legacy v2 field", plaintext)

	// New data is always written as v1; nothing produces v2 envelopes.
	envelope, err := EncryptWithKey("new data", key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(envelope, "v1:"))
}

func TestSearchHash(t *testing.T) {
	t.Run("NormalizationStability", func(t *testing.T) {
		expected := SearchHash("test@example.com")
		assert.Equal(t, expected, SearchHash("Test@Example.com"))
		assert.Equal(t, expected, SearchHash("  test@example.com  "))
		assert.Equal(t, expected, SearchHash("\tTEST@EXAMPLE.COM\n"))
	})

	t.Run("Discrimination", func(t *testing.T) {
		assert.NotEqual(t, SearchHash("a@example.com"), SearchHash("b@example.com"))
	})

	t.Run("Shape", func(t *testing.T) {
		assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{64}$`), SearchHash("John Smith"))
	})

	t.Run("BlankReturnsEmpty", func(t *testing.T) {
		assert.Empty(t, SearchHash(""))
		assert.Empty(t, SearchHash("   "))
	})
}

func TestEncryptWithKey_InvalidKey(t *testing.T) {
	_, err := EncryptWithKey("data", phiDomain.Key([]byte("short")))
	require.Error(t, err)
	assert.ErrorIs(t, err, phiDomain.ErrInvalidKeyFormat)

	_, err = DecryptWithKey("v1:aa:bb:cc", phiDomain.Key([]byte("short")))
	require.Error(t, err)
	assert.ErrorIs(t, err, phiDomain.ErrInvalidKeyFormat)
}
