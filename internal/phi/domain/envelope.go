// Package domain defines the core types of the PHI encryption module: keys,
// versioned ciphertext envelopes, and rotation audit records.
package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FormatVersion tags a ciphertext envelope with the algorithm and field
// layout used to produce it, so future formats can coexist in storage.
type FormatVersion string

const (
	// FormatV1 is the canonical envelope format: AES-256-GCM with a 16-byte
	// random IV and a 16-byte authentication tag. All new data is written
	// under v1.
	FormatV1 FormatVersion = "v1"

	// FormatV2 is a read-compatibility format: ChaCha20-Poly1305 with a
	// 12-byte nonce. An earlier revision of the clinical-notes module wrote
	// envelopes under this tag; decryption still accepts them, but no new
	// v2 data is produced.
	FormatV2 FormatVersion = "v2"
)

const (
	// TagSize is the AEAD authentication tag length in bytes for both formats.
	TagSize = 16

	// V1IVSize is the initialization vector length for v1 envelopes.
	V1IVSize = 16

	// V2NonceSize is the nonce length for v2 envelopes.
	V2NonceSize = 12

	envelopeSegments  = 4
	envelopeSeparator = ":"
)

// Envelope is the parsed form of a versioned ciphertext string:
//
//	v<version>:<iv_hex>:<auth_tag_hex>:<ciphertext_hex>
//
// The IV is unique per encryption call, so encrypting identical plaintext
// twice yields different envelopes. The tag binds ciphertext integrity to
// the IV and key; decryption fails closed on any mismatch.
type Envelope struct {
	Version FormatVersion
	IV      []byte
	Tag     []byte
	Data    []byte
}

// IVSize returns the required initialization vector length for the version.
func (v FormatVersion) IVSize() int {
	if v == FormatV2 {
		return V2NonceSize
	}
	return V1IVSize
}

// recognized reports whether the version tag is known to this module.
func (v FormatVersion) recognized() bool {
	return v == FormatV1 || v == FormatV2
}

// ParseEnvelope parses and validates a versioned ciphertext string.
//
// All shape problems (wrong segment count, unknown version tag, non-hex
// segments, wrong IV or tag length) return errors wrapping
// ErrInvalidCiphertext so callers can distinguish malformed data from an
// authentication failure.
func ParseEnvelope(s string) (*Envelope, error) {
	parts := strings.Split(s, envelopeSeparator)
	if len(parts) != envelopeSegments {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrInvalidCiphertext, envelopeSegments, len(parts))
	}

	version := FormatVersion(parts[0])
	if !version.recognized() {
		return nil, fmt.Errorf("%w: unrecognized version %q", ErrInvalidCiphertext, parts[0])
	}

	iv, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not valid hex", ErrInvalidCiphertext)
	}
	if len(iv) != version.IVSize() {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidCiphertext, version.IVSize(), len(iv))
	}

	tag, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: auth tag is not valid hex", ErrInvalidCiphertext)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: auth tag must be %d bytes, got %d", ErrInvalidCiphertext, TagSize, len(tag))
	}

	data, err := hex.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not valid hex", ErrInvalidCiphertext)
	}

	return &Envelope{Version: version, IV: iv, Tag: tag, Data: data}, nil
}

// String composes the envelope into its persisted wire form.
func (e *Envelope) String() string {
	return strings.Join([]string{
		string(e.Version),
		hex.EncodeToString(e.IV),
		hex.EncodeToString(e.Tag),
		hex.EncodeToString(e.Data),
	}, envelopeSeparator)
}

// IsEnvelope reports whether s looks like a versioned ciphertext string.
// Used by callers that need to tell encrypted columns from legacy plaintext
// without paying for a full parse.
func IsEnvelope(s string) bool {
	_, err := ParseEnvelope(s)
	return err == nil
}
