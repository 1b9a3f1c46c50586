// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/clearcove/phicrypt/internal/errors"
)

var (
	// hexKeyRegex matches a 64-character lowercase-or-uppercase hex string,
	// the wire form of a 32-byte AES-256 key.
	hexKeyRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

	// envelopeRegex matches the versioned ciphertext envelope shape.
	envelopeRegex = regexp.MustCompile(`^v\d+:[a-fA-F0-9]+:[a-fA-F0-9]+:[a-fA-F0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// HexKey validates that a string is a 64-character hex encryption key
var HexKey = validation.NewStringRuleWithError(
	func(s string) bool {
		return hexKeyRegex.MatchString(s)
	},
	validation.NewError("validation_hex_key", "must be a 64-character hex string"),
)

// CiphertextEnvelope validates the v<version>:<iv>:<tag>:<data> shape
var CiphertextEnvelope = validation.NewStringRuleWithError(
	func(s string) bool {
		return envelopeRegex.MatchString(s)
	},
	validation.NewError("validation_ciphertext_envelope", "must be a versioned ciphertext envelope"),
)
