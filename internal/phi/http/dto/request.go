// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/clearcove/phicrypt/internal/validation"
)

// EncryptRequest contains the parameters for encrypting a field value.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // Blank plaintext maps to a blank envelope
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Length(0, 65536),
		),
	)
}

// DecryptRequest contains the parameters for decrypting a field value.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"` // Format: "v<version>:<iv>:<tag>:<ciphertext>" hex
}

// Validate checks if the decrypt request is valid.
// A blank ciphertext is allowed and maps to a blank plaintext.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			customValidation.CiphertextEnvelope,
		),
	)
}

// SearchHashRequest contains the parameters for computing a search hash.
type SearchHashRequest struct {
	Value string `json:"value"` // Blank value maps to a blank hash
}

// Validate checks if the search hash request is valid.
func (r *SearchHashRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Length(0, 65536),
		),
	)
}

// RotateKeysRequest contains the parameters for a key rotation run.
type RotateKeysRequest struct {
	OldKey    string `json:"old_key"`    // 64-character hex
	NewKey    string `json:"new_key"`    // 64-character hex
	Reason    string `json:"reason"`     // Free text recorded in the audit entry
	BatchSize int    `json:"batch_size"` // Optional, defaults to server configuration
}

// Validate checks if the rotate keys request is valid.
func (r *RotateKeysRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OldKey,
			validation.Required,
			customValidation.NotBlank,
			customValidation.HexKey,
		),
		validation.Field(&r.NewKey,
			validation.Required,
			customValidation.NotBlank,
			customValidation.HexKey,
		),
		validation.Field(&r.Reason,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.BatchSize,
			validation.Min(0),
			validation.Max(10000),
		),
	)
}
