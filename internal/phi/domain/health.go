package domain

// HealthStatus is the result of the encryption subsystem self-check.
type HealthStatus struct {
	// Healthy is true when every check passed.
	Healthy bool
	// KeyFingerprint identifies the active key (trailing 8 hex characters),
	// empty when no key is configured.
	KeyFingerprint string
	// Checks maps each check name to "ok" or the failure message.
	Checks map[string]string
}

// RotationInput carries the operator-supplied parameters for a rotation run.
type RotationInput struct {
	// OldKeyHex is the key currently protecting stored ciphertext.
	OldKeyHex string
	// NewKeyHex is the replacement key.
	NewKeyHex string
	// Reason is free text recorded in the audit entry.
	Reason string
	// BatchSize overrides the configured batch size when positive.
	BatchSize int
}

// RotationResult summarizes a finished rotation run.
type RotationResult struct {
	// Record is the audit entry written for the run.
	Record RotationRecord
	// RotatedFields counts individual field values re-encrypted.
	RotatedFields int
	// SkippedFields counts field values left on the old key because they
	// could not be decrypted or re-encrypted.
	SkippedFields int
}
