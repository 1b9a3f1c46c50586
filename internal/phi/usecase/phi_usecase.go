package usecase

import (
	"context"

	phiService "github.com/clearcove/phicrypt/internal/phi/service"
)

// phiUseCase implements PHIUseCase over the encryption service.
type phiUseCase struct {
	encryptor phiService.Encryptor
}

// NewPHIUseCase creates a PHIUseCase backed by the given encryptor.
func NewPHIUseCase(encryptor phiService.Encryptor) PHIUseCase {
	return &phiUseCase{encryptor: encryptor}
}

// Encrypt encrypts a single field value under the active key.
func (u *phiUseCase) Encrypt(_ context.Context, plaintext string) (string, error) {
	return u.encryptor.Encrypt(plaintext)
}

// Decrypt decrypts a single ciphertext envelope under the active key.
func (u *phiUseCase) Decrypt(_ context.Context, envelope string) (string, error) {
	return u.encryptor.Decrypt(envelope)
}

// SearchHash computes the deterministic search hash for a field value.
func (u *phiUseCase) SearchHash(_ context.Context, plaintext string) (string, error) {
	return u.encryptor.SearchHash(plaintext), nil
}
