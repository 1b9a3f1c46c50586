package usecase

import (
	"context"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
	phiService "github.com/clearcove/phicrypt/internal/phi/service"
)

// healthProbe is the plaintext run through the encrypt/decrypt and search
// hash checks.
const healthProbe = "phicrypt-health-probe"

const checkOK = "ok"

// healthUseCase implements the HealthUseCase interface.
//
// The check validates the whole encryption path with the live key: key
// configuration, an encrypt/decrypt round trip, and search hash computation.
// It never touches stored PHI.
type healthUseCase struct {
	keyManager KeyManager
	encryptor  phiService.Encryptor
}

// NewHealthUseCase creates a HealthUseCase.
func NewHealthUseCase(keyManager KeyManager, encryptor phiService.Encryptor) HealthUseCase {
	return &healthUseCase{
		keyManager: keyManager,
		encryptor:  encryptor,
	}
}

// Check runs the encryption subsystem self-test.
func (u *healthUseCase) Check(_ context.Context) (*phiDomain.HealthStatus, error) {
	status := &phiDomain.HealthStatus{
		Healthy: true,
		Checks:  make(map[string]string),
	}

	key, err := u.keyManager.EncryptionKey()
	if err != nil {
		status.Healthy = false
		status.Checks["key_configuration"] = err.Error()
		// Without a key the remaining checks cannot run.
		status.Checks["round_trip"] = "skipped"
		status.Checks["search_hash"] = "skipped"
		return status, nil
	}
	status.KeyFingerprint = key.Fingerprint()
	status.Checks["key_configuration"] = checkOK

	if ok, err := u.keyManager.ValidateCurrentKey(); !ok {
		status.Healthy = false
		status.Checks["round_trip"] = err.Error()
	} else {
		status.Checks["round_trip"] = checkOK
	}

	if hash := u.encryptor.SearchHash(healthProbe); len(hash) != 64 {
		status.Healthy = false
		status.Checks["search_hash"] = "unexpected digest length"
	} else {
		status.Checks["search_hash"] = checkOK
	}

	return status, nil
}
