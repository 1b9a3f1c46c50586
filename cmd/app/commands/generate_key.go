package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	phiService "github.com/clearcove/phicrypt/internal/phi/service"
)

// RunGenerateKey generates a fresh 256-bit PHI encryption key as a
// 64-character hex string, for provisioning a new deployment or preparing a
// key rotation. Refused when the environment is "production".
//
// Without KMS parameters the plaintext key is printed for direct use in
// PHI_ENCRYPTION_KEY. With --kms-provider and --kms-key-uri the key is
// wrapped by the KMS and only the ciphertext is printed, for use in
// PHI_ENCRYPTION_KEY_CIPHERTEXT.
//
// Security: Never use the localsecrets provider in production. Use cloud KMS
// providers (gcpkms, awskms, azurekeyvault, hashivault).
func RunGenerateKey(
	ctx context.Context,
	kmsService phiService.KMSService,
	logger *slog.Logger,
	w io.Writer,
	environment, kmsProvider, kmsKeyURI string,
) error {
	keyManager := phiService.NewKeyManager(phiService.NewEnvKeySource(""), environment)

	keyHex, err := keyManager.GenerateKeyHex()
	if err != nil {
		return err
	}

	if kmsProvider == "" && kmsKeyURI == "" {
		fmt.Fprintln(w, "# PHI Encryption Key Configuration")
		fmt.Fprintln(w, "# Copy this environment variable to your .env file or secrets manager")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "PHI_ENCRYPTION_KEY=\"%s\"\n", keyHex)
		return nil
	}

	if kmsProvider == "" || kmsKeyURI == "" {
		return fmt.Errorf("--kms-provider and --kms-key-uri are required together")
	}

	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	// The keeper interface only exposes Decrypt; wrapping needs Encrypt.
	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	wrapped, err := keeper.Encrypt(ctx, []byte(keyHex))
	if err != nil {
		return fmt.Errorf("failed to wrap key with KMS: %w", err)
	}

	fmt.Fprintln(w, "# PHI Encryption Key Configuration (KMS Mode)")
	fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	fmt.Fprintf(w, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	fmt.Fprintf(w, "PHI_ENCRYPTION_KEY_CIPHERTEXT=\"%s\"\n", base64.StdEncoding.EncodeToString(wrapped))

	return nil
}
