package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clearcove/phicrypt/internal/app"
	"github.com/clearcove/phicrypt/internal/config"
	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// RunRotateKeys re-encrypts every stored PHI field value from the old key to
// the new key and writes a rotation audit record. Keys are validated with a
// self-test before any stored data is touched.
func RunRotateKeys(ctx context.Context, oldKeyHex, newKeyHex, reason string, batchSize int) error {
	if oldKeyHex == "" || newKeyHex == "" {
		return fmt.Errorf("--old-key and --new-key are required")
	}
	if reason == "" {
		return fmt.Errorf("--reason is required")
	}
	if batchSize < 0 {
		return fmt.Errorf("--batch-size must not be negative")
	}

	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting key rotation run",
		slog.Int("batch_size", batchSize),
		slog.String("reason", reason),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	rotationUseCase, err := container.RotationUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize rotation use case: %w", err)
	}

	result, err := rotationUseCase.Rotate(ctx, &phiDomain.RotationInput{
		OldKeyHex: oldKeyHex,
		NewKeyHex: newKeyHex,
		Reason:    reason,
		BatchSize: batchSize,
	})
	if err != nil {
		if result != nil {
			logger.Error("key rotation aborted",
				slog.String("rotation_id", result.Record.ID.String()),
				slog.Int("records_processed", result.Record.TotalRecords),
				slog.Any("error", err),
			)
		}
		return fmt.Errorf("key rotation failed: %w", err)
	}

	fmt.Printf("Rotation completed: id=%s\n", result.Record.ID)
	fmt.Printf("  records re-encrypted: %d\n", result.Record.TotalRecords)
	fmt.Printf("  fields rotated:       %d\n", result.RotatedFields)
	fmt.Printf("  fields skipped:       %d\n", result.SkippedFields)
	for class, count := range result.Record.EntityCounts {
		fmt.Printf("  %s: %d\n", class, count)
	}

	return nil
}
