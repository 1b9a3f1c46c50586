package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/clearcove/phicrypt/internal/app"
	"github.com/clearcove/phicrypt/internal/config"
)

// RunValidateKey runs the encryption subsystem self-check against the
// configured key and prints the result of each check. Returns an error when
// any check fails, so the command exit code reflects key health.
func RunValidateKey(ctx context.Context, w io.Writer) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	healthUseCase, err := container.HealthUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize health use case: %w", err)
	}

	status, err := healthUseCase.Check(ctx)
	if err != nil {
		return fmt.Errorf("key validation failed: %w", err)
	}

	names := make([]string, 0, len(status.Checks))
	for name := range status.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, status.Checks[name])
	}

	if !status.Healthy {
		return fmt.Errorf("encryption key validation failed")
	}

	fmt.Fprintf(w, "key fingerprint: %s\n", status.KeyFingerprint)
	return nil
}
