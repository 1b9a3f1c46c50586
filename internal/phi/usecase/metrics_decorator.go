package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clearcove/phicrypt/internal/metrics"
	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// phiUseCaseWithMetrics decorates PHIUseCase with metrics instrumentation.
type phiUseCaseWithMetrics struct {
	next    PHIUseCase
	metrics metrics.BusinessMetrics
}

// NewPHIUseCaseWithMetrics wraps a PHIUseCase with metrics recording.
func NewPHIUseCaseWithMetrics(useCase PHIUseCase, m metrics.BusinessMetrics) PHIUseCase {
	return &phiUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for field encryption operations.
func (p *phiUseCaseWithMetrics) Encrypt(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	envelope, err := p.next.Encrypt(ctx, plaintext)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "phi", "field_encrypt", status)
	p.metrics.RecordDuration(ctx, "phi", "field_encrypt", time.Since(start), status)

	return envelope, err
}

// Decrypt records metrics for field decryption operations.
func (p *phiUseCaseWithMetrics) Decrypt(ctx context.Context, envelope string) (string, error) {
	start := time.Now()
	plaintext, err := p.next.Decrypt(ctx, envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "phi", "field_decrypt", status)
	p.metrics.RecordDuration(ctx, "phi", "field_decrypt", time.Since(start), status)

	return plaintext, err
}

// SearchHash records metrics for search hash computations.
func (p *phiUseCaseWithMetrics) SearchHash(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	hash, err := p.next.SearchHash(ctx, plaintext)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "phi", "search_hash", status)
	p.metrics.RecordDuration(ctx, "phi", "search_hash", time.Since(start), status)

	return hash, err
}

// rotationUseCaseWithMetrics decorates RotationUseCase with metrics instrumentation.
type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Rotate records metrics for key rotation runs.
func (r *rotationUseCaseWithMetrics) Rotate(
	ctx context.Context,
	input *phiDomain.RotationInput,
) (*phiDomain.RotationResult, error) {
	start := time.Now()
	result, err := r.next.Rotate(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "phi", "key_rotation", status)
	r.metrics.RecordDuration(ctx, "phi", "key_rotation", time.Since(start), status)

	return result, err
}

// GetRotation records metrics for rotation audit reads.
func (r *rotationUseCaseWithMetrics) GetRotation(
	ctx context.Context,
	id uuid.UUID,
) (*phiDomain.RotationRecord, error) {
	start := time.Now()
	record, err := r.next.GetRotation(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "phi", "rotation_get", status)
	r.metrics.RecordDuration(ctx, "phi", "rotation_get", time.Since(start), status)

	return record, err
}

// ListRotations records metrics for rotation history reads.
func (r *rotationUseCaseWithMetrics) ListRotations(
	ctx context.Context,
	limit int,
) ([]*phiDomain.RotationRecord, error) {
	start := time.Now()
	records, err := r.next.ListRotations(ctx, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "phi", "rotation_list", status)
	r.metrics.RecordDuration(ctx, "phi", "rotation_list", time.Since(start), status)

	return records, err
}
