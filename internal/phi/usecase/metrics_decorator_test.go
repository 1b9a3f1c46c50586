package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// mockBusinessMetrics records metric calls for assertions.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func TestPHIUseCaseWithMetrics(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		inner := newTestPHIUseCase(t)
		metricsMock := &mockBusinessMetrics{}
		metricsMock.On("RecordOperation", mock.Anything, "phi", "field_encrypt", "success").Once()
		metricsMock.On(
			"RecordDuration", mock.Anything, "phi", "field_encrypt", mock.Anything, "success",
		).Once()

		uc := NewPHIUseCaseWithMetrics(inner, metricsMock)
		_, err := uc.Encrypt(context.Background(), "data")
		require.NoError(t, err)
		metricsMock.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		inner := newTestPHIUseCase(t)
		metricsMock := &mockBusinessMetrics{}
		metricsMock.On("RecordOperation", mock.Anything, "phi", "field_decrypt", "error").Once()
		metricsMock.On(
			"RecordDuration", mock.Anything, "phi", "field_decrypt", mock.Anything, "error",
		).Once()

		uc := NewPHIUseCaseWithMetrics(inner, metricsMock)
		_, err := uc.Decrypt(context.Background(), "not-an-envelope")
		assert.Error(t, err)
		metricsMock.AssertExpectations(t)
	})
}

func TestRotationUseCaseWithMetrics(t *testing.T) {
	oldKey, newKey := testKeys(t)
	store := newMemoryRecordStore()
	repo := &memoryRotationRepo{}

	metricsMock := &mockBusinessMetrics{}
	metricsMock.On("RecordOperation", mock.Anything, "phi", "key_rotation", "success").Once()
	metricsMock.On(
		"RecordDuration", mock.Anything, "phi", "key_rotation", mock.Anything, "success",
	).Once()

	uc := NewRotationUseCaseWithMetrics(newTestRotationUseCase(store, repo, 100), metricsMock)
	_, err := uc.Rotate(context.Background(), &phiDomain.RotationInput{
		OldKeyHex: oldKey.Hex(),
		NewKeyHex: newKey.Hex(),
	})
	require.NoError(t, err)
	metricsMock.AssertExpectations(t)
}
