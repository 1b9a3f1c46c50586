// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
)

// MockPHIUseCase is a mock implementation of PHIUseCase for testing.
type MockPHIUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of PHIUseCase.
func (m *MockPHIUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of PHIUseCase.
func (m *MockPHIUseCase) Decrypt(ctx context.Context, envelope string) (string, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Error(1)
}

// SearchHash mocks the SearchHash method of PHIUseCase.
func (m *MockPHIUseCase) SearchHash(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// MockRotationUseCase is a mock implementation of RotationUseCase for testing.
type MockRotationUseCase struct {
	mock.Mock
}

// Rotate mocks the Rotate method of RotationUseCase.
func (m *MockRotationUseCase) Rotate(
	ctx context.Context,
	input *phiDomain.RotationInput,
) (*phiDomain.RotationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phiDomain.RotationResult), args.Error(1)
}

// GetRotation mocks the GetRotation method of RotationUseCase.
func (m *MockRotationUseCase) GetRotation(
	ctx context.Context,
	id uuid.UUID,
) (*phiDomain.RotationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phiDomain.RotationRecord), args.Error(1)
}

// ListRotations mocks the ListRotations method of RotationUseCase.
func (m *MockRotationUseCase) ListRotations(
	ctx context.Context,
	limit int,
) ([]*phiDomain.RotationRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*phiDomain.RotationRecord), args.Error(1)
}

// MockHealthUseCase is a mock implementation of HealthUseCase for testing.
type MockHealthUseCase struct {
	mock.Mock
}

// Check mocks the Check method of HealthUseCase.
func (m *MockHealthUseCase) Check(ctx context.Context) (*phiDomain.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phiDomain.HealthStatus), args.Error(1)
}
