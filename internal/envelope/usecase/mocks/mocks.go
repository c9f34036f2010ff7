// Package mocks provides mock implementations of the envelope interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// MockContentKeyUseCase is a mock implementation of ContentKeyUseCase.
type MockContentKeyUseCase struct {
	mock.Mock
}

// StoreContentKey mocks the StoreContentKey method of ContentKeyUseCase.
func (m *MockContentKeyUseCase) StoreContentKey(ctx context.Context, raw []byte) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

// StoreEncodedContentKey mocks the StoreEncodedContentKey method of ContentKeyUseCase.
func (m *MockContentKeyUseCase) StoreEncodedContentKey(ctx context.Context, text []byte) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// LoadContentKey mocks the LoadContentKey method of ContentKeyUseCase.
func (m *MockContentKeyUseCase) LoadContentKey(ctx context.Context) (*cryptoDomain.ContentKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.ContentKey), args.Error(1)
}

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// Read mocks the Read method of RecordRepository.
func (m *MockRecordRepository) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Write mocks the Write method of RecordRepository.
func (m *MockRecordRepository) Write(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
