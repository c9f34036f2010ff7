// Package mocks provides mock implementations of the artifact interfaces for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// MockEngine is a mock implementation of Engine.
type MockEngine struct {
	mock.Mock
}

// Decrypt mocks the Decrypt method of Engine.
func (m *MockEngine) Decrypt(key *cryptoDomain.ContentKey, artifactPath string) (string, error) {
	args := m.Called(key, artifactPath)
	return args.String(0), args.Error(1)
}

// DecryptTo mocks the DecryptTo method of Engine.
func (m *MockEngine) DecryptTo(key *cryptoDomain.ContentKey, artifactPath, destinationPath string) error {
	args := m.Called(key, artifactPath, destinationPath)
	return args.Error(0)
}

// Encrypt mocks the Encrypt method of Engine.
func (m *MockEngine) Encrypt(key *cryptoDomain.ContentKey, plaintextPath, destinationPath string) error {
	args := m.Called(key, plaintextPath, destinationPath)
	return args.Error(0)
}
