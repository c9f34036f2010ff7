// Package mocks provides mock implementations of the vault interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

// MockVault is a mock implementation of Vault.
type MockVault struct {
	mock.Mock
}

// EnsureKey mocks the EnsureKey method of Vault.
func (m *MockVault) EnsureKey(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	args := m.Called(ctx, alias)
	return args.Get(0).(vaultDomain.KeyHandle), args.Error(1)
}

// Key mocks the Key method of Vault.
func (m *MockVault) Key(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	args := m.Called(ctx, alias)
	return args.Get(0).(vaultDomain.KeyHandle), args.Error(1)
}

// Wrap mocks the Wrap method of Vault.
func (m *MockVault) Wrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	plaintext []byte,
) (iv, ciphertext, tag []byte, err error) {
	args := m.Called(ctx, handle, plaintext)
	return bytesArg(args, 0), bytesArg(args, 1), bytesArg(args, 2), args.Error(3)
}

// Unwrap mocks the Unwrap method of Vault.
func (m *MockVault) Unwrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	iv, ciphertext, tag []byte,
) ([]byte, error) {
	args := m.Called(ctx, handle, iv, ciphertext, tag)
	return bytesArg(args, 0), args.Error(1)
}

// Close mocks the Close method of Vault.
func (m *MockVault) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockKeyStore is a mock implementation of KeyStore.
type MockKeyStore struct {
	mock.Mock
}

// Get mocks the Get method of KeyStore.
func (m *MockKeyStore) Get(ctx context.Context, alias string) (*vaultDomain.MasterKeyEntry, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.MasterKeyEntry), args.Error(1)
}

// Create mocks the Create method of KeyStore.
func (m *MockKeyStore) Create(ctx context.Context, entry *vaultDomain.MasterKeyEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func bytesArg(args mock.Arguments, i int) []byte {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]byte)
}
