package usecase

import (
	"context"

	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

// KeyStore is the protected store holding sealed master keys, one entry per alias.
type KeyStore interface {
	// Get returns the entry for alias or ErrKeyNotFound.
	Get(ctx context.Context, alias string) (*vaultDomain.MasterKeyEntry, error)

	// Create stores entry if no entry exists for its alias, otherwise returns ErrKeyExists.
	Create(ctx context.Context, entry *vaultDomain.MasterKeyEntry) error
}

// Vault holds non-exportable master keys and wraps small secrets under them.
//
// Key material never leaves the vault. Callers refer to keys by KeyHandle and only see
// IVs, ciphertexts and tags.
type Vault interface {
	// EnsureKey returns the handle for alias, generating and persisting a new key on
	// first use. Concurrent callers for the same alias observe the same key.
	EnsureKey(ctx context.Context, alias string) (vaultDomain.KeyHandle, error)

	// Key returns the handle for an existing alias without creating one.
	Key(ctx context.Context, alias string) (vaultDomain.KeyHandle, error)

	// Wrap encrypts plaintext under the key with a fresh random IV.
	Wrap(ctx context.Context, handle vaultDomain.KeyHandle, plaintext []byte) (iv, ciphertext, tag []byte, err error)

	// Unwrap verifies tag and decrypts ciphertext. The caller owns the returned slice
	// and should zero it after use.
	Unwrap(ctx context.Context, handle vaultDomain.KeyHandle, iv, ciphertext, tag []byte) ([]byte, error)

	// Close drops every unsealed key held in memory. Further calls return ErrVaultClosed.
	Close() error
}
