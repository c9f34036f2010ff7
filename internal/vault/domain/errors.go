// Package domain defines the master key vault models and errors.
package domain

import (
	"github.com/allisson/modelguard/internal/errors"
)

// Vault error definitions.
var (
	// ErrKeyNotFound indicates no master key exists for the alias.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "master key not found")

	// ErrKeyExists indicates the key store already holds an entry for the alias.
	ErrKeyExists = errors.Wrap(errors.ErrConflict, "master key already exists")

	// ErrInvalidAlias indicates the alias is empty, too long or contains unsupported characters.
	ErrInvalidAlias = errors.Wrap(errors.ErrInvalidInput, "invalid master key alias")

	// ErrCipherFailure indicates the cipher could not be constructed or the input was malformed.
	ErrCipherFailure = errors.New("master key cipher failure")

	// ErrAuthenticationFailed indicates the tag did not verify under the master key.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "master key authentication failed")

	// ErrKeyStoreFailure indicates the protected key store could not be read or written.
	ErrKeyStoreFailure = errors.Wrap(errors.ErrStorage, "key store failure")

	// ErrVaultClosed indicates the vault was used after Close.
	ErrVaultClosed = errors.New("vault closed")
)
