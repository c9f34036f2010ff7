// Package service provides the cryptographic services behind envelope encryption:
// AEAD ciphers (AES-GCM, ChaCha20-Poly1305), a streaming AES-GCM transform for large
// artifacts, and access to KMS keepers that seal master keys.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext (tag appended) and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and decrypts ciphertext (tag appended) using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KMSService opens KMS keepers from provider URIs.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI.
	// Supports: base64key://, hashivault://, awskms://, gcpkms://, azurekeyvault://
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)

	// NewLocalKeyURI returns a base64key:// URI holding a fresh random 32-byte key.
	NewLocalKeyURI() (string, error)
}
