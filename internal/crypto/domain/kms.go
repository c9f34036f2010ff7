package domain

import "context"

// KMSKeeper is the trusted boundary that seals master keys at rest.
// *secrets.Keeper from gocloud.dev/secrets implements it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
