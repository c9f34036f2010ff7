package domain

import (
	"github.com/allisson/modelguard/internal/errors"
)

// Cryptographic primitive errors. Component packages translate these into their own
// error kinds; they are exported so the translation can match on them.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key has a length the algorithm does not accept.
	// AES-GCM accepts 16, 24 or 32 bytes; ChaCha20-Poly1305 accepts 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidNonceSize indicates a nonce is not IVSize bytes long.
	ErrInvalidNonceSize = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")

	// ErrDecryptionFailed indicates the authentication tag did not verify.
	//
	// The cause (wrong key, tampered ciphertext, tag or nonce) is deliberately not
	// distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrKMSKeyURIRequired indicates no keeper URI was configured.
	ErrKMSKeyURIRequired = errors.Wrap(errors.ErrInvalidInput, "KMS_KEY_URI is required to seal master keys")

	// ErrMessageTooLarge indicates a stream exceeded the GCM per-nonce length limit.
	ErrMessageTooLarge = errors.Wrap(errors.ErrInvalidInput, "message exceeds gcm length limit")
)
