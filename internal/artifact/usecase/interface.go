package usecase

import (
	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// Engine encrypts and decrypts artifacts laid out as IV(12) || ciphertext || tag(16)
// with AES-GCM and no additional data, streaming in fixed-size chunks.
//
// Operations are synchronous and hold no shared mutable state, so one Engine may serve
// concurrent calls. Any failure removes partial output.
type Engine interface {
	// Decrypt writes the plaintext of artifactPath to a fresh file and returns its path.
	// The caller owns and must delete the returned file.
	Decrypt(key *cryptoDomain.ContentKey, artifactPath string) (string, error)

	// DecryptTo writes the plaintext of artifactPath to destinationPath.
	DecryptTo(key *cryptoDomain.ContentKey, artifactPath, destinationPath string) error

	// Encrypt seals plaintextPath into destinationPath with a fresh random IV.
	Encrypt(key *cryptoDomain.ContentKey, plaintextPath, destinationPath string) error
}
