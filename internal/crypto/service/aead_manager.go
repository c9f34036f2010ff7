package service

import (
	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// AES-GCM accepts 16, 24 or 32-byte keys, ChaCha20-Poly1305 only 32-byte keys.
// Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	switch alg {
	case cryptoDomain.AESGCM:
		if !cryptoDomain.ValidContentKeySize(len(key)) {
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		if len(key) != 32 {
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
