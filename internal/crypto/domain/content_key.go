package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentKey is the symmetric key that decrypts an artifact.
//
// It only exists in plaintext in memory. Callers should call Zero once the key is no
// longer needed.
type ContentKey struct {
	key []byte
}

// NewContentKey validates the key length and copies the bytes into a new ContentKey.
func NewContentKey(raw []byte) (*ContentKey, error) {
	if !ValidContentKeySize(len(raw)) {
		return nil, ErrInvalidKeySize
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	return &ContentKey{key: key}, nil
}

// ValidContentKeySize reports whether n is an AES-128, AES-192 or AES-256 key length.
func ValidContentKeySize(n int) bool {
	return n == 16 || n == 24 || n == 32
}

// Bytes returns the key material. The slice aliases the key and is zeroed by Zero.
func (k *ContentKey) Bytes() []byte {
	return k.key
}

// Len returns the key length in bytes.
func (k *ContentKey) Len() int {
	return len(k.key)
}

// Fingerprint returns the first 8 bytes of the SHA-256 of the key, hex encoded.
// It identifies a key in logs without disclosing it.
func (k *ContentKey) Fingerprint() string {
	sum := sha256.Sum256(k.key)
	return hex.EncodeToString(sum[:8])
}

// Zero overwrites the key material.
func (k *ContentKey) Zero() {
	if k == nil {
		return
	}
	Zero(k.key)
}
